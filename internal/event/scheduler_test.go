package event_test

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/clocktui/internal/event"
	"github.com/ensigniasec/clocktui/internal/event/mocks"
)

// pump forwards scheduler events into a generously buffered channel so tests
// can wait on them with a deadline. The channel closes once Next fails.
func pump(s *event.Scheduler) <-chan event.Event {
	ch := make(chan event.Event, 4096)
	go func() {
		defer close(ch)
		for {
			ev, err := s.Next()
			if err != nil {
				return
			}
			ch <- ev
		}
	}()
	return ch
}

// collect gathers every event delivered within d.
func collect(ch <-chan event.Event, d time.Duration) []event.Event {
	var out []event.Event
	deadline := time.After(d)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-deadline:
			return out
		}
	}
}

func count[T event.Event](evs []event.Event) int {
	n := 0
	for _, ev := range evs {
		if _, ok := ev.(T); ok {
			n++
		}
	}
	return n
}

func next(t *testing.T, ch <-chan event.Event) event.Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "event stream closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestScheduler_LogicTicksHonourInterval(t *testing.T) {
	const interval = 30 * time.Millisecond
	s := event.Start(context.Background(), event.NewChanInput(8), interval, 5*time.Millisecond)
	defer s.Stop()
	events := pump(s)

	for i := 0; i < 3; i++ {
		ev := next(t, events)
		tick, ok := ev.(event.LogicTick)
		require.True(t, ok, "unexpected event %T", ev)
		assert.GreaterOrEqual(t, tick.Elapsed, interval)
	}
}

func TestScheduler_InputPreservesOrder(t *testing.T) {
	in := event.NewChanInput(8)
	s := event.Start(context.Background(), in, 20*time.Millisecond, 5*time.Millisecond)
	defer s.Stop()
	events := pump(s)

	want := []event.Event{
		event.Key{Key: tea.Key{Type: tea.KeyRunes, Runes: []rune("a")}},
		event.Key{Key: tea.Key{Type: tea.KeyRunes, Runes: []rune("b")}},
		event.Resize{Width: 100, Height: 30},
	}
	for _, ev := range want {
		require.True(t, in.Push(ev))
	}

	var got []event.Event
	for len(got) < len(want) {
		ev := next(t, events)
		if _, tick := ev.(event.LogicTick); tick {
			continue
		}
		got = append(got, ev)
	}
	assert.Equal(t, want, got)
}

func TestScheduler_InputDoesNotWaitForTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	input := mocks.NewMockInputSource(ctrl)

	const interval = 100 * time.Millisecond
	var (
		mu       sync.Mutex
		timeouts []time.Duration
	)
	idle := func(ctx context.Context, timeout time.Duration) (event.Event, bool, error) {
		mu.Lock()
		timeouts = append(timeouts, timeout)
		mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(timeout):
			return nil, false, nil
		}
	}
	key := event.Key{Key: tea.Key{Type: tea.KeyEsc}}
	gomock.InOrder(
		input.EXPECT().Poll(gomock.Any(), gomock.Any()).Return(key, true, nil),
		input.EXPECT().Poll(gomock.Any(), gomock.Any()).DoAndReturn(idle).AnyTimes(),
	)

	start := time.Now()
	s := event.Start(context.Background(), input, interval, 5*time.Millisecond)
	events := pump(s)

	assert.Equal(t, key, next(t, events))
	assert.Less(t, time.Since(start), interval)

	tick, ok := next(t, events).(event.LogicTick)
	require.True(t, ok)
	assert.GreaterOrEqual(t, tick.Elapsed, interval)

	s.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, timeouts)
	for _, d := range timeouts {
		assert.LessOrEqual(t, d, interval)
		assert.GreaterOrEqual(t, d, time.Duration(0))
	}
}

func TestScheduler_IdleProducesNoRenderTicks(t *testing.T) {
	s := event.Start(context.Background(), event.NewChanInput(8), 20*time.Millisecond, 5*time.Millisecond)
	defer s.Stop()
	events := pump(s)

	evs := collect(events, 300*time.Millisecond)
	assert.Zero(t, count[event.RenderTick](evs))
	assert.GreaterOrEqual(t, count[event.LogicTick](evs), 5)
	assert.True(t, s.Parked())
	assert.Zero(t, s.Wakeups())
}

func TestScheduler_RenderTicksFollowActivity(t *testing.T) {
	const renderInterval = 5 * time.Millisecond
	s := event.Start(context.Background(), event.NewChanInput(8), time.Second, renderInterval)
	defer s.Stop()
	events := pump(s)

	require.Eventually(t, s.Parked, time.Second, time.Millisecond)
	s.NotifyActivity(true)
	assert.True(t, s.Active())

	renders := 0
	for renders < 5 {
		if tick, ok := next(t, events).(event.RenderTick); ok {
			assert.Positive(t, tick.Elapsed)
			renders++
		}
	}

	s.NotifyActivity(false)
	require.Eventually(t, s.Parked, time.Second, time.Millisecond)
	collect(events, 20*time.Millisecond)

	evs := collect(events, 100*time.Millisecond)
	assert.Zero(t, count[event.RenderTick](evs))
}

func TestScheduler_WakesOncePerActivation(t *testing.T) {
	s := event.Start(context.Background(), event.NewChanInput(8), time.Second, 5*time.Millisecond)
	defer s.Stop()
	pump(s)

	require.Eventually(t, s.Parked, time.Second, time.Millisecond)
	require.Zero(t, s.Wakeups())

	s.NotifyActivity(true)
	s.NotifyActivity(true)
	s.NotifyActivity(true)
	require.Eventually(t, func() bool { return !s.Parked() }, time.Second, time.Millisecond)
	assert.Equal(t, 1, s.Wakeups())

	s.NotifyActivity(false)
	s.NotifyActivity(false)
	require.Eventually(t, s.Parked, time.Second, time.Millisecond)
	assert.Equal(t, 1, s.Wakeups())

	s.NotifyActivity(true)
	require.Eventually(t, func() bool { return s.Wakeups() == 2 }, time.Second, time.Millisecond)
}

func TestScheduler_InputFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	input := mocks.NewMockInputSource(ctrl)
	input.EXPECT().Poll(gomock.Any(), gomock.Any()).Return(nil, false, event.ErrInputClosed)

	fatal := make(chan error, 1)
	s := event.Start(context.Background(), input, 50*time.Millisecond, 5*time.Millisecond,
		event.WithFatal(func(err error) { fatal <- err }))
	defer s.Stop()

	select {
	case err := <-fatal:
		require.ErrorIs(t, err, event.ErrInputClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("fatal handler was not called")
	}
}

func TestScheduler_ClosedChanInputIsFatal(t *testing.T) {
	in := event.NewChanInput(1)
	in.Close()

	fatal := make(chan error, 1)
	s := event.Start(context.Background(), in, 20*time.Millisecond, 5*time.Millisecond,
		event.WithFatal(func(err error) { fatal <- err }))
	defer s.Stop()

	select {
	case err := <-fatal:
		require.ErrorIs(t, err, event.ErrInputClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("fatal handler was not called")
	}
}

func TestScheduler_StopEndsStream(t *testing.T) {
	var fatalCalled bool
	s := event.Start(context.Background(), event.NewChanInput(8), 10*time.Millisecond, 5*time.Millisecond,
		event.WithFatal(func(error) { fatalCalled = true }))
	s.NotifyActivity(true)
	s.Stop()
	s.Stop()

	_, err := s.Next()
	require.ErrorIs(t, err, event.ErrClosed)
	assert.False(t, fatalCalled)
}

func TestScheduler_ContextCancelWakesParkedWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := event.Start(ctx, event.NewChanInput(8), time.Second, 5*time.Millisecond)
	require.Eventually(t, s.Parked, time.Second, time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
	_, err := s.Next()
	require.ErrorIs(t, err, event.ErrClosed)
}

func TestScheduler_NonPositiveIntervalsUseDefaults(t *testing.T) {
	s := event.Start(context.Background(), event.NewChanInput(8), 0, -time.Second)
	defer s.Stop()
	events := pump(s)

	tick, ok := next(t, events).(event.LogicTick)
	require.True(t, ok)
	assert.GreaterOrEqual(t, tick.Elapsed, 200*time.Millisecond)
}
