package event

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultQueueSize      = 256
	defaultLogicInterval  = 200 * time.Millisecond
	defaultRenderInterval = 10 * time.Millisecond
)

// Scheduler owns the logic/input worker, the render worker and the queue
// they both feed. The render worker parks on a condition variable while the
// activity flag is false, so an idle clock causes no render wake-ups.
type Scheduler struct {
	logicInterval  time.Duration
	renderInterval time.Duration
	queueSize      int

	input  InputSource
	logger *logrus.Entry
	fatal  func(error)

	queue  chan Event
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu guards the activity flag and the render worker's park state.
	mu      sync.Mutex
	cond    *sync.Cond
	active  bool
	stopped bool
	parked  bool
	wakeups int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler's logger.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithQueueSize sets the event queue capacity.
func WithQueueSize(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithFatal sets the handler invoked when the input source fails for good.
// The default terminates the process.
func WithFatal(fn func(error)) Option {
	return func(s *Scheduler) { s.fatal = fn }
}

// Start spawns the two workers and returns the handle the main loop reads
// events from. Workers run until ctx is done or Stop is called.
func Start(ctx context.Context, input InputSource, logicInterval, renderInterval time.Duration, opts ...Option) *Scheduler {
	if logicInterval <= 0 {
		logicInterval = defaultLogicInterval
	}
	if renderInterval <= 0 {
		renderInterval = defaultRenderInterval
	}
	s := &Scheduler{
		logicInterval:  logicInterval,
		renderInterval: renderInterval,
		queueSize:      defaultQueueSize,
		input:          input,
		logger:         logrus.WithField("component", "scheduler"),
		fatal: func(err error) {
			logrus.WithError(err).Fatal("input source unavailable")
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cond = sync.NewCond(&s.mu)
	s.queue = make(chan Event, s.queueSize)
	s.ctx, s.cancel = context.WithCancel(ctx)

	// Cancellation must also reach a parked render worker.
	context.AfterFunc(s.ctx, func() {
		s.mu.Lock()
		s.stopped = true
		s.cond.Broadcast()
		s.mu.Unlock()
	})

	s.logger.WithFields(logrus.Fields{
		"logic_interval":  logicInterval,
		"render_interval": renderInterval,
	}).Debug("starting scheduler")

	s.wg.Add(2)
	go s.logicLoop()
	go s.renderLoop()
	return s
}

// Next blocks until the next event is available. It returns ErrClosed once
// the scheduler is stopped.
func (s *Scheduler) Next() (Event, error) {
	if s.ctx.Err() != nil {
		return nil, ErrClosed
	}
	select {
	case ev := <-s.queue:
		return ev, nil
	case <-s.ctx.Done():
		return nil, ErrClosed
	}
}

// NotifyActivity stores whether anything is animating. Turning the flag on
// while it was off wakes the parked render worker exactly once; any other
// write only updates the stored value.
func (s *Scheduler) NotifyActivity(active bool) {
	s.mu.Lock()
	wake := active && !s.active
	s.active = active
	if wake {
		s.cond.Signal()
	}
	s.mu.Unlock()
}

// Active reports the current value of the activity flag.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Parked reports whether the render worker is suspended.
func (s *Scheduler) Parked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parked
}

// Wakeups returns how many times the parked render worker has been woken.
func (s *Scheduler) Wakeups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wakeups
}

// Stop cancels both workers and waits for them to exit.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logger.Debug("scheduler stopped")
}

// send enqueues ev. It returns false when the scheduler is shutting down,
// which ends the calling worker.
func (s *Scheduler) send(ev Event) bool {
	select {
	case s.queue <- ev:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// logicLoop forwards input as soon as it arrives and emits a LogicTick
// whenever logicInterval has elapsed since the previous one. A single poll
// never waits past the next tick boundary.
func (s *Scheduler) logicLoop() {
	defer s.wg.Done()

	last := time.Now()
	for {
		timeout := max(s.logicInterval-time.Since(last), 0)

		ev, ok, err := s.input.Poll(s.ctx, timeout)
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			s.logger.WithError(err).Error("input worker stopping")
			s.fatal(err)
			return
		}
		if ok && !s.send(ev) {
			return
		}

		if elapsed := time.Since(last); elapsed >= s.logicInterval {
			if !s.send(LogicTick{Elapsed: elapsed}) {
				return
			}
			last = time.Now()
		}
	}
}

// renderLoop alternates between parking on the activity flag and emitting
// render ticks while the flag stays set.
func (s *Scheduler) renderLoop() {
	defer s.wg.Done()

	for s.awaitActivity() {
		s.logger.Debug("render worker resumed")
		if !s.animate() {
			return
		}
		s.logger.Debug("render worker suspended")
	}
}

// awaitActivity parks until the activity flag is set. It returns false when
// the scheduler is stopped.
func (s *Scheduler) awaitActivity() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.parked = true
	for !s.active && !s.stopped {
		s.cond.Wait()
		s.wakeups++
	}
	s.parked = false
	return !s.stopped
}

// animate emits a RenderTick every renderInterval until a wake finds the
// activity flag cleared. It returns false when the scheduler is stopped.
func (s *Scheduler) animate() bool {
	ticker := time.NewTicker(s.renderInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-s.ctx.Done():
			return false
		case now := <-ticker.C:
			if !s.Active() {
				return true
			}
			if !s.send(RenderTick{Elapsed: now.Sub(last)}) {
				return false
			}
			last = now
		}
	}
}
