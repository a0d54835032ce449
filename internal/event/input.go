package event

import (
	"context"
	"sync"
	"time"
)

//go:generate mockgen -destination=mocks/mock_input.go -package=mocks github.com/ensigniasec/clocktui/internal/event InputSource

// InputSource yields raw terminal input to the logic worker.
type InputSource interface {
	// Poll waits up to timeout for one input event. ok is false when the
	// timeout elapsed without input. A non-nil error means the source is
	// permanently unavailable or ctx is done.
	Poll(ctx context.Context, timeout time.Duration) (ev Event, ok bool, err error)
}

// ChanInput is an InputSource fed through Push.
type ChanInput struct {
	ch     chan Event
	closed chan struct{}
	once   sync.Once
}

// NewChanInput returns an input source buffering up to size pending events.
func NewChanInput(size int) *ChanInput {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &ChanInput{
		ch:     make(chan Event, size),
		closed: make(chan struct{}),
	}
}

// Push queues ev without blocking. It returns false when the source is
// closed or its buffer is full.
func (c *ChanInput) Push(ev Event) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.ch <- ev:
		return true
	default:
		return false
	}
}

// Close marks the source as permanently unavailable. Buffered events are
// still delivered before Poll reports ErrInputClosed.
func (c *ChanInput) Close() {
	c.once.Do(func() { close(c.closed) })
}

// Poll implements InputSource.
func (c *ChanInput) Poll(ctx context.Context, timeout time.Duration) (Event, bool, error) {
	select {
	case ev := <-c.ch:
		return ev, true, nil
	default:
	}

	if timeout <= 0 {
		select {
		case <-c.closed:
			return nil, false, ErrInputClosed
		case <-ctx.Done():
			return nil, false, ctx.Err()
		default:
			return nil, false, nil
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ev := <-c.ch:
		return ev, true, nil
	case <-c.closed:
		select {
		case ev := <-c.ch:
			return ev, true, nil
		default:
			return nil, false, ErrInputClosed
		}
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case <-timer.C:
		return nil, false, nil
	}
}

var _ InputSource = (*ChanInput)(nil)
