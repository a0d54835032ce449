// Package event schedules the clock's two independently paced sources of
// work: logic ticks that re-sample the wall clock and render ticks that
// advance running animations. Both are delivered, together with terminal
// input, on a single ordered queue read by the main loop.
package event

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Sentinel errors.
var (
	// ErrClosed is returned by Next once the scheduler has been stopped.
	ErrClosed = errors.New("event queue closed")
	// ErrInputClosed is returned by an InputSource that can produce no more input.
	ErrInputClosed = errors.New("input source closed")
)

// Event is a value delivered to the main loop. The concrete types are
// LogicTick, RenderTick, Key, Mouse and Resize.
type Event interface {
	event()
}

// LogicTick asks the main loop to re-sample the clock.
type LogicTick struct{ Elapsed time.Duration }

// RenderTick asks the main loop to advance running transitions.
type RenderTick struct{ Elapsed time.Duration }

// Key carries a key press.
type Key struct{ Key tea.Key }

// Mouse carries a mouse click, scroll or motion.
type Mouse struct{ Mouse tea.MouseEvent }

// Resize carries the new terminal size.
type Resize struct{ Width, Height int }

func (LogicTick) event()  {}
func (RenderTick) event() {}
func (Key) event()        {}
func (Mouse) event()      {}
func (Resize) event()     {}

// FromTea converts a raw bubbletea input message into an Event. It returns
// false for messages that are not terminal input.
func FromTea(msg tea.Msg) (Event, bool) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return Key{Key: tea.Key(m)}, true
	case tea.MouseMsg:
		return Mouse{Mouse: tea.MouseEvent(m)}, true
	case tea.WindowSizeMsg:
		return Resize{Width: m.Width, Height: m.Height}, true
	}
	return nil, false
}
