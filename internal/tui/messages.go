package tui

import "github.com/ensigniasec/clocktui/internal/event"

// Message types for Bubble Tea update loop.

// eventMsg carries one event read from the scheduler queue.
type eventMsg struct{ Event event.Event }

// closedMsg reports that the scheduler queue was closed.
type closedMsg struct{ Err error }
