package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/clocktui/internal/config"
	"github.com/ensigniasec/clocktui/internal/event"
	"github.com/ensigniasec/clocktui/internal/timespec"
)

// eventSource is the part of the scheduler the main loop drives.
type eventSource interface {
	Next() (event.Event, error)
	NotifyActivity(active bool)
}

// inputSink receives raw terminal input on its way to the scheduler.
type inputSink interface {
	Push(ev event.Event) bool
}

// Model is the root Bubble Tea model. It owns the animated time spec; all
// mutation happens in Update, driven by events read from the scheduler.
type Model struct {
	spec   *timespec.Spec
	events eventSource
	input  inputSink
	logger *logrus.Entry

	// direction holds one wipe direction per block, in display order. It
	// advances every time the block commits a transition.
	direction []wipe
	// offsets maps a token index to the display index of its first block.
	offsets []int

	styles  styles
	glyphs  bool
	width   int
	height  int
	dropped int

	// ui state
	help        help.Model
	helpVisible bool
	quitting    bool
	err         error

	// keymap for consistent keybindings
	keys keyMap
}

// NewModel constructs a Model for spec. Input is pushed to input and comes
// back, in order with the ticks, through events.
func NewModel(spec *timespec.Spec, events eventSource, input inputSink, theme config.Theme, glyphs bool, logger *logrus.Entry) Model {
	if logger == nil {
		logger = logrus.WithField("component", "tui")
	}
	offsets := make([]int, len(spec.Tokens))
	n := 0
	for i := range spec.Tokens {
		offsets[i] = n
		n += len(spec.Tokens[i].Blocks)
	}
	return Model{
		spec:      spec,
		events:    events,
		input:     input,
		logger:    logger,
		direction: make([]wipe, n),
		offsets:   offsets,
		styles:    newStyles(theme),
		glyphs:    glyphs,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.listenForEvents()
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

// listenForEvents returns a Tea command that waits for the next scheduler event.
func (m Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		ev, err := m.events.Next()
		if err != nil {
			return closedMsg{Err: err}
		}
		return eventMsg{Event: ev}
	}
}
