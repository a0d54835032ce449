package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/clocktui/internal/event"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch x := msg.(type) {
	case tea.KeyMsg, tea.MouseMsg, tea.WindowSizeMsg:
		// Raw input joins the scheduler queue so it is handled in order
		// with the ticks.
		ev, _ := event.FromTea(x)
		if !m.input.Push(ev) {
			m.dropped++
			m.logger.WithField("dropped", m.dropped).Debug("input queue full; event dropped")
		}
		return m, nil

	case eventMsg:
		var cmd tea.Cmd
		m, cmd = m.handleEvent(x.Event)
		return m, cmd

	case closedMsg:
		m.logger.WithError(x.Err).Debug("event queue closed")
		if !errors.Is(x.Err, event.ErrClosed) {
			m.err = x.Err
		}
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleEvent applies one scheduler event and re-arms the queue reader.
func (m Model) handleEvent(ev event.Event) (Model, tea.Cmd) {
	switch x := ev.(type) {
	case event.LogicTick:
		m.spec.Sample()
		m.events.NotifyActivity(m.spec.Pending())

	case event.RenderTick:
		active := m.spec.AdvanceFunc(x.Elapsed, m.rotate)
		m.events.NotifyActivity(active)

	case event.Key:
		var cmd tea.Cmd
		m, cmd = m.handleKey(tea.KeyMsg(x.Key))
		if cmd != nil {
			return m, cmd
		}

	case event.Resize:
		m.width, m.height = x.Width, x.Height
		m.help.Width = x.Width

	case event.Mouse:
		// Mouse input has no bindings.
	}

	return m, m.listenForEvents()
}

// rotate advances the wipe direction of the block that just committed.
func (m Model) rotate(token, block int) {
	i := m.offsets[token] + block
	m.direction[i] = (m.direction[i] + 1) % wipeDirections
}
