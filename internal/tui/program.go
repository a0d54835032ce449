package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/clocktui/internal/config"
	"github.com/ensigniasec/clocktui/internal/event"
	"github.com/ensigniasec/clocktui/internal/logging"
	"github.com/ensigniasec/clocktui/internal/timespec"
)

// Run tokenizes the configured format, starts the scheduler and runs the
// Bubble Tea program until the user quits or ctx is done.
func Run(ctx context.Context, cfg *config.Config, logger *logrus.Entry) error {
	if logger == nil {
		logger = logging.NewSession()
	}

	// Silence logs during the TUI to avoid corrupting the view, unless a log
	// file was requested.
	restore, err := logging.Redirect(cfg.LogFile)
	if err != nil {
		return err
	}
	defer restore()

	spec := timespec.Tokenize(cfg.Format, cfg.TransitionTiming.Duration,
		timespec.WithLogger(logger.WithField("component", "timespec")))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// An input failure ends the program through the closed queue instead of
	// exiting with the terminal still in the alternate screen.
	fatal := make(chan error, 1)
	input := event.NewChanInput(channelBufferSize)
	defer input.Close()
	sched := event.Start(ctx, input,
		cfg.LogicTickInterval.Duration, cfg.RenderTickInterval.Duration,
		event.WithLogger(logger.WithField("component", "scheduler")),
		event.WithFatal(func(err error) {
			select {
			case fatal <- err:
			default:
			}
			cancel()
		}),
	)
	defer sched.Stop()

	model := NewModel(spec, sched, input, cfg.Theme, cfg.Glyphs, logger.WithField("component", "tui"))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	logger.WithField("format", cfg.Format).Info("clock started")
	final, err := p.Run()
	if err != nil {
		return err
	}

	select {
	case err := <-fatal:
		return fmt.Errorf("input: %w", err)
	default:
	}
	if m, ok := final.(Model); ok && m.Err() != nil {
		return m.Err()
	}
	logger.Info("clock stopped")
	return nil
}
