package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ensigniasec/clocktui/internal/config"
	"github.com/ensigniasec/clocktui/internal/logging"
	"github.com/ensigniasec/clocktui/internal/timespec"
	"github.com/ensigniasec/clocktui/internal/tui"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	configFile string
	format     string
	timing     time.Duration
	logicTick  time.Duration
	renderTick time.Duration
	logFile    string
	verbose    bool
	noGlyphs   bool
	forceWrite bool

	rootCmd = &cobra.Command{
		Use:   "clocktui",
		Short: "An animated terminal clock driven by a strftime format.",
		Long: `clocktui shows the current time in the terminal, formatted by a strftime-like specification.
Every character that changes slides its new value over the old one, while literal text stays put.
When stdout is not a terminal the current rendering is printed once.`,
		Args: cobra.NoArgs,
		Run:  runClock,
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/clocktui/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", timespec.DefaultFormat, "strftime format of the display")
	rootCmd.PersistentFlags().DurationVar(&timing, "timing", config.DefaultTransitionTiming, "Duration of one character transition")
	rootCmd.PersistentFlags().DurationVar(&logicTick, "logic-tick", config.DefaultLogicTickInterval, "Interval between clock samples")
	rootCmd.PersistentFlags().DurationVar(&renderTick, "render-tick", config.DefaultRenderTickInterval, "Interval between animation frames")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file while the clock is shown")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().BoolVar(&noGlyphs, "no-glyphs", false, "Draw characters as plain text instead of the block font")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(configCmd)

	configInitCmd.Flags().BoolVar(&forceWrite, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

func main() {
	Execute()
}

// loadConfig resolves the effective configuration: defaults, then the config
// file, then the environment, then any flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("timing") {
		cfg.TransitionTiming = config.Duration{Duration: timing}
	}
	if flags.Changed("logic-tick") {
		cfg.LogicTickInterval = config.Duration{Duration: logicTick}
	}
	if flags.Changed("render-tick") {
		cfg.RenderTickInterval = config.Duration{Duration: renderTick}
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if noGlyphs {
		cfg.Glyphs = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logging.SetLevel(cfg.LogLevel, verbose); err != nil {
		return nil, err
	}
	warnIncomplete(cfg.Format)
	return cfg, nil
}

// warnIncomplete reports formats that still render, but not as intended: an
// empty format shows nothing and a dangling escape is shown literally.
func warnIncomplete(f string) {
	switch {
	case f == "":
		logrus.Warn("format is empty; the display will be blank")
	case !timespec.Complete(f):
		logrus.WithField("format", f).Warn("format ends in an incomplete directive; it is shown literally")
	}
}

func runClock(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		logrus.Fatal(err)
	}

	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		logrus.Debug("stdout is not a terminal; printing once")
		spec := timespec.Tokenize(cfg.Format, cfg.TransitionTiming.Duration)
		fmt.Fprintln(cmd.OutOrStdout(), spec.String())
		return
	}

	if err := tui.Run(cmd.Context(), cfg, logging.NewSession()); err != nil {
		logrus.Fatalf("TUI failed: %v", err)
	}
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var inspectCmd = &cobra.Command{
	Use:   "inspect [FORMAT]",
	Short: "Show how a format is split into tokens and blocks",
	Long:  "Tokenize FORMAT (or the configured format) and print every block with its size, whether it is constant and the value it shows right now.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			logrus.Fatal(err)
		}
		f := cfg.Format
		if len(args) == 1 {
			f = args[0]
			warnIncomplete(f)
		}
		spec := timespec.Tokenize(f, cfg.TransitionTiming.Duration)

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("TOKEN", "FRAGMENT", "BLOCK", "SIZE", "CONSTANT", "VALUE")
		for ti, tok := range spec.Tokens {
			for bi, b := range tok.Blocks {
				t.Row(
					strconv.Itoa(ti),
					strconv.Quote(tok.Fragment),
					strconv.Itoa(bi),
					strconv.Itoa(b.Size),
					strconv.FormatBool(b.Constant),
					strconv.Quote(b.Current),
				)
			}
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Format:    %q\n", spec.Format())
		fmt.Fprintf(out, "Rendering: %q\n", spec.String())
		fmt.Fprintf(out, "Blocks:    %d (width %d)\n", spec.NumBlocks(), spec.Width())
		fmt.Fprintln(out, t.Render())
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the clocktui config file",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configInitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Write the default configuration to disk",
	Long:  "Write the default configuration to PATH (default $XDG_CONFIG_HOME/clocktui/config.yaml). Paths ending in .toml are written as TOML.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := config.DefaultPath()
		if len(args) == 1 {
			path = args[0]
		}
		written, err := config.Save(config.DefaultConfig(), path, forceWrite)
		if errors.Is(err, config.ErrExists) {
			logrus.Fatalf("%v (use --force to overwrite)", err)
		}
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", written)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			logrus.Fatal(err)
		}
		data, err := config.Encode(cfg, false)
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	},
}
