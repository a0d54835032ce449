// Package config holds clocktui's settings: built-in defaults, an optional
// YAML or TOML file, environment overrides and validation.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ensigniasec/clocktui/internal/timespec"
	"github.com/ensigniasec/clocktui/internal/validate"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Defaults.
const (
	DefaultTransitionTiming   = 500 * time.Millisecond
	DefaultLogicTickInterval  = 200 * time.Millisecond
	DefaultRenderTickInterval = 10 * time.Millisecond
	DefaultLogLevel           = "info"
	DefaultColor              = "69"
	DefaultBorder             = "rounded"
)

// Config is the effective configuration, read once at startup.
type Config struct {
	Format             string   `yaml:"format" toml:"format"`
	TransitionTiming   Duration `yaml:"transition_timing" toml:"transition_timing" validate:"gte=0"`
	LogicTickInterval  Duration `yaml:"logic_tick_interval" toml:"logic_tick_interval" validate:"gt=0"`
	RenderTickInterval Duration `yaml:"render_tick_interval" toml:"render_tick_interval" validate:"gt=0"`
	LogLevel           string   `yaml:"log_level" toml:"log_level" validate:"oneof=debug info warn error"`
	LogFile            string   `yaml:"log_file,omitempty" toml:"log_file,omitempty"`
	Glyphs             bool     `yaml:"glyphs" toml:"glyphs"`
	Theme              Theme    `yaml:"theme" toml:"theme"`
}

// Theme controls block styling.
type Theme struct {
	// Color is a lipgloss color: an ANSI index such as "69" or a hex value.
	Color  string `yaml:"color" toml:"color" validate:"required"`
	Border string `yaml:"border" toml:"border" validate:"oneof=rounded normal thick double hidden"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Format:             timespec.DefaultFormat,
		TransitionTiming:   Duration{DefaultTransitionTiming},
		LogicTickInterval:  Duration{DefaultLogicTickInterval},
		RenderTickInterval: Duration{DefaultRenderTickInterval},
		LogLevel:           DefaultLogLevel,
		Glyphs:             true,
		Theme: Theme{
			Color:  DefaultColor,
			Border: DefaultBorder,
		},
	}
}

// Validate checks c against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
