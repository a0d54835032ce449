package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/ensigniasec/clocktui/internal/validate"
)

// Duration wraps time.Duration so it reads and writes as a Go duration
// string ("500ms", "1m30s") in both YAML and TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %q not allowed", s)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

//nolint:gochecknoinits // Validator type registration must precede the first validation.
func init() {
	validate.RegisterCustomTypeFunc(durationValue, Duration{})
}

// durationValue lets validation tags such as gt=0 compare the wrapped value.
func durationValue(v reflect.Value) any {
	if d, ok := v.Interface().(Duration); ok {
		return d.Duration
	}
	return nil
}
