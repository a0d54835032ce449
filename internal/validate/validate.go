package validate

// This package adds struct and field validation as a thin wrapper around the go-playground/validator package.
//
// e.g. internal/config/config.go
//   type Config struct {
//       LogicTickInterval Duration `yaml:"logic_tick_interval" validate:"gt=0"`
//       LogLevel          string   `yaml:"log_level" validate:"oneof=debug info warn error"`
//       ...
//   }

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// validatorInstance is a shared validator for the application.
// It is initialized once and reused to avoid repeated allocations.
//
//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
	})
	return validatorInst
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}

// RegisterCustomTypeFunc makes the shared validator validate values of the
// given types as whatever fn returns. It must be called before the first
// validation, typically from a package init.
func RegisterCustomTypeFunc(fn validator.CustomTypeFunc, types ...any) {
	get().RegisterCustomTypeFunc(fn, types...)
}
