package solver

import (
	"errors"
	"fmt"
)

// Construction errors.
var (
	// ErrNoRegions indicates a device without regions.
	ErrNoRegions = errors.New("solver: no regions in device")

	// ErrLevelMismatch indicates a material whose level count differs from
	// the selected variant.
	ErrLevelMismatch = errors.New("solver: number of energy levels does not match selected solver")

	// ErrUnsupportedLevels indicates a level count without a compiled variant.
	ErrUnsupportedLevels = errors.New("solver: unsupported number of energy levels")

	// ErrInvalidRecord indicates a record outside the grid or naming an
	// element the quantum system does not have.
	ErrInvalidRecord = errors.New("solver: invalid record")

	// ErrInvalidSource indicates a source outside the grid or without waveform.
	ErrInvalidSource = errors.New("solver: invalid source")

	// ErrInvalidOption indicates an option value out of range.
	ErrInvalidOption = errors.New("solver: invalid option")
)

// ConfigError names the material, record or source that failed validation.
type ConfigError struct {
	Kind    string
	Name    string
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, e.Wrapped)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}
