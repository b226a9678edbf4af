package solver

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/mbsim/internal/compute"
)

type options struct {
	workers int
	levels  int
	backend compute.Backend
	logger  logrus.FieldLogger
}

// Option configures a Solver.
type Option func(*options) error

// WithWorkers fixes the number of worker goroutines. The count is still
// clamped so that every chunk holds at least OL points.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidOption, n)
		}
		o.workers = n
		return nil
	}
}

// WithLevels selects the level-count variant instead of detecting it from
// the first quantum material.
func WithLevels(n int) Option {
	return func(o *options) error {
		if _, ok := variants[n]; !ok {
			return fmt.Errorf("%w: %d", ErrUnsupportedLevels, n)
		}
		o.levels = n
		return nil
	}
}

func WithBackend(b compute.Backend) Option {
	return func(o *options) error {
		if b == nil || !b.Available() {
			return compute.ErrBackendUnavailable
		}
		o.backend = b
		return nil
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) error {
		if l == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidOption)
		}
		o.logger = l
		return nil
	}
}

func defaultOptions() options {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return options{
		backend: compute.GetBackend(),
		logger:  discard,
	}
}
