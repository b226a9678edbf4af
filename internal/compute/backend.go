package compute

import (
	"errors"
	"fmt"
	"sort"
)

// ErrBackendUnavailable is returned when a known backend cannot run on this
// machine or build.
var ErrBackendUnavailable = errors.New("compute: backend unavailable")

// Backend describes where the solver's worker arenas live and how many
// workers run them.
type Backend interface {
	Name() string
	Available() bool
	Workers() int
	Alignment() int
	Cleanup()
}

var backends = map[string]func() Backend{
	"cpu":  func() Backend { return NewCPUBackend() },
	"cuda": func() Backend { return NewCUDABackend() },
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

// AutoSelectBackend returns the first available backend, preferring
// accelerators over the CPU.
func AutoSelectBackend() Backend {
	cuda := NewCUDABackend()
	if cuda.Available() {
		return cuda
	}
	return NewCPUBackend()
}

// Lookup returns the named backend if it is available.
func Lookup(name string) (Backend, error) {
	ctor, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("compute: unknown backend %q (have %v)", name, Names())
	}
	b := ctor()
	if !b.Available() {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, name)
	}
	return b, nil
}

func Names() []string {
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
