package scenario

import (
	"fmt"
	"math"
	"strings"
)

type Observable int

const (
	Electric Observable = iota
	Magnetic
	Inversion
	Density
)

var observableNames = map[Observable]string{
	Electric:  "e",
	Magnetic:  "h",
	Inversion: "inv",
	Density:   "d",
}

func (o Observable) String() string {
	if n, ok := observableNames[o]; ok {
		return n
	}
	return fmt.Sprintf("observable(%d)", int(o))
}

func ParseObservable(s string) (Observable, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for o, n := range observableNames {
		if n == s {
			return o, nil
		}
	}
	switch s {
	case "electric", "field":
		return Electric, nil
	case "magnetic":
		return Magnetic, nil
	case "inversion":
		return Inversion, nil
	case "density":
		return Density, nil
	}
	return 0, fmt.Errorf("scenario: unknown observable %q", s)
}

// Record requests samples of one observable. A negative Position records the
// whole grid. An Interval below the timestep records every timestep. Row and
// Col select the density matrix element for Density records.
type Record struct {
	Name       string
	Observable Observable
	Position   float64
	Interval   float64
	Row, Col   int
}

// Complex reports whether the record has an imaginary part.
func (r Record) Complex() bool {
	return r.Observable == Density && r.Row != r.Col
}

// Sampling returns the decimation stride and the number of sampled timesteps.
func (r Record) Sampling(dt float64, timesteps int) (stride, rows int) {
	stride = 1
	if r.Interval > dt {
		stride = int(math.Round(r.Interval / dt))
	}
	rows = (timesteps + stride - 1) / stride
	return stride, rows
}

// Span returns the first gridpoint and the number of gridpoints recorded.
func (r Record) Span(dx float64, gridpoints int) (pos, cols int) {
	if r.Position < 0 {
		return 0, gridpoints
	}
	return int(math.Round(r.Position / dx)), 1
}
