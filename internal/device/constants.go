package device

import "math"

const (
	// EPS0 is the vacuum permittivity in F/m.
	EPS0 = 8.854187817e-12

	// MU0 is the vacuum permeability in H/m.
	MU0 = 4 * math.Pi * 1e-7

	// HBAR is the reduced Planck constant in J·s.
	HBAR = 1.05457266e-34

	// E0 is the elementary charge in C.
	E0 = 1.602176565e-19
)

// C0 is the speed of light in vacuum.
var C0 = 1 / math.Sqrt(EPS0*MU0)
