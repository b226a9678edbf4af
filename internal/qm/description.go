package qm

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// HBAR is the reduced Planck constant in J·s.
const HBAR = 1.05457266e-34

const tolerance = 1e-9

var (
	ErrInvalidLevels     = errors.New("qm: at least two levels required")
	ErrDimensionMismatch = errors.New("qm: operator dimension does not match level count")
	ErrNotHermitian      = errors.New("qm: operator is not hermitian")
	ErrInvalidDensity    = errors.New("qm: initial density matrix must have unit trace")
	ErrNegativeRate      = errors.New("qm: relaxation rates must be non-negative")
)

// Description is the quantum system of an active material. Operators are
// dense row-major L×L matrices. Scattering[i][j] is the population transfer
// rate from level j to level i in 1/s; Dephasing[i][j] is the pure dephasing
// rate of the coherence ρ_ij.
type Description struct {
	Levels         int
	Hamiltonian    []complex128
	Dipole         []complex128
	Scattering     [][]float64
	Dephasing      [][]float64
	Initial        []complex128
	CarrierDensity float64
}

// TwoLevel builds the textbook two-level system with transition frequency
// freq in Hz, dipole moment in C·m, energy relaxation time t1 and total
// dephasing time t2 in seconds. The system starts in the ground state.
func TwoLevel(freq, dipole, t1, t2, density float64) *Description {
	e := HBAR * 2 * math.Pi * freq / 2
	d := &Description{
		Levels:         2,
		Hamiltonian:    []complex128{complex(-e, 0), 0, 0, complex(e, 0)},
		Dipole:         []complex128{0, complex(dipole, 0), complex(dipole, 0), 0},
		Scattering:     [][]float64{{0, 0}, {0, 0}},
		Dephasing:      [][]float64{{0, 0}, {0, 0}},
		Initial:        []complex128{1, 0, 0, 0},
		CarrierDensity: density,
	}
	if t1 > 0 {
		d.Scattering[0][1] = 1 / t1
	}
	if t2 > 0 {
		g := 1 / t2
		if t1 > 0 {
			g -= 1 / (2 * t1)
		}
		if g < 0 {
			g = 0
		}
		d.Dephasing[0][1] = g
		d.Dephasing[1][0] = g
	}
	return d
}

// Dim is the adjoint dimension L²−1.
func (d *Description) Dim() int { return d.Levels*d.Levels - 1 }

func (d *Description) Validate() error {
	n := d.Levels
	if n < 2 {
		return ErrInvalidLevels
	}
	for name, op := range map[string][]complex128{
		"hamiltonian": d.Hamiltonian,
		"dipole":      d.Dipole,
		"initial":     d.Initial,
	} {
		if len(op) != n*n {
			return fmt.Errorf("%w: %s has %d entries, want %d", ErrDimensionMismatch, name, len(op), n*n)
		}
		if !hermitian(op, n) {
			return fmt.Errorf("%w: %s", ErrNotHermitian, name)
		}
	}
	for name, rates := range map[string][][]float64{
		"scattering": d.Scattering,
		"dephasing":  d.Dephasing,
	} {
		if rates == nil {
			continue
		}
		if len(rates) != n {
			return fmt.Errorf("%w: %s has %d rows, want %d", ErrDimensionMismatch, name, len(rates), n)
		}
		for _, row := range rates {
			if len(row) != n {
				return fmt.Errorf("%w: %s row has %d entries, want %d", ErrDimensionMismatch, name, len(row), n)
			}
			for _, r := range row {
				if r < 0 {
					return fmt.Errorf("%w: %s", ErrNegativeRate, name)
				}
			}
		}
	}

	var tr complex128
	for i := 0; i < n; i++ {
		tr += d.Initial[i*n+i]
	}
	if cmplx.Abs(tr-1) > tolerance {
		return fmt.Errorf("%w: trace is %v", ErrInvalidDensity, tr)
	}
	return nil
}

func hermitian(op []complex128, n int) bool {
	scale := 0.0
	for _, v := range op {
		scale = math.Max(scale, cmplx.Abs(v))
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if cmplx.Abs(op[i*n+j]-cmplx.Conj(op[j*n+i])) > tolerance*math.Max(scale, 1e-300) {
				return false
			}
		}
	}
	return true
}

func rate(r [][]float64, i, j int) float64 {
	if r == nil {
		return 0
	}
	return r[i][j]
}
