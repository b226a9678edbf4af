// Package metrics evaluates scalar figures of merit on solver state and
// recorded field histories.
package metrics

import (
	"errors"
	"math"

	"github.com/san-kum/mbsim/internal/device"
	"github.com/san-kum/mbsim/internal/solver"
)

var ErrShapeMismatch = errors.New("metrics: field records differ in shape")

// Metric accumulates over a sequence of whole-grid field snapshots.
type Metric interface {
	Name() string
	Observe(e, h []float64, t float64)
	Value() float64
	Reset()
}

// Medium holds the absolute permittivity and permeability per gridpoint.
type Medium struct {
	Eps []float64
	Mu  []float64
	Dx  float64
}

// MediumOf reads the material layout of a constructed solver.
func MediumOf(s *solver.Solver) (Medium, error) {
	n := s.Scenario().NumGridpoints
	coeffs := s.Coefficients()
	lib := s.Device().Library()

	eps := make([]float64, len(coeffs))
	mu := make([]float64, len(coeffs))
	for k, c := range coeffs {
		m, err := lib.Get(c.Material)
		if err != nil {
			return Medium{}, err
		}
		eps[k] = device.EPS0 * m.RelPermittivity
		mu[k] = device.MU0 * m.RelPermeability
	}

	med := Medium{Eps: make([]float64, n), Mu: make([]float64, n), Dx: s.Scenario().GridpointSize}
	for i := 0; i < n; i++ {
		k := s.MaterialIndex(i)
		med.Eps[i], med.Mu[i] = eps[k], mu[k]
	}
	return med, nil
}

// Energy is ½ Σ (ε e² + μ h²) dx over the grid, per unit cross-section.
func (m Medium) Energy(e, h []float64) float64 {
	var sum float64
	for i := range e {
		sum += m.Eps[i]*e[i]*e[i] + m.Mu[i]*h[i]*h[i]
	}
	return 0.5 * sum * m.Dx
}

// FieldEnergy is the electromagnetic energy currently on the solver grid.
func FieldEnergy(s *solver.Solver) (float64, error) {
	med, err := MediumOf(s)
	if err != nil {
		return 0, err
	}
	n := len(med.Eps)
	e := make([]float64, n)
	h := make([]float64, n)
	for i := 0; i < n; i++ {
		e[i], h[i], _ = s.Field(i)
	}
	return med.Energy(e, h), nil
}

// Energy reports the mean field energy over the observed snapshots.
type Energy struct {
	medium  Medium
	samples int
	total   float64
}

func NewEnergy(m Medium) *Energy { return &Energy{medium: m} }

func (e *Energy) Name() string { return "energy" }

func (e *Energy) Observe(ef, hf []float64, t float64) {
	e.total += e.medium.Energy(ef, hf)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift reports the largest relative deviation from the energy at
// the reference time. Snapshots before From are ignored; use it to skip
// the injection of a source.
type EnergyDrift struct {
	medium    Medium
	From      float64
	reference float64
	maxDrift  float64
	samples   int
}

func NewEnergyDrift(m Medium, from float64) *EnergyDrift {
	return &EnergyDrift{medium: m, From: from}
}

func (d *EnergyDrift) Name() string { return "energy_drift" }

func (d *EnergyDrift) Observe(ef, hf []float64, t float64) {
	if t < d.From {
		return
	}
	energy := d.medium.Energy(ef, hf)
	if d.samples == 0 {
		d.reference = energy
	}
	d.samples++

	if d.reference != 0 {
		drift := math.Abs(energy-d.reference) / math.Abs(d.reference)
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *EnergyDrift) Value() float64 { return d.maxDrift }

func (d *EnergyDrift) Reset() {
	d.reference = 0
	d.maxDrift = 0
	d.samples = 0
}

// Evaluate feeds matching whole-grid e and h records to the metrics row by
// row. interval is the time between rows.
func Evaluate(e, h *solver.Result, interval float64, ms ...Metric) error {
	if e.Rows != h.Rows || e.Cols != h.Cols {
		return ErrShapeMismatch
	}
	for row := 0; row < e.Rows; row++ {
		t := float64(row) * interval
		for _, m := range ms {
			m.Observe(e.Row(row), h.Row(row), t)
		}
	}
	return nil
}
