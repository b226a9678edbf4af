package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/mbsim/internal/compute"
	"github.com/san-kum/mbsim/internal/device"
	"github.com/san-kum/mbsim/internal/qm"
	"github.com/san-kum/mbsim/internal/scenario"
	"github.com/san-kum/mbsim/internal/solver"
)

// Build resolves the configuration into a device and an undiscretised
// scenario.
func (c *Config) Build() (*device.Device, *scenario.Scenario, error) {
	lib := device.NewLibrary()
	for _, m := range c.Materials {
		mat, err := m.build()
		if err != nil {
			return nil, nil, err
		}
		if err := lib.Add(mat); err != nil {
			return nil, nil, err
		}
	}

	name := c.Device.Name
	if name == "" {
		name = c.Name
	}
	dev := device.New(name, lib)
	for _, r := range c.Device.Regions {
		region := device.Region{Name: r.Name, XStart: r.XStart, XEnd: r.XEnd, Material: r.Material}
		if err := dev.AddRegion(region); err != nil {
			return nil, nil, err
		}
	}

	sc := c.Scenario
	scn := scenario.New(c.Name, sc.Gridpoints, sc.Endtime)
	scn.Courant = sc.Courant
	if len(sc.Populations) > 0 {
		scn.InitialDensity = diagonal(sc.Populations)
	}
	for _, s := range sc.Sources {
		src, err := s.build()
		if err != nil {
			return nil, nil, err
		}
		scn.AddSource(src)
	}
	for _, r := range sc.Records {
		rec, err := r.build()
		if err != nil {
			return nil, nil, err
		}
		scn.AddRecord(rec)
	}
	return dev, scn, nil
}

// Options translates the solver section into solver options.
func (c *Config) Options(log logrus.FieldLogger) ([]solver.Option, error) {
	backendName := c.Solver.Backend
	if backendName == "" {
		backendName = DefaultBackend
	}
	backend, err := compute.Lookup(backendName)
	if err != nil {
		return nil, err
	}
	opts := []solver.Option{solver.WithBackend(backend)}
	if log != nil {
		opts = append(opts, solver.WithLogger(log))
	}
	if c.Solver.Workers > 0 {
		opts = append(opts, solver.WithWorkers(c.Solver.Workers))
	}
	if c.Solver.Levels > 0 {
		opts = append(opts, solver.WithLevels(c.Solver.Levels))
	}
	return opts, nil
}

func (m MaterialConfig) build() (*device.Material, error) {
	mat := &device.Material{
		ID:              m.ID,
		RelPermittivity: m.RelPermittivity,
		RelPermeability: m.RelPermeability,
		Losses:          m.Losses,
		OverlapFactor:   m.OverlapFactor,
	}
	if mat.RelPermeability == 0 {
		mat.RelPermeability = 1
	}
	if mat.OverlapFactor == 0 {
		mat.OverlapFactor = 1
	}
	if m.QM == nil {
		return mat, nil
	}
	desc, err := m.QM.build()
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", m.ID, err)
	}
	mat.QM = desc
	return mat, nil
}

func (q *QMConfig) build() (*qm.Description, error) {
	var desc *qm.Description
	if q.TwoLevel != nil {
		t := q.TwoLevel
		desc = qm.TwoLevel(t.Frequency, t.Dipole, t.T1, t.T2, q.CarrierDensity)
	} else {
		n := q.Levels
		if n < 2 {
			return nil, fmt.Errorf("%w: qm needs two_level or levels >= 2", ErrInvalidConfig)
		}
		if len(q.Energies) != n {
			return nil, fmt.Errorf("%w: %d energies for %d levels", ErrInvalidConfig, len(q.Energies), n)
		}
		dipole, err := square(q.Dipole, n, "dipole")
		if err != nil {
			return nil, err
		}
		desc = &qm.Description{
			Levels:         n,
			Hamiltonian:    diagonal(q.Energies),
			Dipole:         dipole,
			Scattering:     q.Scattering,
			Dephasing:      q.Dephasing,
			CarrierDensity: q.CarrierDensity,
		}
		ground := make([]float64, n)
		ground[0] = 1
		desc.Initial = diagonal(ground)
	}
	if len(q.Populations) > 0 {
		if len(q.Populations) != desc.Levels {
			return nil, fmt.Errorf("%w: %d populations for %d levels", ErrInvalidConfig, len(q.Populations), desc.Levels)
		}
		desc.Initial = diagonal(q.Populations)
	}
	return desc, nil
}

func (s SourceConfig) build() (scenario.Source, error) {
	src := scenario.Source{Name: s.Name, Position: s.Position}
	switch strings.ToLower(s.Kind) {
	case "", "soft":
		src.Kind = scenario.Soft
	case "hard":
		src.Kind = scenario.Hard
	default:
		return src, fmt.Errorf("%w: source %q: unknown kind %q", ErrInvalidConfig, s.Name, s.Kind)
	}
	switch strings.ToLower(s.Type) {
	case "sech":
		src.Waveform = scenario.Sech{Amplitude: s.Amplitude, Frequency: s.Frequency, Phase: s.Phase, Beta: s.Beta, PhaseSech: s.PhaseSech}
	case "sine", "sin":
		src.Waveform = scenario.Sine{Amplitude: s.Amplitude, Frequency: s.Frequency, Phase: s.Phase}
	case "gaussian", "gauss":
		if s.Width <= 0 {
			return src, fmt.Errorf("%w: source %q: gaussian width must be positive", ErrInvalidConfig, s.Name)
		}
		src.Waveform = scenario.Gaussian{Amplitude: s.Amplitude, Frequency: s.Frequency, Phase: s.Phase, Center: s.Center, Width: s.Width}
	default:
		return src, fmt.Errorf("%w: source %q: unknown type %q", ErrInvalidConfig, s.Name, s.Type)
	}
	return src, nil
}

func (r RecordConfig) build() (scenario.Record, error) {
	obs, err := scenario.ParseObservable(r.Observable)
	if err != nil {
		return scenario.Record{}, fmt.Errorf("%w: record %q: %v", ErrInvalidConfig, r.Name, err)
	}
	rec := scenario.Record{
		Name:       r.Name,
		Observable: obs,
		Row:        r.Row,
		Col:        r.Col,
		Position:   -1,
		Interval:   r.Interval,
	}
	if r.Position != nil {
		rec.Position = *r.Position
	}
	return rec, nil
}

func diagonal(values []float64) []complex128 {
	n := len(values)
	out := make([]complex128, n*n)
	for i, v := range values {
		out[i*n+i] = complex(v, 0)
	}
	return out
}

func square(rows [][]float64, n int, name string) ([]complex128, error) {
	out := make([]complex128, n*n)
	if rows == nil {
		return out, nil
	}
	if len(rows) != n {
		return nil, fmt.Errorf("%w: %s has %d rows for %d levels", ErrInvalidConfig, name, len(rows), n)
	}
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: %s row %d has %d entries", ErrInvalidConfig, name, i, len(row))
		}
		for j, v := range row {
			out[i*n+j] = complex(v, 0)
		}
	}
	return out, nil
}
