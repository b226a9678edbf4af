package solver

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/mbsim/internal/compute"
	"github.com/san-kum/mbsim/internal/device"
	"github.com/san-kum/mbsim/internal/scenario"
)

// sourceDesc is a source on the global grid. Its values for every timestep
// start at base in the source table.
type sourceDesc struct {
	name  string
	index int
	base  int
	hard  bool
}

// Solver is a constructed, runnable simulation. It is not safe for
// concurrent use; Run itself fans out to the worker goroutines.
type Solver struct {
	name    string
	levels  int
	device  *device.Device
	scn     *scenario.Scenario
	log     logrus.FieldLogger
	backend compute.Backend

	layout   *layout
	eng      engine
	results  []*Result
	progress atomic.Int64
}

// New validates the device and scenario, builds the coefficient table and
// allocates the worker arenas. The scenario is discretised against the
// device if it has not been already; the caller's value is not modified.
func New(dev *device.Device, scn *scenario.Scenario, opts ...Option) (*Solver, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	if len(dev.Regions()) == 0 {
		return nil, ErrNoRegions
	}

	sc := *scn
	if !sc.Discretised() {
		if err := sc.Setup(dev); err != nil {
			return nil, err
		}
	}

	levels := o.levels
	if levels == 0 {
		levels = detectLevels(dev)
	}
	build, ok := variants[levels]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedLevels, levels)
	}

	table, err := buildCoefficients(dev, &sc, levels)
	if err != nil {
		return nil, err
	}

	sources, values, err := buildSources(&sc)
	if err != nil {
		return nil, err
	}

	copies, scratchSize, err := buildCopyList(sc.Records, &sc, levels)
	if err != nil {
		return nil, err
	}

	requested := o.workers
	if requested == 0 {
		requested = o.backend.Workers()
	}
	workers := clampWorkers(sc.NumGridpoints, requested)

	l := &layout{
		gridpoints:   sc.NumGridpoints,
		timesteps:    sc.NumTimesteps,
		chunks:       partition(sc.NumGridpoints, workers),
		align:        o.backend.Alignment(),
		coeffs:       table,
		matIndex:     materialMap(dev, table, sc.NumGridpoints, sc.GridpointSize),
		sources:      sources,
		sourceValues: values,
		copies:       copies,
		scratch:      compute.Aligned[float64](scratchSize, o.backend.Alignment()),
	}

	s := &Solver{
		name:    VariantName(levels),
		levels:  levels,
		device:  dev,
		scn:     &sc,
		log:     o.logger,
		backend: o.backend,
		layout:  l,
		eng:     build(l),
		results: newResults(copies),
	}
	s.eng.reset()

	for _, c := range table {
		s.log.WithFields(logrus.Fields{
			"material": c.Material,
			"ce":       c.CE,
			"ch":       c.CH,
			"sigma":    c.Sigma,
			"qm":       c.HasQM,
			"M":        c.M,
			"U":        c.U,
			"d_eq":     c.Equilibrium,
			"d_init":   c.Initial,
		}).Debug("material coefficients")
	}
	s.log.WithFields(logrus.Fields{
		"solver":     s.name,
		"backend":    o.backend.Name(),
		"workers":    workers,
		"chunk":      l.chunks[0].size,
		"gridpoints": l.gridpoints,
		"timesteps":  l.timesteps,
		"dx":         sc.GridpointSize,
		"dt":         sc.TimestepSize,
		"scratch":    scratchSize,
	}).Info("solver ready")

	return s, nil
}

func buildSources(sc *scenario.Scenario) ([]sourceDesc, []float64, error) {
	nt := sc.NumTimesteps
	descs := make([]sourceDesc, 0, len(sc.Sources))
	values := make([]float64, nt*len(sc.Sources))

	for k, src := range sc.Sources {
		if src.Waveform == nil {
			return nil, nil, &ConfigError{Kind: "source", Name: src.Name, Wrapped: fmt.Errorf("%w: no waveform", ErrInvalidSource)}
		}
		idx := src.Index(sc.GridpointSize)
		if src.Position < 0 || idx >= sc.NumGridpoints {
			return nil, nil, &ConfigError{Kind: "source", Name: src.Name, Wrapped: fmt.Errorf("%w: position %g outside the grid", ErrInvalidSource, src.Position)}
		}
		base := k * nt
		for j := 0; j < nt; j++ {
			values[base+j] = src.Waveform.Value(float64(j) * sc.TimestepSize)
		}
		descs = append(descs, sourceDesc{
			name:  src.Name,
			index: idx,
			base:  base,
			hard:  src.Kind == scenario.Hard,
		})
	}
	return descs, values, nil
}

// Run advances the simulation over every timestep and assembles the
// results. It blocks until all workers finish. Calling Run again restarts
// from the initial state.
func (s *Solver) Run() {
	s.progress.Store(0)
	start := time.Now()

	s.eng.run(&s.progress)
	assemble(s.results, s.layout.copies, s.layout.scratch)

	s.log.WithFields(logrus.Fields{
		"solver":    s.name,
		"timesteps": s.layout.timesteps,
		"elapsed":   time.Since(start).Round(time.Millisecond),
	}).Info("run complete")
}

func (s *Solver) Name() string { return s.name }

func (s *Solver) Levels() int { return s.levels }

// Scenario is the discretised scenario the solver runs.
func (s *Solver) Scenario() *scenario.Scenario { return s.scn }

func (s *Solver) Device() *device.Device { return s.device }

// Workers is the number of worker goroutines after clamping.
func (s *Solver) Workers() int { return len(s.layout.chunks) }

func (s *Solver) Timesteps() int { return s.layout.timesteps }

// Progress is the number of completed timesteps of the current run. It is
// safe to call while Run is in progress.
func (s *Solver) Progress() int64 { return s.progress.Load() }

// Results are valid after Run returns.
func (s *Solver) Results() []*Result { return s.results }

func (s *Solver) Result(name string) (*Result, bool) {
	for _, r := range s.results {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Coefficients returns the coefficient record of every used material, in
// material-index order.
func (s *Solver) Coefficients() []Coefficients { return s.layout.coeffs }

// checkGridpoint panics unless 0 <= i < N. Halo copies sit outside that
// range and are never returned.
func (s *Solver) checkGridpoint(i int) {
	if i < 0 || i >= s.layout.gridpoints {
		panic(fmt.Sprintf("solver: gridpoint %d out of range [0, %d)", i, s.layout.gridpoints))
	}
}

// MaterialIndex is the coefficient index assigned to gridpoint i.
func (s *Solver) MaterialIndex(i int) int {
	s.checkGridpoint(i)
	return int(s.layout.matIndex[i])
}

// QuantumState returns a copy of the coherence vector at gridpoint i. It
// must not be called while Run is in progress.
func (s *Solver) QuantumState(i int) []float64 {
	s.checkGridpoint(i)
	return s.eng.state(i)
}

// Field returns the electric field, magnetic field and polarization current
// at gridpoint i. It must not be called while Run is in progress.
func (s *Solver) Field(i int) (e, h, p float64) {
	s.checkGridpoint(i)
	return s.eng.field(i)
}
