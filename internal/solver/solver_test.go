package solver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/san-kum/mbsim/internal/compute"
	"github.com/san-kum/mbsim/internal/device"
	"github.com/san-kum/mbsim/internal/integrators"
	"github.com/san-kum/mbsim/internal/qm"
	"github.com/san-kum/mbsim/internal/scenario"
)

func TestNewErrors(t *testing.T) {
	seven := &device.Material{
		ID: "seven", RelPermittivity: 1, RelPermeability: 1, OverlapFactor: 1,
		QM: &qm.Description{
			Levels:      7,
			Hamiltonian: make([]complex128, 49),
			Dipole:      make([]complex128, 49),
			Initial:     append([]complex128{1}, make([]complex128, 48)...),
		},
	}
	lib := device.NewLibrary()
	must(lib.Add(seven))
	sevenLevels := device.New("seven", lib)
	must(sevenLevels.AddRegion(device.Region{Name: "r", XStart: 0, XEnd: 1e-6, Material: "seven"}))

	tests := []struct {
		name string
		dev  *device.Device
		opts []Option
		want error
	}{
		{"no regions", device.New("empty", device.NewLibrary()), nil, ErrNoRegions},
		{"unsupported levels", sevenLevels, nil, ErrUnsupportedLevels},
		{"level option mismatch", activeDevice(testLength), []Option{WithLevels(3)}, ErrLevelMismatch},
		{"bad worker count", activeDevice(testLength), []Option{WithWorkers(0)}, ErrInvalidOption},
		{"unavailable backend", activeDevice(testLength), []Option{WithBackend(compute.NewCUDABackend())}, compute.ErrBackendUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.dev, scenario.New("s", testGridpoints, testEndTime), tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if s != nil {
				t.Fatal("solver returned alongside an error")
			}
		})
	}
}

func TestNewDiscretisesCopy(t *testing.T) {
	dev := activeDevice(testLength)
	scn := scenario.New("s", testGridpoints, testEndTime)
	s, err := New(dev, scn, WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	if scn.Discretised() {
		t.Error("caller's scenario was modified")
	}
	if !s.Scenario().Discretised() {
		t.Error("solver scenario not discretised")
	}
	if s.Name() != "cpu-2lvl-rk4" {
		t.Errorf("name = %q", s.Name())
	}
	if s.Workers() != 2 {
		t.Errorf("workers = %d", s.Workers())
	}
}

func TestWorkerClamp(t *testing.T) {
	s, err := New(vacuumDevice(1e-6), scenario.New("s", 70, 1e-15), WithWorkers(16))
	if err != nil {
		t.Fatal(err)
	}
	if s.Workers() != 2 {
		t.Errorf("workers = %d, want 2", s.Workers())
	}
}

func TestAccessorsRejectOutOfRange(t *testing.T) {
	dev := activeDevice(testLength)
	s, err := New(dev, fullScenario(dev, false), WithWorkers(4))
	if err != nil {
		t.Fatal(err)
	}

	accessors := map[string]func(int){
		"MaterialIndex": func(i int) { s.MaterialIndex(i) },
		"QuantumState":  func(i int) { s.QuantumState(i) },
		"Field":         func(i int) { s.Field(i) },
	}
	for name, get := range accessors {
		for _, i := range []int{-1, testGridpoints, testGridpoints + OL} {
			t.Run(fmt.Sprintf("%s/%d", name, i), func(t *testing.T) {
				defer func() {
					msg, ok := recover().(string)
					if !ok {
						t.Fatalf("expected a range panic")
					}
					want := fmt.Sprintf("solver: gridpoint %d out of range [0, %d)", i, testGridpoints)
					if msg != want {
						t.Errorf("panic = %q, want %q", msg, want)
					}
				}()
				get(i)
			})
		}
		get(0)
		get(testGridpoints - 1)
	}
}

func TestWorkersOwnIntegrators(t *testing.T) {
	dev := activeDevice(testLength)
	s, err := New(dev, fullScenario(dev, false), WithWorkers(4))
	if err != nil {
		t.Fatal(err)
	}
	eng := s.eng.(*fixedEngine[[3]float64, [9]float64])
	seen := make(map[*integrators.RK4[[3]float64, [9]float64]]bool)
	for _, w := range eng.workers {
		if w.rk == nil {
			t.Fatalf("worker %d has no integrator", w.id)
		}
		if seen[w.rk] {
			t.Errorf("worker %d shares an integrator", w.id)
		}
		seen[w.rk] = true
	}
}

func TestRunProgressAndResults(t *testing.T) {
	dev := activeDevice(testLength)
	s, err := New(dev, fullScenario(dev, true), WithWorkers(3))
	if err != nil {
		t.Fatal(err)
	}
	s.Run()

	if got := s.Progress(); got != int64(s.Timesteps()) {
		t.Errorf("progress = %d, want %d", got, s.Timesteps())
	}
	for _, name := range []string{"e", "h", "inv", "d11", "d01"} {
		r, ok := s.Result(name)
		if !ok {
			t.Fatalf("missing result %q", name)
		}
		if r.Rows != s.Timesteps() || r.Cols != testGridpoints {
			t.Errorf("%s: %dx%d", name, r.Rows, r.Cols)
		}
		if r.Complex != (name == "d01") {
			t.Errorf("%s: complex = %v", name, r.Complex)
		}
	}

	// populations stay physical in the gain region
	d11, _ := s.Result("d11")
	inv, _ := s.Result("inv")
	last := d11.Rows - 1
	for col := testGridpoints / 4; col < 3*testGridpoints/4; col++ {
		p := d11.At(last, col)
		if p < -1e-6 || p > 1+1e-6 {
			t.Fatalf("population %g at %d", p, col)
		}
		// ρ11 = (1 + inversion)/2 for two levels
		if diff := p - (1+inv.At(last, col))/2; diff > 1e-12 || diff < -1e-12 {
			t.Fatalf("population and inversion disagree at %d: %g", col, diff)
		}
	}
}

func TestVariants(t *testing.T) {
	names := Variants()
	if len(names) != 5 || names[0] != "cpu-2lvl-rk4" || names[4] != "cpu-6lvl-rk4" {
		t.Errorf("variants = %v", names)
	}
	if !SupportedLevels(4) || SupportedLevels(7) {
		t.Error("SupportedLevels")
	}
}

func TestThreeLevelRun(t *testing.T) {
	n := 3
	desc := &qm.Description{
		Levels:         n,
		Hamiltonian:    make([]complex128, n*n),
		Dipole:         make([]complex128, n*n),
		Initial:        make([]complex128, n*n),
		Scattering:     [][]float64{{0, 1e11, 0}, {0, 0, 1e11}, {0, 0, 0}},
		CarrierDensity: 1e23,
	}
	for i := 0; i < n; i++ {
		desc.Hamiltonian[i*n+i] = complex(float64(i)*1.3e-20, 0)
	}
	desc.Dipole[0*n+1], desc.Dipole[1*n+0] = 1e-29, 1e-29
	desc.Initial[2*n+2] = 1

	lib := device.NewLibrary()
	must(lib.Add(&device.Material{ID: "three", RelPermittivity: 1, RelPermeability: 1, OverlapFactor: 1, QM: desc}))
	dev := device.New("three", lib)
	must(dev.AddRegion(device.Region{Name: "r", XStart: 0, XEnd: testLength, Material: "three"}))

	scn := scenario.New("s", 128, 2e-14)
	scn.AddRecord(scenario.Record{Name: "d22", Observable: scenario.Density, Row: 2, Col: 2, Position: testLength / 2})
	s, err := New(dev, scn, WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	if s.Levels() != 3 || len(s.QuantumState(0)) != 8 {
		t.Fatalf("levels = %d, state dim = %d", s.Levels(), len(s.QuantumState(0)))
	}
	s.Run()

	r, _ := s.Result("d22")
	if r.At(0, 0) > 1 || r.At(r.Rows-1, 0) >= r.At(0, 0) {
		t.Errorf("upper level does not decay: %g -> %g", r.At(0, 0), r.At(r.Rows-1, 0))
	}
}

func BenchmarkRun(b *testing.B) {
	dev := activeDevice(testLength)
	scn := fullScenario(dev, true)
	for _, workers := range []int{1, 2, 4} {
		s, err := New(dev, scn, WithWorkers(workers))
		if err != nil {
			b.Fatal(err)
		}
		b.Run(fmt.Sprintf("%s/workers=%d", s.Name(), workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				s.Run()
			}
		})
	}
}
