package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/mbsim/internal/device"
	"github.com/san-kum/mbsim/internal/qm"
	"github.com/san-kum/mbsim/internal/scenario"
)

func TestCoefficientFormulas(t *testing.T) {
	lib := device.NewLibrary()
	lossy := &device.Material{ID: "lossy", RelPermittivity: 4, RelPermeability: 1, Losses: 100, OverlapFactor: 1}
	must(lib.Add(lossy))
	must(lib.Add(gainMaterial()))
	dev := device.New("d", lib)
	must(dev.AddRegion(device.Region{Name: "a", XStart: 0, XEnd: 1e-6, Material: "lossy"}))
	must(dev.AddRegion(device.Region{Name: "b", XStart: 1e-6, XEnd: 2e-6, Material: "gain"}))

	scn := &scenario.Scenario{NumGridpoints: 101, NumTimesteps: 10, GridpointSize: 2e-8, TimestepSize: 3e-17}
	table, err := buildCoefficients(dev, scn, 2)
	if err != nil {
		t.Fatalf("buildCoefficients: %v", err)
	}
	if len(table) != 2 || table[0].Material != "lossy" || table[1].Material != "gain" {
		t.Fatalf("unexpected table order: %+v", table)
	}

	c := table[0]
	check := func(name string, got, want float64) {
		t.Helper()
		if math.Abs(got-want) > 1e-12*math.Abs(want) {
			t.Errorf("%s = %g, want %g", name, got, want)
		}
	}
	check("CE", c.CE, 3e-17/(device.EPS0*4))
	check("CH", c.CH, 3e-17/(device.MU0*2e-8))
	check("Sigma", c.Sigma, 2*100*math.Sqrt(device.EPS0*4/device.MU0))
	check("DxInv", c.DxInv, 5e7)
	if c.HasQM || c.CP != 0 {
		t.Error("passive material carries quantum coefficients")
	}
	for k := range c.M {
		if c.M[k] != 0 || c.U[k] != 0 {
			t.Fatal("passive material has non-zero matrices")
		}
	}

	g := table[1]
	if !g.HasQM {
		t.Fatal("gain material lost its quantum system")
	}
	check("CP", g.CP, 0.5e24)
	rep, err := qm.Represent(gainMaterial().QM)
	if err != nil {
		t.Fatal(err)
	}
	for k := range g.M {
		if g.M[k] != rep.Hamiltonian[k]+rep.Relaxation[k] {
			t.Errorf("M[%d] = %g", k, g.M[k])
		}
		if g.U[k] != -rep.Dipole[k] {
			t.Errorf("U[%d] = %g", k, g.U[k])
		}
	}

	index := materialMap(dev, table, 101, 2e-8)
	if index[0] != 0 || index[50] != 0 || index[51] != 1 || index[100] != 1 {
		t.Errorf("material map: %v", index)
	}
}

func TestCoefficientErrors(t *testing.T) {
	scn := &scenario.Scenario{NumGridpoints: 10, NumTimesteps: 10, GridpointSize: 1e-8, TimestepSize: 1e-17}

	empty := device.New("empty", device.NewLibrary())
	if _, err := buildCoefficients(empty, scn, 2); !errors.Is(err, ErrNoRegions) {
		t.Errorf("empty device: got %v", err)
	}

	dev := activeDevice(1e-6)
	_, err := buildCoefficients(dev, scn, 3)
	if !errors.Is(err, ErrLevelMismatch) {
		t.Errorf("level mismatch: got %v", err)
	}
	var cfg *ConfigError
	if !errors.As(err, &cfg) || cfg.Name != "gain" {
		t.Errorf("level mismatch should name the material: %v", err)
	}
}

func TestInitialDensityOverride(t *testing.T) {
	dev := activeDevice(1e-6)
	scn := &scenario.Scenario{
		NumGridpoints:  10,
		NumTimesteps:   10,
		GridpointSize:  1e-7,
		TimestepSize:   1e-16,
		InitialDensity: []complex128{0, 0, 0, 1},
	}
	table, err := buildCoefficients(dev, scn, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := table[1].Initial[qm.InversionIndex(2)]; math.Abs(got-1) > 1e-12 {
		t.Errorf("initial inversion = %g, want 1", got)
	}
}
