package solver

import (
	"github.com/san-kum/mbsim/internal/device"
	"github.com/san-kum/mbsim/internal/qm"
	"github.com/san-kum/mbsim/internal/scenario"
)

const (
	testLength     = 30e-6
	testGridpoints = 256
	testEndTime    = 6e-14
)

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func gainMaterial() *device.Material {
	return &device.Material{
		ID:              "gain",
		RelPermittivity: 1,
		RelPermeability: 1,
		OverlapFactor:   1,
		QM:              qm.TwoLevel(2e14, 1e-29, 1e-10, 1e-10, 1e24),
	}
}

// vacuumDevice is a single passive region over [0, length].
func vacuumDevice(length float64) *device.Device {
	lib := device.NewLibrary()
	must(lib.Add(device.Vacuum()))
	dev := device.New("vacuum", lib)
	must(dev.AddRegion(device.Region{Name: "all", XStart: 0, XEnd: length, Material: "vacuum"}))
	return dev
}

// activeDevice is vacuum | two-level gain | vacuum.
func activeDevice(length float64) *device.Device {
	lib := device.NewLibrary()
	must(lib.Add(device.Vacuum()))
	must(lib.Add(gainMaterial()))
	dev := device.New("active", lib)
	must(dev.AddRegion(device.Region{Name: "left", XStart: 0, XEnd: length / 4, Material: "vacuum"}))
	must(dev.AddRegion(device.Region{Name: "gain", XStart: length / 4, XEnd: 3 * length / 4, Material: "gain"}))
	must(dev.AddRegion(device.Region{Name: "right", XStart: 3 * length / 4, XEnd: length, Material: "vacuum"}))
	return dev
}

func sechPulse() scenario.Waveform {
	return scenario.Sech{Amplitude: 4.2186e9, Frequency: 2e14, Beta: 1e14, PhaseSech: 3}
}

// fullScenario records every observable over the whole grid at every step.
func fullScenario(dev *device.Device, withSource bool) *scenario.Scenario {
	scn := scenario.New("test", testGridpoints, testEndTime)
	must(scn.Setup(dev))
	if withSource {
		scn.AddSource(scenario.Source{Name: "inject", Position: 0, Kind: scenario.Soft, Waveform: sechPulse()})
	}
	every := scn.TimestepSize / 2
	scn.AddRecord(scenario.Record{Name: "e", Observable: scenario.Electric, Position: -1, Interval: every})
	scn.AddRecord(scenario.Record{Name: "h", Observable: scenario.Magnetic, Position: -1, Interval: every})
	scn.AddRecord(scenario.Record{Name: "inv", Observable: scenario.Inversion, Position: -1, Interval: every})
	scn.AddRecord(scenario.Record{Name: "d11", Observable: scenario.Density, Row: 1, Col: 1, Position: -1, Interval: every})
	scn.AddRecord(scenario.Record{Name: "d01", Observable: scenario.Density, Row: 0, Col: 1, Position: -1, Interval: every})
	return scn
}
