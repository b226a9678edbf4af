package config

import "sort"

func ptr(v float64) *float64 { return &v }

var vacuum = MaterialConfig{ID: "vacuum", RelPermittivity: 1, RelPermeability: 1, OverlapFactor: 1}

// twoLevelAr is the two-level resonant medium of the self-induced
// transparency setup: 200 THz transition, 1e24 m⁻³ carriers.
var twoLevelAr = MaterialConfig{
	ID:              "ar",
	RelPermittivity: 1,
	RelPermeability: 1,
	OverlapFactor:   1,
	QM: &QMConfig{
		TwoLevel:       &TwoLevelConfig{Frequency: 2e14, Dipole: 1e-29, T1: 1e-10, T2: 1e-10},
		CarrierDensity: 1e24,
	},
}

var Presets = map[string]map[string]*Config{
	"two-level": {
		"ziolkowski1995": {
			Name:      "ziolkowski1995",
			Solver:    SolverConfig{Backend: DefaultBackend},
			Materials: []MaterialConfig{vacuum, twoLevelAr},
			Device: DeviceConfig{
				Name: "sit",
				Regions: []RegionConfig{
					{Name: "vacuum left", XStart: 0, XEnd: 7.5e-6, Material: "vacuum"},
					{Name: "active", XStart: 7.5e-6, XEnd: 142.5e-6, Material: "ar"},
					{Name: "vacuum right", XStart: 142.5e-6, XEnd: 150e-6, Material: "vacuum"},
				},
			},
			Scenario: ScenarioConfig{
				Gridpoints: 32768,
				Endtime:    200e-15,
				Courant:    DefaultCourant,
				Sources: []SourceConfig{
					{Name: "sech", Type: "sech", Kind: "soft", Position: 0, Amplitude: 4.2186e9, Frequency: 2e14, Beta: 2e14, PhaseSech: 10},
				},
				Records: []RecordConfig{
					{Name: "inv12", Observable: "inv", Interval: 2.5e-15},
					{Name: "e", Observable: "e", Interval: 2.5e-15},
					{Name: "e_probe", Observable: "e", Position: ptr(75e-6)},
				},
			},
		},
		"absorber": {
			Name:      "absorber",
			Solver:    SolverConfig{Backend: DefaultBackend},
			Materials: []MaterialConfig{vacuum, twoLevelAr},
			Device: DeviceConfig{
				Name: "absorber",
				Regions: []RegionConfig{
					{Name: "vacuum", XStart: 0, XEnd: 10e-6, Material: "vacuum"},
					{Name: "active", XStart: 10e-6, XEnd: 40e-6, Material: "ar"},
				},
			},
			Scenario: ScenarioConfig{
				Gridpoints: 4096,
				Endtime:    150e-15,
				Courant:    DefaultCourant,
				Sources: []SourceConfig{
					{Name: "gauss", Type: "gaussian", Kind: "soft", Position: 0, Amplitude: 1e9, Frequency: 2e14, Center: 30e-15, Width: 10e-15},
				},
				Records: []RecordConfig{
					{Name: "inv12", Observable: "inv", Interval: 1e-15},
					{Name: "d01", Observable: "d", Row: 0, Col: 1, Position: ptr(20e-6)},
				},
			},
		},
	},
	"three-level": {
		"ladder": {
			Name:   "ladder",
			Solver: SolverConfig{Backend: DefaultBackend, Levels: 3},
			Materials: []MaterialConfig{
				vacuum,
				{
					ID: "ladder", RelPermittivity: 1, RelPermeability: 1, OverlapFactor: 1,
					QM: &QMConfig{
						Levels:         3,
						Energies:       []float64{0, 1.3252e-19, 2.6504e-19},
						Dipole:         [][]float64{{0, 1e-29, 0}, {1e-29, 0, 1e-29}, {0, 1e-29, 0}},
						Scattering:     [][]float64{{0, 1e10, 0}, {0, 0, 1e10}, {0, 0, 0}},
						Dephasing:      [][]float64{{0, 1e12, 1e12}, {1e12, 0, 1e12}, {1e12, 1e12, 0}},
						CarrierDensity: 1e24,
					},
				},
			},
			Device: DeviceConfig{
				Name: "ladder",
				Regions: []RegionConfig{
					{Name: "vacuum", XStart: 0, XEnd: 5e-6, Material: "vacuum"},
					{Name: "active", XStart: 5e-6, XEnd: 50e-6, Material: "ladder"},
				},
			},
			Scenario: ScenarioConfig{
				Gridpoints: 4096,
				Endtime:    150e-15,
				Courant:    DefaultCourant,
				Sources: []SourceConfig{
					{Name: "sech", Type: "sech", Kind: "soft", Position: 0, Amplitude: 4e9, Frequency: 2e14, Beta: 2e14, PhaseSech: 8},
				},
				Records: []RecordConfig{
					{Name: "d00", Observable: "d", Row: 0, Col: 0, Interval: 1e-15},
					{Name: "d22", Observable: "d", Row: 2, Col: 2, Interval: 1e-15},
				},
			},
		},
	},
	"passive": {
		"vacuum": {
			Name:      "vacuum",
			Solver:    SolverConfig{Backend: DefaultBackend},
			Materials: []MaterialConfig{vacuum},
			Device: DeviceConfig{
				Name:    "vacuum",
				Regions: []RegionConfig{{Name: "all", XStart: 0, XEnd: 50e-6, Material: "vacuum"}},
			},
			Scenario: ScenarioConfig{
				Gridpoints: 2048,
				Endtime:    150e-15,
				Courant:    DefaultCourant,
				Sources: []SourceConfig{
					{Name: "sine", Type: "sine", Kind: "hard", Position: 25e-6, Amplitude: 1, Frequency: 1e14},
				},
				Records: []RecordConfig{
					{Name: "e", Observable: "e", Interval: 1e-15},
					{Name: "h", Observable: "h", Interval: 1e-15},
				},
			},
		},
		"lossy-slab": {
			Name:   "lossy-slab",
			Solver: SolverConfig{Backend: DefaultBackend},
			Materials: []MaterialConfig{
				vacuum,
				{ID: "glass", RelPermittivity: 2.25, RelPermeability: 1, Losses: 1e3, OverlapFactor: 1},
			},
			Device: DeviceConfig{
				Name: "slab",
				Regions: []RegionConfig{
					{Name: "left", XStart: 0, XEnd: 20e-6, Material: "vacuum"},
					{Name: "slab", XStart: 20e-6, XEnd: 30e-6, Material: "glass"},
					{Name: "right", XStart: 30e-6, XEnd: 50e-6, Material: "vacuum"},
				},
			},
			Scenario: ScenarioConfig{
				Gridpoints: 2048,
				Endtime:    300e-15,
				Courant:    DefaultCourant,
				Sources: []SourceConfig{
					{Name: "gauss", Type: "gaussian", Kind: "soft", Position: 5e-6, Amplitude: 1, Frequency: 2e14, Center: 40e-15, Width: 10e-15},
				},
				Records: []RecordConfig{
					{Name: "e", Observable: "e", Interval: 2e-15},
					{Name: "transmitted", Observable: "e", Position: ptr(45e-6)},
				},
			},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(family, preset string) *Config {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	cfg, ok := familyPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// FindPreset looks a preset up by name across all families.
func FindPreset(name string) *Config {
	for _, family := range Presets {
		if cfg, ok := family[name]; ok {
			return cfg.Clone()
		}
	}
	return nil
}

func ListPresets(family string) []string {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(familyPresets))
	for name := range familyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Families() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
