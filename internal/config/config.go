package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGridpoints = 4096
	DefaultEndtime    = 200e-15
	DefaultCourant    = 0.5
	DefaultBackend    = "cpu"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is a complete simulation description as stored in YAML.
type Config struct {
	Name      string           `yaml:"name"`
	Solver    SolverConfig     `yaml:"solver"`
	Materials []MaterialConfig `yaml:"materials"`
	Device    DeviceConfig     `yaml:"device"`
	Scenario  ScenarioConfig   `yaml:"scenario"`
}

type SolverConfig struct {
	Workers int    `yaml:"workers,omitempty"`
	Levels  int    `yaml:"levels,omitempty"`
	Backend string `yaml:"backend,omitempty"`
}

type MaterialConfig struct {
	ID              string    `yaml:"id"`
	RelPermittivity float64   `yaml:"rel_permittivity"`
	RelPermeability float64   `yaml:"rel_permeability"`
	Losses          float64   `yaml:"losses,omitempty"`
	OverlapFactor   float64   `yaml:"overlap_factor"`
	QM              *QMConfig `yaml:"qm,omitempty"`
}

// QMConfig describes a quantum system either through the two-level shortcut
// or level by level. Energies are in J, dipole elements in C·m, rates in 1/s.
type QMConfig struct {
	TwoLevel       *TwoLevelConfig `yaml:"two_level,omitempty"`
	Levels         int             `yaml:"levels,omitempty"`
	Energies       []float64       `yaml:"energies,omitempty"`
	Dipole         [][]float64     `yaml:"dipole,omitempty"`
	Scattering     [][]float64     `yaml:"scattering,omitempty"`
	Dephasing      [][]float64     `yaml:"dephasing,omitempty"`
	Populations    []float64       `yaml:"populations,omitempty"`
	CarrierDensity float64         `yaml:"carrier_density"`
}

type TwoLevelConfig struct {
	Frequency float64 `yaml:"frequency"`
	Dipole    float64 `yaml:"dipole"`
	T1        float64 `yaml:"t1"`
	T2        float64 `yaml:"t2"`
}

type DeviceConfig struct {
	Name    string         `yaml:"name"`
	Regions []RegionConfig `yaml:"regions"`
}

type RegionConfig struct {
	Name     string  `yaml:"name"`
	XStart   float64 `yaml:"x_start"`
	XEnd     float64 `yaml:"x_end"`
	Material string  `yaml:"material"`
}

type ScenarioConfig struct {
	Gridpoints  int            `yaml:"gridpoints"`
	Endtime     float64        `yaml:"endtime"`
	Courant     float64        `yaml:"courant,omitempty"`
	Populations []float64      `yaml:"populations,omitempty"`
	Sources     []SourceConfig `yaml:"sources,omitempty"`
	Records     []RecordConfig `yaml:"records,omitempty"`
}

type SourceConfig struct {
	Name      string  `yaml:"name"`
	Type      string  `yaml:"type"`
	Kind      string  `yaml:"kind,omitempty"`
	Position  float64 `yaml:"position"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Phase     float64 `yaml:"phase,omitempty"`
	Beta      float64 `yaml:"beta,omitempty"`
	PhaseSech float64 `yaml:"phase_sech,omitempty"`
	Center    float64 `yaml:"center,omitempty"`
	Width     float64 `yaml:"width,omitempty"`
}

// RecordConfig leaves Position unset to record the whole grid.
type RecordConfig struct {
	Name       string   `yaml:"name"`
	Observable string   `yaml:"observable"`
	Row        int      `yaml:"row,omitempty"`
	Col        int      `yaml:"col,omitempty"`
	Position   *float64 `yaml:"position,omitempty"`
	Interval   float64  `yaml:"interval,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:   "vacuum",
		Solver: SolverConfig{Backend: DefaultBackend},
		Materials: []MaterialConfig{
			{ID: "vacuum", RelPermittivity: 1, RelPermeability: 1, OverlapFactor: 1},
		},
		Device: DeviceConfig{
			Name:    "vacuum",
			Regions: []RegionConfig{{Name: "all", XStart: 0, XEnd: 150e-6, Material: "vacuum"}},
		},
		Scenario: ScenarioConfig{
			Gridpoints: DefaultGridpoints,
			Endtime:    DefaultEndtime,
			Courant:    DefaultCourant,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := &Config{Solver: SolverConfig{Backend: DefaultBackend}}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Scenario.Courant == 0 {
		cfg.Scenario.Courant = DefaultCourant
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	data, err := yaml.Marshal(c)
	if err != nil {
		panic(err)
	}
	out := &Config{}
	if err := yaml.Unmarshal(data, out); err != nil {
		panic(err)
	}
	return out
}
