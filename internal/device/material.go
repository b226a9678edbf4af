package device

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/mbsim/internal/qm"
)

var (
	// ErrUnknownMaterial indicates a material id missing from the library.
	ErrUnknownMaterial = errors.New("device: unknown material")

	// ErrDuplicateMaterial indicates a second registration of the same id.
	ErrDuplicateMaterial = errors.New("device: duplicate material")

	// ErrInvalidMaterial indicates non-physical material parameters.
	ErrInvalidMaterial = errors.New("device: invalid material parameters")
)

// Material holds the electromagnetic parameters of a medium and, for active
// media, the description of its quantum system.
type Material struct {
	ID              string
	RelPermittivity float64
	RelPermeability float64
	Losses          float64
	OverlapFactor   float64
	QM              *qm.Description
}

// Vacuum returns a lossless passive medium with unit relative parameters.
func Vacuum() *Material {
	return &Material{
		ID:              "vacuum",
		RelPermittivity: 1,
		RelPermeability: 1,
		OverlapFactor:   1,
	}
}

// HasQM reports whether the material carries a quantum system.
func (m *Material) HasQM() bool { return m.QM != nil }

// Validate checks that the material can be discretised.
func (m *Material) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidMaterial)
	}
	if m.RelPermittivity <= 0 || m.RelPermeability <= 0 {
		return fmt.Errorf("%w: %s: relative permittivity and permeability must be positive", ErrInvalidMaterial, m.ID)
	}
	if m.Losses < 0 {
		return fmt.Errorf("%w: %s: negative losses", ErrInvalidMaterial, m.ID)
	}
	if m.QM != nil {
		if err := m.QM.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidMaterial, m.ID, err)
		}
	}
	return nil
}

// Library maps material ids to materials.
type Library struct {
	materials map[string]*Material
}

func NewLibrary() *Library {
	return &Library{materials: make(map[string]*Material)}
}

func (l *Library) Add(m *Material) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, ok := l.materials[m.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateMaterial, m.ID)
	}
	l.materials[m.ID] = m
	return nil
}

func (l *Library) Get(id string) (*Material, error) {
	m, ok := l.materials[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMaterial, id)
	}
	return m, nil
}

func (l *Library) IDs() []string {
	ids := make([]string, 0, len(l.materials))
	for id := range l.materials {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
