// Package scenario holds everything about a simulation run that is not part
// of the device: discretisation, sources and requested records.
package scenario

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/mbsim/internal/device"
)

// DefaultCourant is the Courant number used when none is given.
const DefaultCourant = 0.5

var ErrInvalidScenario = errors.New("scenario: invalid parameters")

type Scenario struct {
	Name string

	NumGridpoints int
	EndTime       float64
	Courant       float64

	// Filled by Setup.
	GridpointSize float64
	TimestepSize  float64
	NumTimesteps  int

	// InitialDensity, when set, replaces the initial density matrix of every
	// quantum material with a matching level count.
	InitialDensity []complex128

	Sources []Source
	Records []Record
}

func New(name string, gridpoints int, endtime float64) *Scenario {
	return &Scenario{
		Name:          name,
		NumGridpoints: gridpoints,
		EndTime:       endtime,
		Courant:       DefaultCourant,
	}
}

func (s *Scenario) AddSource(src Source) { s.Sources = append(s.Sources, src) }

func (s *Scenario) AddRecord(r Record) { s.Records = append(s.Records, r) }

// Discretised reports whether grid spacing, timestep and timestep count are
// known.
func (s *Scenario) Discretised() bool {
	return s.GridpointSize > 0 && s.TimestepSize > 0 && s.NumTimesteps > 0
}

// Setup derives grid spacing and timestep from the device length, the
// gridpoint count and the fastest phase velocity on the grid.
func (s *Scenario) Setup(dev *device.Device) error {
	if s.NumGridpoints < 2 {
		return fmt.Errorf("%w: need at least 2 gridpoints, got %d", ErrInvalidScenario, s.NumGridpoints)
	}
	if s.EndTime <= 0 {
		return fmt.Errorf("%w: end time must be positive", ErrInvalidScenario)
	}
	if s.Courant == 0 {
		s.Courant = DefaultCourant
	}
	if s.Courant < 0 || s.Courant > 1 {
		return fmt.Errorf("%w: courant number %g outside (0, 1]", ErrInvalidScenario, s.Courant)
	}
	length := dev.Length()
	if length <= 0 {
		return fmt.Errorf("%w: device has zero length", ErrInvalidScenario)
	}

	velocity := 1 / math.Sqrt(device.MU0*device.EPS0*dev.MinPermittivity())
	s.GridpointSize = length / float64(s.NumGridpoints-1)
	dt := s.Courant * s.GridpointSize / velocity
	s.NumTimesteps = int(math.Ceil(s.EndTime/dt)) + 1
	s.TimestepSize = s.EndTime / float64(s.NumTimesteps-1)
	return nil
}
