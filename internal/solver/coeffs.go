package solver

import (
	"fmt"
	"math"

	"github.com/san-kum/mbsim/internal/device"
	"github.com/san-kum/mbsim/internal/qm"
	"github.com/san-kum/mbsim/internal/scenario"
)

// Coefficients are the update factors of one material. Matrices are flat
// row-major Dim×Dim with Dim = L²−1; all quantum fields are zero for passive
// materials.
type Coefficients struct {
	Material string

	CE    float64 // electric update factor dt/(ε0 εr)
	CH    float64 // magnetic update factor dt/(μ0 μr dx)
	Sigma float64 // effective conductivity
	CP    float64 // polarization scale ½·overlap·density

	HasQM       bool
	M           []float64 // hamiltonian plus relaxation superoperator
	U           []float64 // negated dipole superoperator
	V           []float64 // dipole vector
	Equilibrium []float64
	Initial     []float64

	DxInv float64
	Dt    float64
}

// detectLevels returns the level count of the first quantum material, or 2
// for a passive device.
func detectLevels(dev *device.Device) int {
	for _, m := range dev.UsedMaterials() {
		if m.HasQM() {
			return m.QM.Levels
		}
	}
	return 2
}

func buildCoefficients(dev *device.Device, scn *scenario.Scenario, levels int) ([]Coefficients, error) {
	if len(dev.Regions()) == 0 {
		return nil, ErrNoRegions
	}
	dim := levels*levels - 1
	dx, dt := scn.GridpointSize, scn.TimestepSize

	used := dev.UsedMaterials()
	table := make([]Coefficients, 0, len(used))
	for _, mat := range used {
		c := Coefficients{
			Material:    mat.ID,
			CE:          dt / (device.EPS0 * mat.RelPermittivity),
			CH:          dt / (device.MU0 * mat.RelPermeability * dx),
			Sigma:       2 * mat.Losses * math.Sqrt(device.EPS0*mat.RelPermittivity/(device.MU0*mat.RelPermeability)),
			M:           make([]float64, dim*dim),
			U:           make([]float64, dim*dim),
			V:           make([]float64, dim),
			Equilibrium: make([]float64, dim),
			Initial:     make([]float64, dim),
			DxInv:       1 / dx,
			Dt:          dt,
		}

		if mat.HasQM() {
			desc := mat.QM
			if desc.Levels != levels {
				return nil, &ConfigError{
					Kind:    "material",
					Name:    mat.ID,
					Wrapped: fmt.Errorf("%w: material has %d levels, solver has %d", ErrLevelMismatch, desc.Levels, levels),
				}
			}
			if scn.InitialDensity != nil {
				override := *desc
				override.Initial = scn.InitialDensity
				desc = &override
			}
			rep, err := qm.Represent(desc)
			if err != nil {
				return nil, &ConfigError{Kind: "material", Name: mat.ID, Wrapped: err}
			}

			c.HasQM = true
			c.CP = 0.5 * mat.OverlapFactor * rep.CarrierDensity
			for k := range c.M {
				c.M[k] = rep.Hamiltonian[k] + rep.Relaxation[k]
				c.U[k] = -rep.Dipole[k]
			}
			copy(c.V, rep.DipoleVec)
			copy(c.Equilibrium, rep.Equilibrium)
			copy(c.Initial, rep.Initial)
		}
		table = append(table, c)
	}
	return table, nil
}

// materialMap assigns every gridpoint the index of its material in table.
// Gridpoints outside every region get index 0.
func materialMap(dev *device.Device, table []Coefficients, gridpoints int, dx float64) []int32 {
	index := make(map[string]int32, len(table))
	for i, c := range table {
		index[c.Material] = int32(i)
	}
	out := make([]int32, gridpoints)
	for i := range out {
		out[i] = index[dev.MaterialAt(float64(i)*dx)]
	}
	return out
}
