package solver

import (
	"github.com/san-kum/mbsim/internal/compute"
	"github.com/san-kum/mbsim/internal/integrators"
)

// arena is the per-worker state over chunk+2·OL points.
type arena[V integrators.Vector] struct {
	e   []float64 // electric field
	eo  []float64 // electric field of the previous substep
	h   []float64 // magnetic field, staggered half a cell left of e
	p   []float64 // polarization current
	d   []V       // coherence vectors
	mat []int32   // material index
}

func newArena[V integrators.Vector](size, align int) *arena[V] {
	return &arena[V]{
		e:   compute.Aligned[float64](size, align),
		eo:  compute.Aligned[float64](size, align),
		h:   compute.Aligned[float64](size, align),
		p:   compute.Aligned[float64](size, align),
		d:   compute.Aligned[V](size, align),
		mat: compute.Aligned[int32](size, align),
	}
}
