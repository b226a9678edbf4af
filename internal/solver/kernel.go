package solver

import (
	"github.com/san-kum/mbsim/internal/integrators"
	"github.com/san-kum/mbsim/internal/scenario"
)

// coeffs is Coefficients in the fixed-size form of one variant.
type coeffs[V integrators.Vector, M integrators.Matrix] struct {
	ce, ch, sigma, cp float64
	dxInv, dt         float64
	hasQM             bool
	m, u              M
	v, deq, dinit     V
}

func newCoeffs[V integrators.Vector, M integrators.Matrix](c *Coefficients) coeffs[V, M] {
	out := coeffs[V, M]{
		ce:    c.CE,
		ch:    c.CH,
		sigma: c.Sigma,
		cp:    c.CP,
		dxInv: c.DxInv,
		dt:    c.Dt,
		hasQM: c.HasQM,
	}
	for k := 0; k < len(out.m); k++ {
		out.m[k] = c.M[k]
		out.u[k] = c.U[k]
	}
	for k := 0; k < len(out.v); k++ {
		out.v[k] = c.V[k]
		out.deq[k] = c.Equilibrium[k]
		out.dinit[k] = c.Initial[k]
	}
	return out
}

// localSource is a source translated to arena coordinates.
type localSource struct {
	at   int
	base int
	hard bool
}

type worker[V integrators.Vector, M integrators.Matrix] struct {
	id    int
	start int
	chunk int
	size  int
	first bool
	last  bool

	arena   *arena[V]
	out     outbox[V]
	rk      *integrators.RK4[V, M]
	coeffs  []coeffs[V, M]
	sources []localSource
}

// init resets the arena to the initial state. Halo points outside the grid
// get material 0 and a zero state.
func (w *worker[V, M]) init(matIndex []int32) {
	a := w.arena
	var zero V
	for i := 0; i < w.size; i++ {
		a.e[i], a.eo[i], a.h[i], a.p[i] = 0, 0, 0, 0
		g := w.start + i - OL
		if g >= 0 && g < len(matIndex) {
			a.mat[i] = matIndex[g]
			a.d[i] = w.coeffs[a.mat[i]].dinit
		} else {
			a.mat[i] = 0
			a.d[i] = zero
		}
	}
}

// substep advances the arena by one timestep, computing [border, size-border-1).
func (w *worker[V, M]) substep(t, border int, values []float64) {
	a := w.arena
	hi := w.size - border - 1

	for i := border; i < hi; i++ {
		c := &w.coeffs[a.mat[i]]
		if c.hasQM {
			w.rk.Step(&c.m, &c.u, &c.deq, &a.d[i], a.eo[i], a.e[i], c.dt)
			a.p[i] = c.cp * integrators.Rate(&c.v, &c.m, &c.deq, &a.d[i])
		} else {
			a.p[i] = 0
		}

		a.eo[i] = a.e[i]
		a.e[i] += c.ce * (-c.sigma*a.e[i] - a.p[i] + (a.h[i+1]-a.h[i])*c.dxInv)
	}

	for _, s := range w.sources {
		if s.hard {
			a.e[s.at] = values[s.base+t]
		} else {
			a.e[s.at] += values[s.base+t]
		}
	}

	for i := border + 1; i < hi; i++ {
		a.h[i] += w.coeffs[a.mat[i]].ch * (a.e[i] - a.e[i-1])
	}

	if w.first {
		a.h[OL] = 0
	}
	if w.last {
		a.h[OL+w.chunk] = 0
	}
}

// record writes the samples of timestep t that fall into the interior.
func (w *worker[V, M]) record(t int, copies []copyEntry, scratch []float64) {
	for k := range copies {
		c := &copies[k]
		if t%c.stride != 0 {
			continue
		}
		lo, hi := c.span(w.start, w.chunk)
		if lo >= hi {
			continue
		}
		row := (t / c.stride) * c.cols
		for g := lo; g < hi; g++ {
			re, im := w.observe(c, g-w.start+OL)
			scratch[c.offset+row+g-c.pos] = re
			if c.complex {
				scratch[c.imagOffset+row+g-c.pos] = im
			}
		}
	}
}

func (w *worker[V, M]) observe(c *copyEntry, i int) (re, im float64) {
	a := w.arena
	switch c.obs {
	case scenario.Electric:
		return a.e[i], 0
	case scenario.Magnetic:
		return a.h[i], 0
	case scenario.Inversion:
		return a.d[i][c.inv], 0
	}
	d := &a.d[i]
	if c.row == c.col {
		p := c.base
		for l, wt := range c.weights {
			p += wt * (*d)[c.inv+l]
		}
		return p, 0
	}
	return 0.5 * (*d)[c.sym], c.sign * 0.5 * (*d)[c.asym]
}
