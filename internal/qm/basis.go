package qm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// cmatrix is an n×n complex matrix embedded in a real 2n×2n block matrix
// [[Re, −Im], [Im, Re]], so products and sums carry over to mat.Dense.
type cmatrix struct {
	n int
	m *mat.Dense
}

func newCMatrix(n int) *cmatrix {
	return &cmatrix{n: n, m: mat.NewDense(2*n, 2*n, nil)}
}

func fromFlat(op []complex128, n int) *cmatrix {
	c := newCMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c.set(i, j, op[i*n+j])
		}
	}
	return c
}

func (c *cmatrix) set(i, j int, v complex128) {
	re, im := real(v), imag(v)
	c.m.Set(i, j, re)
	c.m.Set(i, c.n+j, -im)
	c.m.Set(c.n+i, j, im)
	c.m.Set(c.n+i, c.n+j, re)
}

func (c *cmatrix) at(i, j int) complex128 {
	return complex(c.m.At(i, j), c.m.At(c.n+i, j))
}

func (c *cmatrix) mul(b *cmatrix) *cmatrix {
	r := newCMatrix(c.n)
	r.m.Mul(c.m, b.m)
	return r
}

// commutator returns [c, b].
func (c *cmatrix) commutator(b *cmatrix) *cmatrix {
	r := newCMatrix(c.n)
	var ba mat.Dense
	r.m.Mul(c.m, b.m)
	ba.Mul(b.m, c.m)
	r.m.Sub(r.m, &ba)
	return r
}

// scale multiplies every entry by the complex factor s.
func (c *cmatrix) scale(s complex128) *cmatrix {
	r := newCMatrix(c.n)
	for i := 0; i < c.n; i++ {
		for j := 0; j < c.n; j++ {
			r.set(i, j, s*c.at(i, j))
		}
	}
	return r
}

// reTrace is the real part of the trace.
func (c *cmatrix) reTrace() float64 {
	t := 0.0
	for i := 0; i < c.n; i++ {
		t += c.m.At(i, i)
	}
	return t
}

// basis returns the L²−1 generalised Gell-Mann matrices in coherence-vector
// order.
func basis(levels int) []*cmatrix {
	dim := levels*levels - 1
	b := make([]*cmatrix, 0, dim)
	for j := 0; j < levels; j++ {
		for k := j + 1; k < levels; k++ {
			s := newCMatrix(levels)
			s.set(j, k, 1)
			s.set(k, j, 1)
			b = append(b, s)
		}
	}
	for j := 0; j < levels; j++ {
		for k := j + 1; k < levels; k++ {
			a := newCMatrix(levels)
			a.set(j, k, -1i)
			a.set(k, j, 1i)
			b = append(b, a)
		}
	}
	for l := 1; l < levels; l++ {
		d := newCMatrix(levels)
		f := math.Sqrt(2 / float64(l*(l+1)))
		for j := 0; j < l; j++ {
			d.set(j, j, complex(-f, 0))
		}
		d.set(l, l, complex(f*float64(l), 0))
		b = append(b, d)
	}
	return b
}

// InversionIndex is the coherence-vector index of ρ_11 − ρ_00.
func InversionIndex(levels int) int { return levels * (levels - 1) }

// CoherenceIndex returns the positions of the symmetric and antisymmetric
// components describing ρ_ij, i ≠ j.
func CoherenceIndex(levels, i, j int) (sym, asym int) {
	if i > j {
		i, j = j, i
	}
	for a := 0; a < i; a++ {
		sym += levels - a - 1
	}
	sym += j - i - 1
	return sym, sym + levels*(levels-1)/2
}

// PopulationWeights returns w with ρ_ii = 1/L + Σ_l w[i][l]·d[L(L−1)+l].
func PopulationWeights(levels int) [][]float64 {
	w := make([][]float64, levels)
	for i := range w {
		w[i] = make([]float64, levels-1)
	}
	for l := 1; l < levels; l++ {
		f := math.Sqrt(2 / float64(l*(l+1)))
		for i := 0; i < l; i++ {
			w[i][l-1] = -f / 2
		}
		w[l][l-1] = f * float64(l) / 2
	}
	return w
}
