package integrators

// Vector is a coherence vector of an L-level system, L = 2..6.
type Vector interface {
	[3]float64 | [8]float64 | [15]float64 | [24]float64 | [35]float64
}

// Matrix is a flat row-major superoperator matching Vector.
type Matrix interface {
	[9]float64 | [64]float64 | [225]float64 | [576]float64 | [1225]float64
}

// RK4 advances the driven affine system
//
//	ẋ = (A + e(t)·B) x + c
//
// by one step. The drive e is interpolated linearly over the step, so the
// midpoint stages use the average of the field at both ends. All scratch
// lives in the struct; Step does not allocate.
type RK4[V Vector, M Matrix] struct {
	k1, k2, k3, k4 V
	scratch        V
}

func NewRK4[V Vector, M Matrix]() *RK4[V, M] {
	return &RK4[V, M]{}
}

// Step integrates x from the field e0 to e1 over dt.
func (r *RK4[V, M]) Step(a, b *M, c, x *V, e0, e1, dt float64) {
	n := len(*x)
	em := 0.5 * (e0 + e1)

	stage(&r.k1, a, b, c, x, e0, dt)

	for i := 0; i < n; i++ {
		r.scratch[i] = (*x)[i] + 0.5*r.k1[i]
	}
	stage(&r.k2, a, b, c, &r.scratch, em, dt)

	for i := 0; i < n; i++ {
		r.scratch[i] = (*x)[i] + 0.5*r.k2[i]
	}
	stage(&r.k3, a, b, c, &r.scratch, em, dt)

	for i := 0; i < n; i++ {
		r.scratch[i] = (*x)[i] + r.k3[i]
	}
	stage(&r.k4, a, b, c, &r.scratch, e1, dt)

	for i := 0; i < n; i++ {
		(*x)[i] += (r.k1[i] + 2*r.k2[i] + 2*r.k3[i] + r.k4[i]) / 6
	}
}

// stage computes k = dt·((A + e·B) x + c).
func stage[V Vector, M Matrix](k *V, a, b *M, c, x *V, e, dt float64) {
	n := len(*x)
	for i := 0; i < n; i++ {
		sum := (*c)[i]
		row := i * n
		for j := 0; j < n; j++ {
			sum += ((*a)[row+j] + e*(*b)[row+j]) * (*x)[j]
		}
		(*k)[i] = dt * sum
	}
}

// Rate returns vᵀ(A x + c), the projection of the undriven rate onto v.
func Rate[V Vector, M Matrix](v *V, a *M, c, x *V) float64 {
	n := len(*x)
	p := 0.0
	for i := 0; i < n; i++ {
		sum := (*c)[i]
		row := i * n
		for j := 0; j < n; j++ {
			sum += (*a)[row+j] * (*x)[j]
		}
		p += (*v)[i] * sum
	}
	return p
}
