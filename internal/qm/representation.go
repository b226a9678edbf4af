package qm

// Representation is the coherence-vector form of a quantum system.
// Matrices are flat row-major Dim×Dim.
type Representation struct {
	Levels         int
	Dim            int
	Hamiltonian    []float64
	Relaxation     []float64
	Dipole         []float64
	DipoleVec      []float64
	Equilibrium    []float64
	Initial        []float64
	CarrierDensity float64
}

// Represent projects the description onto the Gell-Mann basis.
func Represent(desc *Description) (*Representation, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	n := desc.Levels
	dim := desc.Dim()
	lambda := basis(n)

	h := fromFlat(desc.Hamiltonian, n)
	mu := fromFlat(desc.Dipole, n)
	rho0 := fromFlat(desc.Initial, n)
	ident := newCMatrix(n)
	for i := 0; i < n; i++ {
		ident.set(i, i, complex(1/float64(n), 0))
	}

	r := &Representation{
		Levels:         n,
		Dim:            dim,
		Hamiltonian:    make([]float64, dim*dim),
		Relaxation:     make([]float64, dim*dim),
		Dipole:         make([]float64, dim*dim),
		DipoleVec:      make([]float64, dim),
		Equilibrium:    make([]float64, dim),
		Initial:        make([]float64, dim),
		CarrierDensity: desc.CarrierDensity,
	}

	coeff := complex(0, -1/HBAR)
	for j, lj := range lambda {
		hc := h.commutator(lj).scale(coeff)
		dc := mu.commutator(lj).scale(coeff)
		rl := relax(desc, lj)
		for k, lk := range lambda {
			r.Hamiltonian[k*dim+j] = 0.5 * hc.mul(lk).reTrace()
			r.Dipole[k*dim+j] = 0.5 * dc.mul(lk).reTrace()
			r.Relaxation[k*dim+j] = 0.5 * rl.mul(lk).reTrace()
		}
	}

	req := relax(desc, ident)
	for k, lk := range lambda {
		r.DipoleVec[k] = mu.mul(lk).reTrace()
		r.Equilibrium[k] = req.mul(lk).reTrace()
		r.Initial[k] = rho0.mul(lk).reTrace()
	}
	return r, nil
}

// relax applies the relaxation superoperator to x.
func relax(desc *Description, x *cmatrix) *cmatrix {
	n := desc.Levels
	out := newCMatrix(n)

	outRate := make([]float64, n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			if k != i {
				outRate[i] += rate(desc.Scattering, k, i)
			}
		}
	}

	for i := 0; i < n; i++ {
		var v complex128
		for j := 0; j < n; j++ {
			if j != i {
				v += complex(rate(desc.Scattering, i, j), 0) * x.at(j, j)
			}
		}
		v -= complex(outRate[i], 0) * x.at(i, i)
		out.set(i, i, v)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			g := 0.5*(outRate[i]+outRate[j]) + rate(desc.Dephasing, i, j)
			out.set(i, j, complex(-g, 0)*x.at(i, j))
		}
	}
	return out
}

// Density reconstructs ρ from the coherence vector d as a flat row-major
// L×L matrix.
func Density(levels int, d []float64) []complex128 {
	rho := newCMatrix(levels)
	for i := 0; i < levels; i++ {
		rho.set(i, i, complex(1/float64(levels), 0))
	}
	for k, lk := range basis(levels) {
		rho.m.Add(rho.m, lk.scale(complex(0.5*d[k], 0)).m)
	}
	out := make([]complex128, levels*levels)
	for i := 0; i < levels; i++ {
		for j := 0; j < levels; j++ {
			out[i*levels+j] = rho.at(i, j)
		}
	}
	return out
}
