// Package qm turns the description of an L-level quantum system into the
// real coherence-vector form used by the solver.
//
// A density matrix ρ is written as
//
//	ρ = I/L + ½ Σ d_k Λ_k
//
// where Λ_k are the L²−1 generalised Gell-Mann matrices, ordered symmetric
// pairs first, antisymmetric pairs next and diagonal generators last. The
// first diagonal component d[L(L−1)] therefore equals ρ_11 − ρ_00, the
// inversion of the two lowest levels.
//
// The von Neumann equation with relaxation then becomes the affine system
//
//	ḋ = (H + G) d + d_eq − E · D d
//
// with H the Hamiltonian superoperator, G the relaxation superoperator, D the
// dipole superoperator and d_eq the equilibrium forcing.
package qm
