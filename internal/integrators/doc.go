// Package integrators provides the fixed-size, allocation-free RK4 used to
// advance the coherence vector of every gridpoint.
package integrators
