// Package solver advances the coupled Maxwell-Bloch system on a 1-D grid.
//
// The grid of N points is split into P contiguous chunks, one per worker
// goroutine. Every worker owns an aligned arena of chunk+2·OL points: its
// interior plus a halo of OL points on each side. Time is advanced in blocks
// of OL substeps. At the start of a block each worker publishes its edge
// slabs and pulls its neighbours' slabs into its halo; during the block it
// recomputes the halo redundantly with a border that shrinks by the vector
// width, so the interior stays exact without any further communication.
//
// Per substep and gridpoint the update order is fixed:
//
//	quantum state (RK4) → E → sources → H → boundary → records
//
// Records are written into one shared scratch buffer; each worker writes only
// the samples of its own interior, so the buffer needs no locking.
//
// The solver does not detect numerical divergence. NaN or Inf in the fields
// or quantum states propagate silently into the results.
package solver
