// Package compute selects the execution backend of the solver and allocates
// the aligned arenas its workers run on.
//
// The CPU backend is always available and runs one worker per GOMAXPROCS:
//
//	backend := compute.GetBackend()
//	field := compute.Aligned[float64](n, backend.Alignment())
//
// A backend can also be requested by name; names that are known but not
// built into the binary fail with ErrBackendUnavailable:
//
//	backend, err := compute.Lookup("cuda")
package compute
