package solver

import "github.com/san-kum/mbsim/internal/integrators"

// slab is a copy of OL consecutive points.
type slab[V integrators.Vector] struct {
	e, eo, h [OL]float64
	d        [OL]V
}

// outbox holds the edge slabs a worker publishes for its neighbours: its
// first OL interior points on the left, its last OL on the right.
type outbox[V integrators.Vector] struct {
	left, right slab[V]
}

func (s *slab[V]) load(a *arena[V], from int) {
	copy(s.e[:], a.e[from:from+OL])
	copy(s.eo[:], a.eo[from:from+OL])
	copy(s.h[:], a.h[from:from+OL])
	copy(s.d[:], a.d[from:from+OL])
}

func (s *slab[V]) store(a *arena[V], to int) {
	copy(a.e[to:to+OL], s.e[:])
	copy(a.eo[to:to+OL], s.eo[:])
	copy(a.h[to:to+OL], s.h[:])
	copy(a.d[to:to+OL], s.d[:])
}

// publish snapshots the edges of the interior. Callers must not publish
// again before every neighbour has pulled.
func (w *worker[V, M]) publish() {
	w.out.left.load(w.arena, OL)
	w.out.right.load(w.arena, w.chunk)
}

// pull fills the halo from the neighbours' published slabs.
func (w *worker[V, M]) pull(prev, next *worker[V, M]) {
	if prev != nil {
		prev.out.right.store(w.arena, 0)
	}
	if next != nil {
		next.out.left.store(w.arena, OL+w.chunk)
	}
}
