package solver

import (
	"sync"
	"sync/atomic"

	"github.com/san-kum/mbsim/internal/integrators"
)

// layout is everything the engines share read-only, plus the scratch buffer
// they write disjointly.
type layout struct {
	gridpoints int
	timesteps  int
	chunks     []chunk
	align      int

	coeffs   []Coefficients
	matIndex []int32

	sources      []sourceDesc
	sourceValues []float64

	copies  []copyEntry
	scratch []float64
}

// engine is one compiled level-count variant.
type engine interface {
	reset()
	run(progress *atomic.Int64)
	state(i int) []float64
	field(i int) (e, h, p float64)
}

type fixedEngine[V integrators.Vector, M integrators.Matrix] struct {
	l       *layout
	coeffs  []coeffs[V, M]
	workers []*worker[V, M]
}

func newEngine[V integrators.Vector, M integrators.Matrix](l *layout) engine {
	e := &fixedEngine[V, M]{
		l:      l,
		coeffs: make([]coeffs[V, M], len(l.coeffs)),
	}
	for i := range l.coeffs {
		e.coeffs[i] = newCoeffs[V, M](&l.coeffs[i])
	}

	for _, ch := range l.chunks {
		size := ch.size + 2*OL
		w := &worker[V, M]{
			id:     ch.id,
			start:  ch.start,
			chunk:  ch.size,
			size:   size,
			first:  ch.id == 0,
			last:   ch.id == len(l.chunks)-1,
			arena:  newArena[V](size, l.align),
			rk:     integrators.NewRK4[V, M](),
			coeffs: e.coeffs,
		}
		for _, s := range l.sources {
			at := s.index - ch.start + OL
			if at >= 0 && at < size {
				w.sources = append(w.sources, localSource{at: at, base: s.base, hard: s.hard})
			}
		}
		e.workers = append(e.workers, w)
	}
	return e
}

func (e *fixedEngine[V, M]) reset() {
	var wg sync.WaitGroup
	for _, w := range e.workers {
		wg.Add(1)
		go func(w *worker[V, M]) {
			defer wg.Done()
			w.init(e.l.matIndex)
		}(w)
	}
	wg.Wait()
}

func (e *fixedEngine[V, M]) run(progress *atomic.Int64) {
	bar := newBarrier(len(e.workers))

	var wg sync.WaitGroup
	for _, w := range e.workers {
		wg.Add(1)
		go func(w *worker[V, M]) {
			defer wg.Done()
			e.loop(w, bar, progress)
		}(w)
	}
	wg.Wait()
}

func (e *fixedEngine[V, M]) loop(w *worker[V, M], bar *barrier, progress *atomic.Int64) {
	var prev, next *worker[V, M]
	if !w.first {
		prev = e.workers[w.id-1]
	}
	if !w.last {
		next = e.workers[w.id+1]
	}
	nt := e.l.timesteps

	w.init(e.l.matIndex)
	bar.wait()

	for n := 0; n <= nt/OL; n++ {
		steps := OL
		if n == nt/OL {
			steps = nt % OL
		}

		w.publish()
		bar.wait()
		w.pull(prev, next)

		for m := 0; m < steps; m++ {
			t := n*OL + m
			w.substep(t, m-m%VEC, e.l.sourceValues)
			w.record(t, e.l.copies, e.l.scratch)
		}

		bar.wait()
		if w.id == 0 {
			progress.Add(int64(steps))
		}
	}
}

// owner returns the worker whose interior holds global index i and the local
// index of i in its arena.
func (e *fixedEngine[V, M]) owner(i int) (*worker[V, M], int) {
	id := min(i/e.workers[0].chunk, len(e.workers)-1)
	w := e.workers[id]
	return w, i - w.start + OL
}

func (e *fixedEngine[V, M]) state(i int) []float64 {
	w, local := e.owner(i)
	d := w.arena.d[local]
	out := make([]float64, len(d))
	for k := range out {
		out[k] = d[k]
	}
	return out
}

func (e *fixedEngine[V, M]) field(i int) (float64, float64, float64) {
	w, local := e.owner(i)
	a := w.arena
	return a.e[local], a.h[local], a.p[local]
}
