package solver

import "sync"

// barrier blocks until n goroutines have called wait. It is reusable: a
// generation counter separates consecutive rounds.
type barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	n       int
	pending int
	gen     uint64
}

func newBarrier(n int) *barrier {
	b := &barrier{n: n, pending: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *barrier) wait() {
	b.mu.Lock()
	gen := b.gen
	b.pending--
	if b.pending == 0 {
		b.pending = b.n
		b.gen++
		b.cond.Broadcast()
		b.mu.Unlock()
		return
	}
	for gen == b.gen {
		b.cond.Wait()
	}
	b.mu.Unlock()
}
