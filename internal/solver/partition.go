package solver

const (
	// OL is the halo width and the number of substeps per exchange.
	OL = 32

	// VEC is the granularity by which the computed range shrinks.
	VEC = 4
)

// chunk is the interior [start, start+size) of one worker.
type chunk struct {
	id    int
	start int
	size  int
}

// clampWorkers limits the worker count so every chunk holds at least OL
// points, which the halo exchange reads from a neighbour's interior.
func clampWorkers(gridpoints, requested int) int {
	max := gridpoints / OL
	if max < 1 {
		max = 1
	}
	if requested < 1 {
		requested = 1
	}
	if requested > max {
		return max
	}
	return requested
}

// partition splits gridpoints evenly; the last chunk takes the remainder.
func partition(gridpoints, workers int) []chunk {
	base := gridpoints / workers
	chunks := make([]chunk, workers)
	for id := range chunks {
		chunks[id] = chunk{id: id, start: id * base, size: base}
	}
	chunks[workers-1].size += gridpoints % workers
	return chunks
}
