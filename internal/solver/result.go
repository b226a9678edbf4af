package solver

// Result is the assembled output of one record: Rows sampled timesteps by
// Cols gridpoints, row-major. Imag is nil for real records.
type Result struct {
	Name    string
	Rows    int
	Cols    int
	Complex bool
	Real    []float64
	Imag    []float64
}

func (r *Result) At(row, col int) float64 {
	return r.Real[row*r.Cols+col]
}

func (r *Result) ImagAt(row, col int) float64 {
	if r.Imag == nil {
		return 0
	}
	return r.Imag[row*r.Cols+col]
}

// Row is the spatial profile at one sampled timestep.
func (r *Result) Row(row int) []float64 {
	return r.Real[row*r.Cols : (row+1)*r.Cols]
}

// Column is the time series at one recorded gridpoint.
func (r *Result) Column(col int) []float64 {
	out := make([]float64, r.Rows)
	for i := range out {
		out[i] = r.Real[i*r.Cols+col]
	}
	return out
}

func newResults(copies []copyEntry) []*Result {
	results := make([]*Result, len(copies))
	for i := range copies {
		c := &copies[i]
		results[i] = &Result{
			Name:    c.name,
			Rows:    c.rows,
			Cols:    c.cols,
			Complex: c.complex,
			Real:    make([]float64, c.size()),
		}
		if c.complex {
			results[i].Imag = make([]float64, c.size())
		}
	}
	return results
}

// assemble copies each record's scratch region into its result.
func assemble(results []*Result, copies []copyEntry, scratch []float64) {
	for i := range copies {
		c := &copies[i]
		copy(results[i].Real, scratch[c.offset:c.offset+c.size()])
		if c.complex {
			copy(results[i].Imag, scratch[c.imagOffset:c.imagOffset+c.size()])
		}
	}
}
