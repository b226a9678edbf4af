package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/mbsim/internal/solver"
)

type Summary struct {
	Count int
	Min   float64
	Max   float64
	Mean  float64
	RMS   float64
	// Peak is the index of the largest absolute value.
	Peak int
}

func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	abs := make([]float64, len(values))
	for i, v := range values {
		abs[i] = math.Abs(v)
	}
	n := float64(len(values))
	return Summary{
		Count: len(values),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
		Mean:  floats.Sum(values) / n,
		RMS:   floats.Norm(values, 2) / math.Sqrt(n),
		Peak:  floats.MaxIdx(abs),
	}
}

// PeakTrack returns, for each sampled timestep, the column holding the
// largest absolute value.
func PeakTrack(r *solver.Result) []int {
	track := make([]int, r.Rows)
	abs := make([]float64, r.Cols)
	for row := 0; row < r.Rows; row++ {
		for j, v := range r.Row(row) {
			abs[j] = math.Abs(v)
		}
		track[row] = floats.MaxIdx(abs)
	}
	return track
}

// Velocity fits a line through the peak track, from row `from` on, and
// returns its slope in m/s. dx is the column spacing, interval the time
// between rows.
func Velocity(r *solver.Result, from int, dx, interval float64) float64 {
	track := PeakTrack(r)
	if from < 0 {
		from = 0
	}
	if len(track)-from < 2 {
		return 0
	}
	t := make([]float64, 0, len(track)-from)
	x := make([]float64, 0, len(track)-from)
	for row := from; row < len(track); row++ {
		t = append(t, float64(row)*interval)
		x = append(x, float64(track[row])*dx)
	}
	_, slope := stat.LinearRegression(t, x, nil, false)
	return slope
}
