package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X_k|² for the non-negative frequency bins of the
// real series, k = 0 .. n/2.
func PowerSpectrum(series []float64) []float64 {
	n := len(series)
	if n == 0 {
		return nil
	}
	spectrum := fft.FFTReal(series)
	ps := make([]float64, n/2+1)
	for k := range ps {
		a := cmplx.Abs(spectrum[k])
		ps[k] = a * a
	}
	return ps
}

// Frequencies returns the bin frequencies matching PowerSpectrum for a
// series of length n sampled every dt.
func Frequencies(n int, dt float64) []float64 {
	if n == 0 {
		return nil
	}
	f := make([]float64, n/2+1)
	for k := range f {
		f[k] = float64(k) / (float64(n) * dt)
	}
	return f
}

// DominantFrequency is the frequency of the strongest non-DC bin, in Hz.
func DominantFrequency(series []float64, dt float64) float64 {
	ps := PowerSpectrum(series)
	if len(ps) < 2 {
		return 0
	}
	best, bestPower := 1, math.Inf(-1)
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestPower {
			best, bestPower = k, ps[k]
		}
	}
	return float64(best) / (float64(len(series)) * dt)
}
