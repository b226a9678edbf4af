// Package analysis provides post-processing for recorded results.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectrum of a probe time series
//   - [Summarize]: min, max, mean and RMS of a sample set
//   - [PeakTrack] and [Velocity]: pulse position over time and its
//     propagation speed
//
// A probe recorded at a single gridpoint gives a time series:
//
//	series := res.Column(0)
//	f := analysis.DominantFrequency(series, interval)
package analysis
