// Package analysis characterizes sampled assembly observables.
//
//   - [PowerSpectrum]: fluctuation spectrum of a series via [FFT]
//   - [Autocorrelation]: normalized autocorrelation by lag
//   - [SteadyState]: first sample after which a windowed mean settles
//   - [Describe]: mean, spread and range of a series
//
// # Treadmilling
//
// A steady-state filament population still turns over monomers. The tail
// of the series after [SteadyState] is what the spectrum and
// autocorrelation are meant for:
//
//	i, ok := analysis.SteadyState(fraction, 10, 0.02)
//	if ok {
//	    ps := analysis.PowerSpectrum(fraction[i:])
//	}
package analysis
