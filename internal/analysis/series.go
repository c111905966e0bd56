package analysis

import "math"

// Stats summarizes a series.
type Stats struct {
	N        int
	Mean     float64
	Std      float64
	Min, Max float64
}

func Describe(xs []float64) Stats {
	if len(xs) == 0 {
		return Stats{}
	}
	s := Stats{N: len(xs), Min: xs[0], Max: xs[0]}
	for _, v := range xs {
		s.Mean += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean /= float64(len(xs))
	for _, v := range xs {
		d := v - s.Mean
		s.Std += d * d
	}
	s.Std = math.Sqrt(s.Std / float64(len(xs)))
	return s
}

// Autocorrelation returns r[0..maxLag], normalized so r[0] = 1. A
// constant series has no defined correlation and yields nil.
func Autocorrelation(xs []float64, maxLag int) []float64 {
	st := Describe(xs)
	if st.N == 0 || st.Std == 0 {
		return nil
	}
	maxLag = min(maxLag, st.N-1)
	variance := st.Std * st.Std * float64(st.N)
	r := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i+lag < st.N; i++ {
			sum += (xs[i] - st.Mean) * (xs[i+lag] - st.Mean)
		}
		r[lag] = sum / variance
	}
	return r
}

// SteadyState returns the first index i such that the mean of every
// later window of the given size stays within tol of the mean of the
// final window. ok is false when the series is shorter than two windows.
func SteadyState(xs []float64, window int, tol float64) (int, bool) {
	if window <= 0 || len(xs) < 2*window {
		return 0, false
	}
	ref := Describe(xs[len(xs)-window:]).Mean
	start := len(xs) - window
	for i := len(xs) - window; i >= 0; i-- {
		if math.Abs(Describe(xs[i:i+window]).Mean-ref) > tol {
			break
		}
		start = i
	}
	return start, true
}
