package analysis

import (
	"math"
	"math/bits"
	"math/cmplx"
)

// FFT is a radix-2 transform; data is zero-padded to a power of two.
func FFT(data []float64) []complex128 {
	n := nextPow2(len(data))
	in := make([]complex128, n)
	for i, v := range data {
		in[i] = complex(v, 0)
	}
	return fft(in)
}

func fft(data []complex128) []complex128 {
	n := len(data)
	if n <= 1 {
		return data
	}
	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}
	fe, fo := fft(even), fft(odd)
	out := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n))) * fo[k]
		out[k] = fe[k] + w
		out[k+n/2] = fe[k] - w
	}
	return out
}

// PowerSpectrum returns the magnitude of the first half of the transform
// of data with its mean removed.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := Describe(data).Mean
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}
	f := FFT(centered)
	ps := make([]float64, max(1, len(f)/2))
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps
}

func nextPow2(n int) int {
	if n <= 1 {
		return max(n, 1)
	}
	return 1 << bits.Len(uint(n-1))
}
