// Package testsignal builds deterministic float32 signals for tests.
package testsignal

import (
	"math"
	"math/rand"
)

// Sine returns amplitude*sin(2*pi*cycles*i/n) for i in [0, n), i.e. a tone
// sitting exactly on DFT bin cycles of an n-point window.
func Sine(cycles float64, amplitude float32, n int) []float32 {
	out := make([]float32, n)
	step := 2 * math.Pi * cycles / float64(n)
	for i := range out {
		out[i] = amplitude * float32(math.Sin(step*float64(i)))
	}
	return out
}

// Cosine is Sine with a quarter-period phase shift.
func Cosine(cycles float64, amplitude float32, n int) []float32 {
	out := make([]float32, n)
	step := 2 * math.Pi * cycles / float64(n)
	for i := range out {
		out[i] = amplitude * float32(math.Cos(step*float64(i)))
	}
	return out
}

// Noise returns uniform white noise in [-amplitude, amplitude] from a fixed seed.
func Noise(seed int64, amplitude float32, n int) []float32 {
	out := make([]float32, n)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float32()*2 - 1) * amplitude
	}
	return out
}

// DC returns n copies of value.
func DC(value float32, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// Impulse returns a unit impulse at pos.
func Impulse(n, pos int) []float32 {
	out := make([]float32, n)
	if pos >= 0 && pos < n {
		out[pos] = 1
	}
	return out
}

// Energy is the sum of squared samples.
func Energy(x []float32) float64 {
	var e float64
	for _, v := range x {
		e += float64(v) * float64(v)
	}
	return e
}

// Add returns the element-wise sum of a and b, which must be the same length.
func Add(a, b []float32) []float32 {
	out := make([]float32, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}
