package lowpass

import (
	"fmt"

	"github.com/mjibson/go-dsp/window"
)

// ShiftOffset is the start of the phase-shifted pass: half a window back
// by one sample, so its block boundaries fall mid-window of the primary pass.
func ShiftOffset(windowSize int) int {
	return windowSize/2 - 1
}

// HannTaper returns the symmetric Hann curve of length windowSize used to
// cross-fade the two passes. Values lie in [0,1] and peak mid-window.
func HannTaper(windowSize int) []float32 {
	if windowSize <= 0 {
		return nil
	}
	coeffs := window.Hann(windowSize)
	taper := make([]float32, len(coeffs))
	for i, c := range coeffs {
		taper[i] = float32(c)
	}
	return taper
}

// OverlapAdd blends the phase-shifted pass into a copy of the primary pass.
// With W = len(taper) and h = W/2-1, every out[i+h] for i < len(shifted)
// becomes shifted[i]*taper[i%W] + primary[i+h]*(1-taper[i%W]). The first h
// samples and the tail past len(shifted)+h keep the primary value.
func OverlapAdd(primary, shifted, taper []float32) ([]float32, error) {
	w := len(taper)
	if w < 2 {
		return nil, fmt.Errorf("%w: taper of %d samples", ErrWindowSize, w)
	}
	h := ShiftOffset(w)
	if len(shifted)+h > len(primary) {
		return nil, fmt.Errorf("%w: shifted pass of %d samples at offset %d exceeds primary of %d",
			ErrSchedule, len(shifted), h, len(primary))
	}

	out := make([]float32, len(primary))
	copy(out, primary)

	for i, s := range shifted {
		c := taper[i%w]
		out[i+h] = s*c + primary[i+h]*(1-c)
	}
	return out, nil
}
