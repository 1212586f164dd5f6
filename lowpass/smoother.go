package lowpass

import "fmt"

// SmoothingFactor is the EMA coefficient for a time constant of period
// samples, 2/(period+1).
func SmoothingFactor(period int) float64 {
	return 2.0 / float64(period+1)
}

// Smooth runs a single-pole exponential moving average over signal:
// y[0] = x[0], y[n] = a*x[n] + (1-a)*y[n-1]. It is the cheap alternative to
// OverlapAdd when block-boundary artifacts are tolerable.
func Smooth(signal []float32, period int) ([]float32, error) {
	if period < 1 {
		return nil, fmt.Errorf("%w: %d", ErrSmoothingPeriod, period)
	}

	out := make([]float32, len(signal))
	if len(signal) == 0 {
		return out, nil
	}

	alpha := SmoothingFactor(period)
	y := float64(signal[0])
	out[0] = signal[0]
	for n := 1; n < len(signal); n++ {
		y = alpha*float64(signal[n]) + (1-alpha)*y
		out[n] = float32(y)
	}
	return out, nil
}
