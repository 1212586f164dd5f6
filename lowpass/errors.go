package lowpass

import "errors"

var (
	// ErrWindowSize is returned for a non-positive window size, or one too
	// small for the chosen reconstruction strategy.
	ErrWindowSize = errors.New("lowpass: invalid window size")

	// ErrCutoffRange is returned when cutoff is outside [0, windowSize].
	ErrCutoffRange = errors.New("lowpass: cutoff out of range")

	// ErrWindowLength is returned when a window handed to a Filter does not
	// have exactly windowSize samples.
	ErrWindowLength = errors.New("lowpass: window length mismatch")

	// ErrSchedule is returned when an offset or window count would read past
	// the end of the signal.
	ErrSchedule = errors.New("lowpass: window schedule out of range")

	ErrSmoothingPeriod = errors.New("lowpass: smoothing period must be at least 1")
	ErrStrategy        = errors.New("lowpass: unknown reconstruction strategy")
	ErrBackend         = errors.New("lowpass: unknown transform backend")
	ErrMaskMode        = errors.New("lowpass: unknown mask mode")
)
