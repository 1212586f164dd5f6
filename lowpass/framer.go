package lowpass

import "fmt"

// Frame returns a copy of signal right-padded with zeros to the smallest
// multiple of windowSize that is >= len(signal). The padding tail is always
// shorter than one window. Frame panics if windowSize <= 0.
func Frame(signal []float32, windowSize int) []float32 {
	if windowSize <= 0 {
		panic(fmt.Errorf("%w: %d", ErrWindowSize, windowSize))
	}

	padded := (len(signal) + windowSize - 1) / windowSize * windowSize
	framed := make([]float32, padded)
	copy(framed, signal)
	return framed
}

// NumWindows returns how many full windows of windowSize fit in n samples
// starting at offset.
func NumWindows(n, windowSize, offset int) int {
	if windowSize <= 0 || offset >= n {
		return 0
	}
	return (n - offset) / windowSize
}
