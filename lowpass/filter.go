package lowpass

import (
	"fmt"
	"math"
	"strings"
)

// MaskMode decides which frequency bins survive the cutoff.
type MaskMode int

const (
	// MaskAboveCutoff zeroes every bin k >= cutoff. For a real signal this
	// also removes the negative-frequency mirror of each kept bin, so a
	// passed sinusoid comes back at half amplitude.
	MaskAboveCutoff MaskMode = iota
	// MaskSymmetric keeps bins k < cutoff and their mirrors
	// k > windowSize-cutoff, which is the textbook real lowpass.
	MaskSymmetric
)

func (m MaskMode) String() string {
	switch m {
	case MaskAboveCutoff:
		return "above-cutoff"
	case MaskSymmetric:
		return "symmetric"
	default:
		return fmt.Sprintf("MaskMode(%d)", int(m))
	}
}

// ParseMaskMode maps "above-cutoff" or "symmetric" to a MaskMode.
func ParseMaskMode(name string) (MaskMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "above-cutoff", "above":
		return MaskAboveCutoff, nil
	case "symmetric", "sym":
		return MaskSymmetric, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrMaskMode, name)
}

// Option configures a Filter.
type Option func(*filterOptions)

type filterOptions struct {
	mask    MaskMode
	backend Backend
}

// WithMask sets the bin mask mode. The default is MaskAboveCutoff.
func WithMask(m MaskMode) Option {
	return func(o *filterOptions) { o.mask = m }
}

// WithBackend sets the FFT backend. The default is BackendGonum.
func WithBackend(b Backend) Option {
	return func(o *filterOptions) { o.backend = b }
}

// Filter is a brick-wall lowpass over one window. It owns its transform plan
// and scratch buffers, so a Filter must not be shared between goroutines.
type Filter struct {
	windowSize int
	cutoff     int
	opts       filterOptions

	transform transformer
	seq       []complex128
	coeff     []complex128
}

// NewFilter builds a Filter for windows of windowSize samples that discards
// bins at and above cutoff. cutoff must lie in [0, windowSize]; it is never
// clamped.
func NewFilter(windowSize, cutoff int, opts ...Option) (*Filter, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrWindowSize, windowSize)
	}
	if cutoff < 0 || cutoff > windowSize {
		return nil, fmt.Errorf("%w: cutoff %d, window size %d", ErrCutoffRange, cutoff, windowSize)
	}

	var o filterOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.mask != MaskAboveCutoff && o.mask != MaskSymmetric {
		return nil, fmt.Errorf("%w: %v", ErrMaskMode, o.mask)
	}

	t, err := newTransformer(o.backend, windowSize)
	if err != nil {
		return nil, err
	}

	return &Filter{
		windowSize: windowSize,
		cutoff:     cutoff,
		opts:       o,
		transform:  t,
		seq:        make([]complex128, windowSize),
		coeff:      make([]complex128, windowSize),
	}, nil
}

// WindowSize returns the window length the filter was built for.
func (f *Filter) WindowSize() int { return f.windowSize }

// Cutoff returns the first discarded bin.
func (f *Filter) Cutoff() int { return f.cutoff }

// Apply returns the lowpass-filtered copy of window. The inverse transform is
// divided by the window size, so cutoff == windowSize reproduces the input.
func (f *Filter) Apply(window []float32) ([]float32, error) {
	out := make([]float32, f.windowSize)
	if err := f.applyTo(out, window); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *Filter) applyTo(dst, window []float32) error {
	if len(window) != f.windowSize {
		return fmt.Errorf("%w: got %d samples, want %d", ErrWindowLength, len(window), f.windowSize)
	}

	for i, v := range window {
		f.seq[i] = complex(float64(v), 0)
	}

	coeff := f.transform.forward(f.coeff, f.seq)
	for k := range coeff {
		if !f.keep(k) {
			coeff[k] = 0
		}
	}
	seq := f.transform.inverse(f.seq, coeff)

	n := float64(f.windowSize)
	for i := range dst {
		dst[i] = float32(real(seq[i]) / n)
	}
	return nil
}

func (f *Filter) keep(k int) bool {
	if f.opts.mask == MaskSymmetric {
		return k < f.cutoff || k > f.windowSize-f.cutoff
	}
	return k < f.cutoff
}

// BinForFrequency returns the cutoff bin that keeps every bin whose centre
// frequency lies below hz. The result is not clamped to the window size.
func BinForFrequency(hz float64, sampleRate, windowSize int) int {
	if sampleRate <= 0 || hz <= 0 {
		return 0
	}
	return int(math.Ceil(hz * float64(windowSize) / float64(sampleRate)))
}

// FrequencyForBin returns the centre frequency of bin in Hz.
func FrequencyForBin(bin, sampleRate, windowSize int) float64 {
	if windowSize <= 0 {
		return 0
	}
	return float64(bin) * float64(sampleRate) / float64(windowSize)
}
