package lowpass

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fourier-lowpass/internal/testsignal"
)

const tolerance = 1e-4

var (
	allBackends = []Backend{BackendGonum, BackendGoDSP}
	allMasks    = []MaskMode{MaskAboveCutoff, MaskSymmetric}
)

func newTestFilter(t *testing.T, w, cutoff int, opts ...Option) *Filter {
	t.Helper()
	f, err := NewFilter(w, cutoff, opts...)
	require.NoError(t, err)
	return f
}

func TestFilterPassThrough(t *testing.T) {
	const w = 64
	in := testsignal.Noise(1, 0.8, w)

	for _, b := range allBackends {
		for _, m := range allMasks {
			t.Run(fmt.Sprintf("%v/%v", b, m), func(t *testing.T) {
				f := newTestFilter(t, w, w, WithBackend(b), WithMask(m))
				out, err := f.Apply(in)
				require.NoError(t, err)
				assert.InDeltaSlice(t, in, out, tolerance)
			})
		}
	}
}

func TestFilterKeepsDC(t *testing.T) {
	const w = 32
	in := testsignal.DC(0.7, w)

	for _, m := range allMasks {
		for _, cutoff := range []int{1, 2, 5, w / 2, w} {
			f := newTestFilter(t, w, cutoff, WithMask(m))
			out, err := f.Apply(in)
			require.NoError(t, err)
			assert.InDeltaSlicef(t, in, out, tolerance, "mask %v, cutoff %d", m, cutoff)
		}
	}
}

func TestFilterCutoffZeroNullsEverything(t *testing.T) {
	const w = 16
	in := testsignal.Add(testsignal.DC(0.5, w), testsignal.Noise(2, 0.3, w))

	for _, m := range allMasks {
		f := newTestFilter(t, w, 0, WithMask(m))
		out, err := f.Apply(in)
		require.NoError(t, err)
		assert.InDeltaSlice(t, make([]float32, w), out, tolerance)
	}
}

func TestFilterNeverAddsEnergy(t *testing.T) {
	const w = 128
	in := testsignal.Noise(3, 1, w)
	inEnergy := testsignal.Energy(in)

	for _, m := range allMasks {
		for _, cutoff := range []int{0, 1, 3, 17, w / 2, w - 1} {
			f := newTestFilter(t, w, cutoff, WithMask(m))
			out, err := f.Apply(in)
			require.NoError(t, err)
			assert.LessOrEqualf(t, testsignal.Energy(out), inEnergy+tolerance,
				"mask %v, cutoff %d", m, cutoff)
		}
	}
}

func TestFilterMaskModes(t *testing.T) {
	const (
		w      = 64
		cutoff = 8
	)
	tone := testsignal.Cosine(3, 1, w)

	t.Run("above cutoff halves a passed tone", func(t *testing.T) {
		f := newTestFilter(t, w, cutoff, WithMask(MaskAboveCutoff))
		out, err := f.Apply(tone)
		require.NoError(t, err)
		assert.InDeltaSlice(t, testsignal.Cosine(3, 0.5, w), out, tolerance)
	})

	t.Run("symmetric keeps a passed tone", func(t *testing.T) {
		f := newTestFilter(t, w, cutoff, WithMask(MaskSymmetric))
		out, err := f.Apply(tone)
		require.NoError(t, err)
		assert.InDeltaSlice(t, tone, out, tolerance)
	})

	t.Run("symmetric removes a tone above cutoff", func(t *testing.T) {
		f := newTestFilter(t, w, cutoff, WithMask(MaskSymmetric))
		mixed := testsignal.Add(tone, testsignal.Sine(20, 0.5, w))
		out, err := f.Apply(mixed)
		require.NoError(t, err)
		assert.InDeltaSlice(t, tone, out, tolerance)
	})
}

func TestFilterBackendsAgree(t *testing.T) {
	for _, w := range []int{8, 64, 256} {
		in := testsignal.Noise(int64(w), 1, w)
		for _, m := range allMasks {
			g := newTestFilter(t, w, w/4, WithMask(m), WithBackend(BackendGonum))
			d := newTestFilter(t, w, w/4, WithMask(m), WithBackend(BackendGoDSP))

			a, err := g.Apply(in)
			require.NoError(t, err)
			b, err := d.Apply(in)
			require.NoError(t, err)
			assert.InDeltaSlicef(t, a, b, 1e-5, "window %d, mask %v", w, m)
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	in := testsignal.Noise(4, 1, 32)
	orig := append([]float32(nil), in...)

	f := newTestFilter(t, 32, 4)
	_, err := f.Apply(in)
	require.NoError(t, err)
	assert.Equal(t, orig, in)
}

func TestFilterReusesPlanAcrossWindows(t *testing.T) {
	const w = 32
	f := newTestFilter(t, w, 6)
	a := testsignal.Noise(5, 1, w)
	b := testsignal.Noise(6, 1, w)

	first, err := f.Apply(a)
	require.NoError(t, err)
	_, err = f.Apply(b)
	require.NoError(t, err)
	again, err := f.Apply(a)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestNewFilterPreconditions(t *testing.T) {
	_, err := NewFilter(8, 9)
	assert.True(t, errors.Is(err, ErrCutoffRange))

	_, err = NewFilter(8, -1)
	assert.ErrorIs(t, err, ErrCutoffRange)

	_, err = NewFilter(0, 0)
	assert.ErrorIs(t, err, ErrWindowSize)

	_, err = NewFilter(8, 4, WithBackend(Backend(7)))
	assert.ErrorIs(t, err, ErrBackend)

	_, err = NewFilter(8, 4, WithMask(MaskMode(7)))
	assert.ErrorIs(t, err, ErrMaskMode)

	f := newTestFilter(t, 8, 8)
	assert.Equal(t, 8, f.WindowSize())
	assert.Equal(t, 8, f.Cutoff())
}

func TestFilterWindowLength(t *testing.T) {
	f := newTestFilter(t, 8, 4)
	_, err := f.Apply(make([]float32, 7))
	assert.ErrorIs(t, err, ErrWindowLength)
	_, err = f.Apply(make([]float32, 9))
	assert.ErrorIs(t, err, ErrWindowLength)
}

func TestBinFrequencyConversion(t *testing.T) {
	bin := BinForFrequency(1000, 44100, 1024)
	assert.Equal(t, 24, bin)
	assert.Less(t, FrequencyForBin(bin-1, 44100, 1024), 1000.0)
	assert.GreaterOrEqual(t, FrequencyForBin(bin, 44100, 1024), 1000.0)

	assert.Equal(t, 0, BinForFrequency(0, 44100, 1024))
	assert.Equal(t, 0, BinForFrequency(1000, 0, 1024))
	assert.Equal(t, 0.0, FrequencyForBin(3, 44100, 0))
}

func TestParseOptions(t *testing.T) {
	b, err := ParseBackend("go-dsp")
	require.NoError(t, err)
	assert.Equal(t, BackendGoDSP, b)
	b, err = ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, BackendGonum, b)
	_, err = ParseBackend("fftw")
	assert.ErrorIs(t, err, ErrBackend)

	m, err := ParseMaskMode("Symmetric")
	require.NoError(t, err)
	assert.Equal(t, MaskSymmetric, m)
	_, err = ParseMaskMode("bandpass")
	assert.ErrorIs(t, err, ErrMaskMode)

	for _, m := range allMasks {
		parsed, err := ParseMaskMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	for _, b := range allBackends {
		parsed, err := ParseBackend(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, parsed)
	}
}
