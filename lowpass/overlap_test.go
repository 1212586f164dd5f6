package lowpass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fourier-lowpass/internal/testsignal"
)

func TestHannTaper(t *testing.T) {
	for _, w := range []int{4, 16, 1024} {
		taper := HannTaper(w)
		require.Len(t, taper, w)
		for i, c := range taper {
			assert.GreaterOrEqual(t, c, float32(0))
			assert.LessOrEqual(t, c, float32(1))
			assert.InDeltaf(t, c, taper[w-1-i], 1e-6, "window %d, index %d", w, i)
		}
		assert.InDelta(t, 0, taper[0], 1e-6)
	}
	assert.Nil(t, HannTaper(0))
}

func TestShiftOffset(t *testing.T) {
	assert.Equal(t, 0, ShiftOffset(2))
	assert.Equal(t, 1, ShiftOffset(4))
	assert.Equal(t, 511, ShiftOffset(1024))
}

func TestOverlapAddTouchesOnlyCoveredRange(t *testing.T) {
	const (
		w = 16
		p = 6 * w
	)
	primary := testsignal.Noise(1, 1, p)
	shifted := testsignal.Noise(2, 1, p-w)
	taper := HannTaper(w)

	out, err := OverlapAdd(primary, shifted, taper)
	require.NoError(t, err)
	require.Len(t, out, p)

	lo, hi := w/2-1, p-w/2
	for i := range out {
		if i < lo || i >= hi {
			assert.Equalf(t, primary[i], out[i], "index %d outside blend range", i)
		}
	}
	for i := range shifted {
		c := taper[i%w]
		want := shifted[i]*c + primary[i+lo]*(1-c)
		assert.InDeltaf(t, want, out[i+lo], 1e-6, "index %d", i+lo)
	}
}

func TestOverlapAddIdenticalPassesIsIdentity(t *testing.T) {
	const w = 8
	primary := testsignal.Noise(3, 1, 4*w)
	h := ShiftOffset(w)
	shifted := append([]float32(nil), primary[h:h+3*w]...)

	out, err := OverlapAdd(primary, shifted, HannTaper(w))
	require.NoError(t, err)
	assert.InDeltaSlice(t, primary, out, 1e-6)
}

func TestOverlapAddDoesNotMutateInputs(t *testing.T) {
	const w = 8
	primary := testsignal.Noise(4, 1, 3*w)
	shifted := testsignal.Noise(5, 1, 2*w)
	p0 := append([]float32(nil), primary...)
	s0 := append([]float32(nil), shifted...)

	_, err := OverlapAdd(primary, shifted, HannTaper(w))
	require.NoError(t, err)
	assert.Equal(t, p0, primary)
	assert.Equal(t, s0, shifted)
}

func TestOverlapAddPreconditions(t *testing.T) {
	_, err := OverlapAdd(make([]float32, 8), make([]float32, 4), []float32{1})
	assert.ErrorIs(t, err, ErrWindowSize)

	_, err = OverlapAdd(make([]float32, 8), make([]float32, 8), HannTaper(4))
	assert.ErrorIs(t, err, ErrSchedule)

	out, err := OverlapAdd([]float32{1, 2}, nil, HannTaper(4))
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, out)
}
