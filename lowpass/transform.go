package lowpass

import (
	"fmt"
	"strings"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Backend selects the FFT implementation behind a Filter.
type Backend int

const (
	// BackendGonum uses a gonum CmplxFFT plan built once per Filter.
	BackendGonum Backend = iota
	// BackendGoDSP uses mjibson/go-dsp, which caches its own twiddle factors.
	BackendGoDSP
)

func (b Backend) String() string {
	switch b {
	case BackendGonum:
		return "gonum"
	case BackendGoDSP:
		return "godsp"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend maps a backend name ("gonum", "godsp") to a Backend.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gonum":
		return BackendGonum, nil
	case "godsp", "go-dsp":
		return BackendGoDSP, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBackend, name)
}

// transformer computes an unscaled forward and inverse complex DFT of a fixed
// length: inverse(forward(x)) == n*x.
type transformer interface {
	forward(dst, seq []complex128) []complex128
	inverse(dst, coeff []complex128) []complex128
}

func newTransformer(b Backend, n int) (transformer, error) {
	switch b {
	case BackendGonum:
		return &gonumTransform{plan: fourier.NewCmplxFFT(n)}, nil
	case BackendGoDSP:
		return goDSPTransform{n: n}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrBackend, b)
}

type gonumTransform struct {
	plan *fourier.CmplxFFT
}

func (g *gonumTransform) forward(dst, seq []complex128) []complex128 {
	return g.plan.Coefficients(dst, seq)
}

func (g *gonumTransform) inverse(dst, coeff []complex128) []complex128 {
	return g.plan.Sequence(dst, coeff)
}

type goDSPTransform struct {
	n int
}

func (g goDSPTransform) forward(dst, seq []complex128) []complex128 {
	return copyInto(dst, fft.FFT(seq))
}

// go-dsp normalises its inverse, so undo that to keep the unscaled contract.
func (g goDSPTransform) inverse(dst, coeff []complex128) []complex128 {
	seq := fft.IFFT(coeff)
	scale := complex(float64(g.n), 0)
	for i := range seq {
		seq[i] *= scale
	}
	return copyInto(dst, seq)
}

func copyInto(dst, src []complex128) []complex128 {
	if dst == nil {
		return src
	}
	copy(dst, src)
	return dst
}
