package fft

import (
	"errors"
	"fmt"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-binaural/dsp/core"
)

// ErrInvalidSize is returned for transform sizes that are not a power of two >= 2.
var ErrInvalidSize = errors.New("fft: invalid transform size")

// Engine performs zero-padded real forward and normalized inverse FFTs of a
// fixed power-of-two size.
type Engine struct {
	size int
	plan *algofft.Plan[complex128]
	buf  []complex128
}

// NewEngine creates an engine for transforms of the given size.
func NewEngine(size int) (*Engine, error) {
	if size < 2 || !core.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("fft: failed to create plan: %w", err)
	}

	return &Engine{
		size: size,
		plan: plan,
		buf:  make([]complex128, size),
	}, nil
}

// Size returns the time-domain transform length.
func (e *Engine) Size() int {
	return e.size
}

// Bins returns the number of half-spectrum bins, Size/2+1.
func (e *Engine) Bins() int {
	return e.size/2 + 1
}

// Forward zero-pads src to Size and writes its half spectrum into dst.
// Panics if len(src) > Size or len(dst) != Bins.
func (e *Engine) Forward(dst []complex128, src []float64) {
	if len(src) > e.size {
		panic(fmt.Sprintf("fft: forward input length %d exceeds size %d", len(src), e.size))
	}
	if len(dst) != e.Bins() {
		panic(fmt.Sprintf("fft: forward output length %d, want %d", len(dst), e.Bins()))
	}

	for i, v := range src {
		e.buf[i] = complex(v, 0)
	}
	clear(e.buf[len(src):])

	if err := e.plan.Forward(e.buf, e.buf); err != nil {
		panic(fmt.Sprintf("fft: forward transform: %v", err))
	}

	copy(dst, e.buf[:e.Bins()])
}

// Inverse rebuilds the Hermitian spectrum from the half spectrum in src and
// writes the normalized real signal of length Size into dst.
// Panics if len(src) != Bins or len(dst) != Size.
func (e *Engine) Inverse(dst []float64, src []complex128) {
	if len(src) != e.Bins() {
		panic(fmt.Sprintf("fft: inverse input length %d, want %d", len(src), e.Bins()))
	}
	if len(dst) != e.size {
		panic(fmt.Sprintf("fft: inverse output length %d, want %d", len(dst), e.size))
	}

	half := e.size / 2
	copy(e.buf, src)
	// DC and Nyquist bins of a real signal are real.
	e.buf[0] = complex(real(src[0]), 0)
	e.buf[half] = complex(real(src[half]), 0)
	for k := 1; k < half; k++ {
		e.buf[e.size-k] = cmplx.Conj(src[k])
	}

	// algo-fft applies the 1/N scaling on the inverse transform.
	if err := e.plan.Inverse(e.buf, e.buf); err != nil {
		panic(fmt.Sprintf("fft: inverse transform: %v", err))
	}

	for i := range dst {
		dst[i] = real(e.buf[i])
	}
}

// MultiplyInto writes the pointwise complex product a*b into dst.
// All slices must share the same length.
func MultiplyInto(dst, a, b []complex128) {
	if len(a) != len(dst) || len(b) != len(dst) {
		panic(fmt.Sprintf("fft: multiply length mismatch: dst=%d a=%d b=%d", len(dst), len(a), len(b)))
	}
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}
