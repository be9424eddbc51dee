package conv

import (
	"errors"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by the convolution helpers and filters.
var (
	ErrEmptyInput       = errors.New("conv: empty input")
	ErrEmptyKernel      = errors.New("conv: empty kernel")
	ErrInvalidBlockSize = errors.New("conv: invalid block size")
)

// shortKernel is the kernel length below which DirectTo skips the vector path.
const shortKernel = 4

// Direct returns the full linear convolution of signal and kernel,
// len(signal)+len(kernel)-1 samples long. It costs O(N·M) and serves as the
// time-domain reference for OverlapAddFilter.
func Direct(signal, kernel []float64) ([]float64, error) {
	switch {
	case len(signal) == 0:
		return nil, ErrEmptyInput
	case len(kernel) == 0:
		return nil, ErrEmptyKernel
	}

	out := make([]float64, len(signal)+len(kernel)-1)
	DirectTo(out, signal, kernel)
	return out, nil
}

// DirectTo writes the convolution of signal and kernel into dst, which must
// hold len(signal)+len(kernel)-1 samples.
func DirectTo(dst, signal, kernel []float64) {
	clear(dst)

	m := len(kernel)
	if m < shortKernel {
		for i, s := range signal {
			for j, k := range kernel {
				dst[i+j] += s * k
			}
		}
		return
	}

	scaled := make([]float64, m)
	for i, s := range signal {
		if s == 0 {
			continue
		}
		vecmath.ScaleBlock(scaled, kernel, s)
		vecmath.AddBlockInPlace(dst[i:i+m], scaled)
	}
}
