package conv

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-binaural/dsp/fft"
)

// OverlapAddFilter is a streaming FFT convolver with a fixed block length N.
//
// Each call to AddSignalBlock transforms one N-sample block zero-padded to 2N,
// multiplies it with the active kernel spectrum and stores the circular result
// in one of two alternating 2N buffers. GetResult adds the first half of the
// newest buffer to the second half of the previous one.
//
// The filter is not safe for concurrent use.
type OverlapAddFilter struct {
	blockLen int
	engine   *fft.Engine

	kernel   []complex128 // active kernel, N+1 bins
	spectrum []complex128 // scratch, N+1 bins
	buffers  [2][]float64 // circular results, 2N each
	current  int
}

// NewOverlapAddFilter creates a filter for blocks and kernels of up to
// blockLen samples. The FFT size is 2*blockLen and must be a power of two.
func NewOverlapAddFilter(blockLen int) (*OverlapAddFilter, error) {
	if blockLen < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockLen)
	}

	engine, err := fft.NewEngine(2 * blockLen)
	if err != nil {
		return nil, fmt.Errorf("conv: overlap-add block length %d: %w", blockLen, err)
	}

	return &OverlapAddFilter{
		blockLen: blockLen,
		engine:   engine,
		kernel:   make([]complex128, engine.Bins()),
		spectrum: make([]complex128, engine.Bins()),
		buffers: [2][]float64{
			make([]float64, 2*blockLen),
			make([]float64, 2*blockLen),
		},
	}, nil
}

// BlockLen returns N, the block length and maximum kernel length.
func (f *OverlapAddFilter) BlockLen() int { return f.blockLen }

// FFTLen returns the transform size 2N.
func (f *OverlapAddFilter) FFTLen() int { return f.engine.Size() }

// Bins returns the length of a frequency-domain kernel, N+1.
func (f *OverlapAddFilter) Bins() int { return f.engine.Bins() }

// SetTimeDomainKernel replaces the active kernel. Panics if the kernel is
// longer than BlockLen.
func (f *OverlapAddFilter) SetTimeDomainKernel(kernel []float64) {
	f.checkKernel(kernel)
	f.engine.Forward(f.kernel, kernel)
}

// AddTimeDomainKernel adds kernel to the active kernel.
func (f *OverlapAddFilter) AddTimeDomainKernel(kernel []float64) {
	f.checkKernel(kernel)
	f.engine.Forward(f.spectrum, kernel)
	for i, v := range f.spectrum {
		f.kernel[i] += v
	}
}

// SetFrequencyDomainKernel replaces the active kernel with a half spectrum of
// length Bins. The spectrum is copied.
func (f *OverlapAddFilter) SetFrequencyDomainKernel(spectrum []complex128) {
	f.checkSpectrum(spectrum)
	copy(f.kernel, spectrum)
}

// AddFrequencyDomainKernel adds a half spectrum of length Bins to the active
// kernel.
func (f *OverlapAddFilter) AddFrequencyDomainKernel(spectrum []complex128) {
	f.checkSpectrum(spectrum)
	for i, v := range spectrum {
		f.kernel[i] += v
	}
}

// Kernel returns a copy of the active kernel spectrum.
func (f *OverlapAddFilter) Kernel() []complex128 {
	out := make([]complex128, len(f.kernel))
	copy(out, f.kernel)
	return out
}

// AddSignalBlock convolves one block of exactly BlockLen samples with the
// active kernel and makes it the newest buffer.
func (f *OverlapAddFilter) AddSignalBlock(block []float64) {
	if len(block) != f.blockLen {
		panic(fmt.Sprintf("conv: signal block length %d, want %d", len(block), f.blockLen))
	}

	f.engine.Forward(f.spectrum, block)
	fft.MultiplyInto(f.spectrum, f.spectrum, f.kernel)

	f.current ^= 1
	f.engine.Inverse(f.buffers[f.current], f.spectrum)
}

// GetResult writes BlockLen output samples: the head of the newest buffer
// plus the tail of the previous one.
func (f *OverlapAddFilter) GetResult(out []float64) {
	if len(out) != f.blockLen {
		panic(fmt.Sprintf("conv: result length %d, want %d", len(out), f.blockLen))
	}

	n := f.blockLen
	cur := f.buffers[f.current]
	prev := f.buffers[f.current^1]
	vecmath.AddBlock(out, cur[:n], prev[n:])
}

// ProcessBlock runs AddSignalBlock followed by GetResult.
func (f *OverlapAddFilter) ProcessBlock(out, in []float64) {
	f.AddSignalBlock(in)
	f.GetResult(out)
}

// Reset clears the overlap state and the active kernel.
func (f *OverlapAddFilter) Reset() {
	clear(f.kernel)
	clear(f.buffers[0])
	clear(f.buffers[1])
	f.current = 0
}

// ForwardTransform writes the zero-padded 2N-point half spectrum of src into
// dst. It does not touch the streaming state.
func (f *OverlapAddFilter) ForwardTransform(dst []complex128, src []float64) {
	f.engine.Forward(dst, src)
}

// InverseTransform writes the normalized 2N-sample inverse of the half
// spectrum src into dst. It does not touch the streaming state.
func (f *OverlapAddFilter) InverseTransform(dst []float64, src []complex128) {
	f.engine.Inverse(dst, src)
}

func (f *OverlapAddFilter) checkKernel(kernel []float64) {
	if len(kernel) > f.blockLen {
		panic(fmt.Sprintf("conv: kernel length %d exceeds block length %d", len(kernel), f.blockLen))
	}
}

func (f *OverlapAddFilter) checkSpectrum(spectrum []complex128) {
	if len(spectrum) != len(f.kernel) {
		panic(fmt.Sprintf("conv: kernel spectrum has %d bins, want %d", len(spectrum), len(f.kernel)))
	}
}
