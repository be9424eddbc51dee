package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSampleRate indicates a non-positive or non-finite sample rate.
	ErrInvalidSampleRate = errors.New("core: invalid sample rate")
	// ErrInvalidBlockSize indicates a block size that cannot drive a 2N FFT.
	ErrInvalidBlockSize = errors.New("core: invalid block size")
)

// ProcessorConfig holds the stream parameters shared by every block
// processor.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// DefaultProcessorConfig returns the streaming defaults used by the renderers.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 44100,
		BlockSize:  2048,
	}
}

// Validate checks that the sample rate is finite and positive and that the
// block size is a power of two of at least 2, so that the doubled FFT length
// used by overlap-add convolution is itself a power of two.
func (c ProcessorConfig) Validate() error {
	if c.SampleRate <= 0 || !IsFinite(c.SampleRate) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, c.SampleRate)
	}
	if c.BlockSize < 2 || !IsPowerOfTwo(c.BlockSize) {
		return fmt.Errorf("%w: %d (must be a power of two >= 2)", ErrInvalidBlockSize, c.BlockSize)
	}
	return nil
}
