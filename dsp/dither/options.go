package dither

import (
	"errors"
	"fmt"
	"math"
)

const (
	defaultBitDepth  = 16
	defaultAmplitude = 1.0
	minBitDepth      = 2
	maxBitDepth      = 32
)

var (
	// ErrInvalidBitDepth is returned for bit depths outside [2, 32].
	ErrInvalidBitDepth = errors.New("dither: invalid bit depth")
	// ErrInvalidAmplitude is returned for a negative or non-finite amplitude.
	ErrInvalidAmplitude = errors.New("dither: invalid amplitude")
)

type config struct {
	bitDepth  int
	amplitude float64
	seed      int64
}

// Option configures a Quantizer.
type Option func(*config) error

// WithBitDepth sets the target bit depth (2-32, default 16).
func WithBitDepth(bits int) Option {
	return func(cfg *config) error {
		if bits < minBitDepth || bits > maxBitDepth {
			return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBitDepth, bits, minBitDepth, maxBitDepth)
		}
		cfg.bitDepth = bits
		return nil
	}
}

// WithAmplitude sets the TPDF peak amplitude in LSB (default 1). Zero
// disables dither.
func WithAmplitude(lsb float64) Option {
	return func(cfg *config) error {
		if lsb < 0 || math.IsNaN(lsb) || math.IsInf(lsb, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidAmplitude, lsb)
		}
		cfg.amplitude = lsb
		return nil
	}
}

// WithSeed selects the noise sequence.
func WithSeed(seed int64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}
