package resample

import (
	"errors"
	"fmt"
	"math"
	"sync"

	resampler "github.com/tphakala/go-audio-resampler"
)

var (
	// ErrInvalidRatio indicates a non-positive or non-finite conversion ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
	// ErrLatency indicates that the engine delay could not be measured.
	ErrLatency = errors.New("resample: cannot measure engine latency")
)

// minPad is the silence placed before and after a signal ahead of
// conversion. It must exceed the input the engine swallows while its
// filter fills.
const minPad = 1024

// padSearch bounds the search for a pad length that lands on the output grid.
const padSearch = 4096

// Resampler converts a signal by ratio = outputRate / inputRate.
type Resampler interface {
	Resample(signal []float64, ratio float64) ([]float64, error)
}

// Quality controls the anti-aliasing filter of the sinc engine.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default quality/performance trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation and passband flatness.
	QualityBest
)

func (q Quality) preset() resampler.QualityPreset {
	switch q {
	case QualityFast:
		return resampler.QualityLow
	case QualityBest:
		return resampler.QualityHigh
	default:
		return resampler.QualityMedium
	}
}

type config struct {
	quality   Quality
	inputRate float64
}

// Option configures a Sinc resampler.
type Option func(*config)

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithInputRate sets the nominal input rate handed to the sinc engine.
// Conversions only depend on the ratio; the absolute rate selects the
// engine's filter design. Default 44100 Hz.
func WithInputRate(rate float64) Option {
	return func(cfg *config) {
		cfg.inputRate = rate
	}
}

// Sinc is a band-limited resampler backed by go-audio-resampler.
//
// The engine emits its output with a filter delay and drops part of the
// leading input. Sinc pads the signal with silence and measures where a unit
// impulse at the signal start lands, so that sample i of the input maps to
// output index i·ratio. Measured offsets are cached per ratio and length.
type Sinc struct {
	quality   Quality
	inputRate float64

	mu      sync.Mutex
	offsets map[alignKey]int
}

type alignKey struct {
	ratio float64
	n     int
}

// NewSinc creates a sinc resampler.
func NewSinc(opts ...Option) (*Sinc, error) {
	cfg := config{quality: QualityBalanced, inputRate: 44100}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.inputRate <= 0 || math.IsNaN(cfg.inputRate) || math.IsInf(cfg.inputRate, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidRate, cfg.inputRate)
	}
	return &Sinc{
		quality:   cfg.quality,
		inputRate: cfg.inputRate,
		offsets:   make(map[alignKey]int),
	}, nil
}

// Quality returns the configured quality mode.
func (s *Sinc) Quality() Quality { return s.quality }

// Resample converts signal by ratio. The result always has OutputLen samples:
// the engine output is truncated or zero-padded. A ratio of exactly 1 returns
// a copy.
func (s *Sinc) Resample(signal []float64, ratio float64) ([]float64, error) {
	if err := validateRatio(ratio); err != nil {
		return nil, err
	}

	if ratio == 1 {
		out := make([]float64, len(signal))
		copy(out, signal)
		return out, nil
	}

	out := make([]float64, OutputLen(len(signal), ratio))
	if len(signal) == 0 {
		return out, nil
	}

	pad := alignedPad(ratio)
	padded := make([]float64, pad+len(signal)+pad)
	copy(padded[pad:], signal)

	start, err := s.offset(ratio, pad, len(padded))
	if err != nil {
		return nil, err
	}
	converted, err := s.convert(padded, ratio)
	if err != nil {
		return nil, err
	}
	if start < len(converted) {
		copy(out, converted[start:])
	}

	return out, nil
}

// offset returns the output index that input index pad of an n sample
// signal lands on.
func (s *Sinc) offset(ratio float64, pad, n int) (int, error) {
	key := alignKey{ratio: ratio, n: n}

	s.mu.Lock()
	start, ok := s.offsets[key]
	s.mu.Unlock()
	if ok {
		return start, nil
	}

	marker := make([]float64, n)
	marker[pad] = 1
	response, err := s.convert(marker, ratio)
	if err != nil {
		return 0, err
	}

	start = peakIndex(response)
	if start < 0 || math.Abs(response[start]) < 0.25*min(1, ratio) {
		return 0, fmt.Errorf("%w: ratio %g", ErrLatency, ratio)
	}

	s.mu.Lock()
	s.offsets[key] = start
	s.mu.Unlock()

	return start, nil
}

func (s *Sinc) convert(signal []float64, ratio float64) ([]float64, error) {
	converted, err := resampler.ResampleMono(signal, s.inputRate, s.inputRate*ratio, s.quality.preset())
	if err != nil {
		return nil, fmt.Errorf("resample: ratio %g: %w", ratio, err)
	}
	return converted, nil
}

// alignedPad returns a pad of at least minPad samples whose length in output
// samples is as close to an integer as the search finds, so the alignment
// adds no fractional delay.
func alignedPad(ratio float64) int {
	best, bestErr := minPad, math.Inf(1)
	for p := minPad; p < minPad+padSearch; p++ {
		x := float64(p) * ratio
		e := math.Abs(x - math.Round(x))
		if e < bestErr {
			best, bestErr = p, e
		}
		if e < 1e-9 {
			break
		}
	}
	return best
}

func peakIndex(x []float64) int {
	idx, peak := -1, 0.0
	for i, v := range x {
		if a := math.Abs(v); a > peak {
			idx, peak = i, a
		}
	}
	return idx
}

// OutputLen returns the length of a signal of inputLen samples after
// conversion by ratio: inputLen for ratio 1, otherwise
// floor(inputLen*ratio)+1.
func OutputLen(inputLen int, ratio float64) int {
	if ratio == 1 {
		return inputLen
	}
	return int(float64(inputLen)*ratio) + 1
}

func validateRatio(ratio float64) error {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidRatio, ratio)
	}
	return nil
}
