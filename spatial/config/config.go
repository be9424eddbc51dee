// Package config holds the construction-time settings shared by the HRTF
// bank, the room model and the renderers. A Config is validated once and then
// copied by value; it is not hot-reloadable.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-binaural/dsp/core"
)

// Defaults.
const (
	DefaultDistanceResolution = 0.1 // meters per distance bucket
	DefaultMaxDistance        = 25  // meters
	DefaultReflectionOrder    = 2
	DefaultSpeedOfSound       = 340 // m/s
)

// Validation errors.
var (
	ErrInvalidSampleRate      = core.ErrInvalidSampleRate
	ErrInvalidBlockSize       = core.ErrInvalidBlockSize
	ErrInvalidResolution      = errors.New("config: distance resolution must be > 0")
	ErrInvalidMaxDistance     = errors.New("config: max distance must be > 0")
	ErrInvalidReflectionOrder = errors.New("config: reflection order must be >= 0")
	ErrInvalidSpeedOfSound    = errors.New("config: speed of sound must be > 0")
	ErrInvalidReverbTime      = errors.New("config: reverb time must be >= 0")
)

// Config describes a rendering setup.
type Config struct {
	core.ProcessorConfig

	// DistanceResolution is the width of one HRTF distance bucket in meters.
	DistanceResolution float64
	// MaxDistance is the farthest distance with its own bucket; sources
	// beyond it are rendered at MaxDistance.
	MaxDistance float64
	// ReflectionOrder bounds the image-source expansion depth.
	ReflectionOrder int
	// SpeedOfSound in m/s, used for propagation delays.
	SpeedOfSound float64
	// ReverbTime is the 60 dB decay time of the late reverb tail in
	// seconds. Zero disables the tail.
	ReverbTime float64
}

// Option mutates a Config.
type Option func(*Config)

// Default returns the default configuration.
func Default() Config {
	return Config{
		ProcessorConfig:    core.DefaultProcessorConfig(),
		DistanceResolution: DefaultDistanceResolution,
		MaxDistance:        DefaultMaxDistance,
		ReflectionOrder:    DefaultReflectionOrder,
		SpeedOfSound:       DefaultSpeedOfSound,
	}
}

// New applies opts over Default and validates the result.
func New(opts ...Option) (Config, error) {
	cfg := Default()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithSampleRate sets the runtime sample rate in Hz.
func WithSampleRate(rate float64) Option {
	return func(c *Config) { c.SampleRate = rate }
}

// WithBlockSize sets the render block size in samples.
func WithBlockSize(n int) Option {
	return func(c *Config) { c.BlockSize = n }
}

// WithDistanceResolution sets the distance bucket width in meters.
func WithDistanceResolution(m float64) Option {
	return func(c *Config) { c.DistanceResolution = m }
}

// WithMaxDistance sets the maximum rendered distance in meters.
func WithMaxDistance(m float64) Option {
	return func(c *Config) { c.MaxDistance = m }
}

// WithReflectionOrder sets the image-source expansion depth.
func WithReflectionOrder(order int) Option {
	return func(c *Config) { c.ReflectionOrder = order }
}

// WithSpeedOfSound sets the propagation speed in m/s.
func WithSpeedOfSound(v float64) Option {
	return func(c *Config) { c.SpeedOfSound = v }
}

// WithReverbTime enables the late reverb tail with the given decay time.
func WithReverbTime(seconds float64) Option {
	return func(c *Config) { c.ReverbTime = seconds }
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := c.ProcessorConfig.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !positive(c.DistanceResolution) {
		return fmt.Errorf("%w: %v", ErrInvalidResolution, c.DistanceResolution)
	}
	if !positive(c.MaxDistance) {
		return fmt.Errorf("%w: %v", ErrInvalidMaxDistance, c.MaxDistance)
	}
	if c.ReflectionOrder < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidReflectionOrder, c.ReflectionOrder)
	}
	if !positive(c.SpeedOfSound) {
		return fmt.Errorf("%w: %v", ErrInvalidSpeedOfSound, c.SpeedOfSound)
	}
	if c.ReverbTime < 0 || !core.IsFinite(c.ReverbTime) {
		return fmt.Errorf("%w: %v", ErrInvalidReverbTime, c.ReverbTime)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
