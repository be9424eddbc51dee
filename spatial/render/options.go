package render

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-binaural/spatial/config"
	"github.com/cwbudde/algo-binaural/spatial/hrtf"
	"github.com/cwbudde/algo-binaural/spatial/reverb"
)

var (
	// ErrNilBank is returned when no HRTF bank is given.
	ErrNilBank = errors.New("render: nil HRTF bank")
	// ErrBlockSizeMismatch is returned when the bank was built for another
	// block size than the configuration.
	ErrBlockSizeMismatch = errors.New("render: bank block size differs from config")
)

type options struct {
	tail   *reverb.Tail
	logger logrus.FieldLogger
}

// Option configures New and NewSource.
type Option func(*options)

// WithReverb adds tail to the output. It replaces the tail that a positive
// Config.ReverbTime would create.
func WithReverb(tail *reverb.Tail) Option {
	return func(o *options) { o.tail = tail }
}

// WithLogger sets the logger used during construction.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.logger = l }
}

// setup validates the shared constructor arguments and resolves the reverb
// tail.
func setup(cfg config.Config, bank *hrtf.Bank, opts []Option) (options, *binaural, error) {
	o := options{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return o, nil, fmt.Errorf("render: %w", err)
	}
	if bank == nil {
		return o, nil, ErrNilBank
	}
	if bank.BlockSize() != cfg.BlockSize {
		return o, nil, fmt.Errorf("%w: bank %d, config %d", ErrBlockSizeMismatch, bank.BlockSize(), cfg.BlockSize)
	}

	if o.tail == nil && cfg.ReverbTime > 0 {
		tail, err := reverb.NewTail(cfg.BlockSize, cfg.SampleRate, cfg.ReverbTime, reverb.WithLogger(o.logger))
		if err != nil {
			return o, nil, fmt.Errorf("render: %w", err)
		}
		o.tail = tail
	}
	if o.tail != nil && o.tail.BlockSize() != cfg.BlockSize {
		return o, nil, fmt.Errorf("%w: reverb %d, config %d", ErrBlockSizeMismatch, o.tail.BlockSize(), cfg.BlockSize)
	}

	b, err := newBinaural(cfg.BlockSize)
	if err != nil {
		return o, nil, err
	}

	return o, b, nil
}
