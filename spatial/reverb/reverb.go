package reverb

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-binaural/dsp/conv"
)

// decayFloor is the envelope level reached after one reverb time (-60 dB).
const decayFloor = 1e-3

// DefaultGain is the energy of each impulse response relative to the dry
// signal.
const DefaultGain = 0.1

var (
	// ErrInvalidReverbTime is returned for a non-positive or non-finite
	// reverb time.
	ErrInvalidReverbTime = errors.New("reverb: reverb time must be > 0")
	// ErrInvalidSampleRate is returned for a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("reverb: sample rate must be > 0")
	// ErrInvalidGain is returned for a negative or non-finite gain.
	ErrInvalidGain = errors.New("reverb: gain must be >= 0")
)

type options struct {
	seed   uint64
	gain   float64
	logger logrus.FieldLogger
}

// Option configures NewTail.
type Option func(*options)

// WithSeed selects the noise sequence. Equal seeds give equal tails.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithGain sets the energy of each impulse response. Default DefaultGain.
func WithGain(gain float64) Option {
	return func(o *options) { o.gain = gain }
}

// WithLogger sets the logger used during construction.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.logger = l }
}

// Tail renders the reverberant part of a stereo mix.
//
// Tail is not safe for concurrent use.
type Tail struct {
	blockSize  int
	sampleRate float64
	quiet      int
	irs        [2][]float64
	filters    [2]*conv.OverlapAddFilter
	// pending holds the tail computed from the previous input block.
	pending [2][]float64
}

// NewTail creates a tail for blocks of blockSize samples. reverbTime is the
// time in seconds for the envelope to fall by 60 dB.
func NewTail(blockSize int, sampleRate, reverbTime float64, opts ...Option) (*Tail, error) {
	o := options{
		gain:   DefaultGain,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !(sampleRate > 0) || math.IsInf(sampleRate, 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}
	if !(reverbTime > 0) || math.IsInf(reverbTime, 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReverbTime, reverbTime)
	}
	if !(o.gain >= 0) || math.IsInf(o.gain, 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGain, o.gain)
	}

	t := &Tail{
		blockSize:  blockSize,
		sampleRate: sampleRate,
		quiet:      blockSize,
	}

	for ch := range t.filters {
		f, err := conv.NewOverlapAddFilter(blockSize)
		if err != nil {
			return nil, fmt.Errorf("reverb: %w", err)
		}
		t.filters[ch] = f
		t.pending[ch] = make([]float64, blockSize)
	}

	rng := rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))
	for ch := range t.irs {
		t.irs[ch] = decayingNoise(rng, blockSize, t.quiet, sampleRate, reverbTime, o.gain)
		t.filters[ch].SetTimeDomainKernel(t.irs[ch])
	}

	o.logger.WithFields(logrus.Fields{
		"function":     "NewTail",
		"block_size":   blockSize,
		"reverb_time":  reverbTime,
		"quiet_period": t.QuietPeriod(),
		"gain":         o.gain,
	}).Debug("Reverb tail ready")

	return t, nil
}

// decayingNoise returns n samples of zero-mean uniform noise under the
// envelope exp(ln(decayFloor)·(i+quiet)/sampleRate/reverbTime), scaled to
// energy gain.
func decayingNoise(rng *rand.Rand, n, quiet int, sampleRate, reverbTime, gain float64) []float64 {
	ir := make([]float64, n)
	decay := math.Log(decayFloor) / sampleRate / reverbTime
	for i := range ir {
		ir[i] = (2*rng.Float64() - 1) * math.Exp(decay*float64(i+quiet))
	}

	energy := vecmath.DotProduct(ir, ir)
	if energy > 0 {
		vecmath.ScaleBlockInPlace(ir, math.Sqrt(gain/energy))
	}
	return ir
}

// BlockSize returns the block length.
func (t *Tail) BlockSize() int { return t.blockSize }

// QuietPeriod returns the pre-delay before the tail sets in, in seconds.
func (t *Tail) QuietPeriod() float64 {
	return float64(t.quiet) / t.sampleRate
}

// ImpulseResponses returns copies of the left and right impulse responses.
func (t *Tail) ImpulseResponses() (left, right []float64) {
	return append([]float64(nil), t.irs[0]...), append([]float64(nil), t.irs[1]...)
}

// Process adds the tail of all previous input blocks to left and right and
// feeds input into the reverb filters. The contribution of input appears one
// call later. Panics if a length differs from BlockSize.
func (t *Tail) Process(left, right, input []float64) {
	if len(left) != t.blockSize || len(right) != t.blockSize || len(input) != t.blockSize {
		panic(fmt.Sprintf("reverb: block lengths %d/%d/%d, want %d", len(left), len(right), len(input), t.blockSize))
	}

	vecmath.AddBlockInPlace(left, t.pending[0])
	vecmath.AddBlockInPlace(right, t.pending[1])

	t.filters[0].ProcessBlock(t.pending[0], input)
	t.filters[1].ProcessBlock(t.pending[1], input)
}

// Reset clears the filter state and the pending output. The impulse
// responses are kept.
func (t *Tail) Reset() {
	for ch, f := range t.filters {
		f.Reset()
		f.SetTimeDomainKernel(t.irs[ch])
		clear(t.pending[ch])
	}
}
