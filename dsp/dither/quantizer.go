package dither

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Quantizer maps float samples to dithered integer PCM.
//
// Quantizer is not safe for concurrent use.
type Quantizer struct {
	bitDepth  int
	amplitude float64
	peak      float64
	lo, hi    int

	state   *vecmath.DitherState
	scratch []float64
}

// NewQuantizer creates a quantizer. The default is 16 bit with 1 LSB TPDF
// dither and seed 0.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := config{bitDepth: defaultBitDepth, amplitude: defaultAmplitude}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	peak := math.Exp2(float64(cfg.bitDepth-1)) - 1
	return &Quantizer{
		bitDepth:  cfg.bitDepth,
		amplitude: cfg.amplitude,
		peak:      peak,
		lo:        -int(peak) - 1,
		hi:        int(peak),
		state:     vecmath.NewDitherState(cfg.seed),
	}, nil
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// Amplitude returns the dither amplitude in LSB.
func (q *Quantizer) Amplitude() float64 { return q.amplitude }

// Peak returns the integer value of a full-scale sample, 2^(bits-1)-1.
func (q *Quantizer) Peak() int { return q.hi }

// Quantize writes the PCM values of src into dst. Values beyond full scale
// saturate. Panics if the lengths differ.
func (q *Quantizer) Quantize(dst []int, src []float64) {
	if len(dst) != len(src) {
		panic(fmt.Sprintf("dither: quantize %d samples into %d", len(src), len(dst)))
	}

	if cap(q.scratch) < len(src) {
		q.scratch = make([]float64, len(src))
	}
	scaled := q.scratch[:len(src)]

	vecmath.ScaleBlock(scaled, src, q.peak)
	if q.amplitude > 0 {
		vecmath.AddDitherTPDF(scaled, q.amplitude, q.state)
	}

	for i, v := range scaled {
		dst[i] = max(q.lo, min(q.hi, int(math.Round(v))))
	}
}
