package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Crossfade holds a complementary fade-in/fade-out window pair of fixed
// length and a scratch buffer for mixing.
type Crossfade struct {
	fadeIn  []float64
	fadeOut []float64
	scratch []float64
}

// NewCrossfade creates a window pair of the given length.
func NewCrossfade(size int) (*Crossfade, error) {
	if err := validateCrossfadeLength(size); err != nil {
		return nil, err
	}

	fadeIn := SquaredSine(size)
	fadeOut := make([]float64, size)
	for i := range fadeOut {
		fadeOut[i] = fadeIn[size-1-i]
	}

	return &Crossfade{
		fadeIn:  fadeIn,
		fadeOut: fadeOut,
		scratch: make([]float64, size),
	}, nil
}

// Len returns the window length.
func (c *Crossfade) Len() int { return len(c.fadeIn) }

// FadeIn returns a copy of the rising window.
func (c *Crossfade) FadeIn() []float64 {
	return append([]float64(nil), c.fadeIn...)
}

// FadeOut returns a copy of the falling window.
func (c *Crossfade) FadeOut() []float64 {
	return append([]float64(nil), c.fadeOut...)
}

// Mix writes from·fadeOut + to·fadeIn into dst. dst may alias either input.
// Panics if the lengths differ from Len.
func (c *Crossfade) Mix(dst, from, to []float64) {
	n := len(c.fadeIn)
	if len(dst) != n || len(from) != n || len(to) != n {
		panic(fmt.Sprintf("%v: dst=%d from=%d to=%d window=%d", errMismatchedLength, len(dst), len(from), len(to), n))
	}

	vecmath.MulBlock(c.scratch, to, c.fadeIn)
	vecmath.MulBlock(dst, from, c.fadeOut)
	vecmath.AddBlockInPlace(dst, c.scratch)
}

// SquaredSine returns the rising squared raised-sine window of length size.
// The first half is evaluated directly and the second half is its complement,
// so w[i] + w[size-1-i] == 1 holds exactly. Returns nil for size < 2.
func SquaredSine(size int) []float64 {
	if size < 2 {
		return nil
	}

	w := make([]float64, size)
	scale := math.Pi / (2 * float64(size-1))
	for i := 0; i < size/2; i++ {
		s := math.Sin(float64(i) * scale)
		w[i] = s * s
		w[size-1-i] = 1 - w[i]
	}
	if size%2 == 1 {
		w[size/2] = 0.5
	}

	return w
}
