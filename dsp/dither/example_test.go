package dither_test

import (
	"fmt"

	"github.com/cwbudde/algo-binaural/dsp/dither"
)

func ExampleQuantizer() {
	q, err := dither.NewQuantizer(dither.WithBitDepth(16), dither.WithAmplitude(0))
	if err != nil {
		panic(err)
	}

	pcm := make([]int, 4)
	q.Quantize(pcm, []float64{0, 0.5, -1, 1.5})
	fmt.Println(pcm)
	// Output: [0 16384 -32767 32767]
}
