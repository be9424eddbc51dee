package render

import (
	"fmt"

	"github.com/cwbudde/algo-binaural/dsp/conv"
	"github.com/cwbudde/algo-binaural/dsp/window"
)

const (
	earLeft = iota
	earRight
)

// binaural convolves one input stream with a left and a right filter and
// crossfades whenever new filters are queued.
type binaural struct {
	blockSize int
	filters   [2]*conv.OverlapAddFilter
	fade      *window.Crossfade

	prev    []float64       // previous input block
	old     [2][]float64    // output of the outgoing filters
	next    [2][]complex128 // queued kernels
	pending bool
	state   State
}

func newBinaural(blockSize int) (*binaural, error) {
	b := &binaural{
		blockSize: blockSize,
		prev:      make([]float64, blockSize),
	}

	for ch := range b.filters {
		f, err := conv.NewOverlapAddFilter(blockSize)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		b.filters[ch] = f
		b.old[ch] = make([]float64, blockSize)
		b.next[ch] = make([]complex128, f.Bins())
	}

	fade, err := window.NewCrossfade(blockSize)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	b.fade = fade

	return b, nil
}

// bins returns the kernel length expected by queue.
func (b *binaural) bins() int { return b.filters[earLeft].Bins() }

// queue makes l and r the kernels of the next block. The spectra are copied.
func (b *binaural) queue(l, r []complex128) {
	copy(b.next[earLeft], l)
	copy(b.next[earRight], r)
	b.pending = true
}

func (b *binaural) process(input, l, r []float64) {
	if len(input) != b.blockSize || len(l) != b.blockSize || len(r) != b.blockSize {
		panic(fmt.Sprintf("render: block lengths %d/%d/%d, want %d", len(input), len(l), len(r), b.blockSize))
	}

	out := [2][]float64{l, r}

	if !b.pending {
		b.state = StateStable
		for ch, f := range b.filters {
			f.ProcessBlock(out[ch], input)
		}
		copy(b.prev, input)
		return
	}

	b.state = StateTransitioning
	for ch, f := range b.filters {
		f.ProcessBlock(b.old[ch], input)

		f.SetFrequencyDomainKernel(b.next[ch])
		f.AddSignalBlock(b.prev)
		f.ProcessBlock(out[ch], input)

		b.fade.Mix(out[ch], b.old[ch], out[ch])
	}
	b.pending = false
	copy(b.prev, input)
}

func (b *binaural) reset() {
	for _, f := range b.filters {
		f.Reset()
	}
	clear(b.prev)
	b.pending = false
	b.state = StateStable
}
