package render

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-binaural/spatial/config"
	"github.com/cwbudde/algo-binaural/spatial/hrtf"
	"github.com/cwbudde/algo-binaural/spatial/reverb"
	"github.com/cwbudde/algo-binaural/spatial/room"
)

// slot is the filter choice for one expansion entry.
type slot struct {
	visible    bool
	assignment hrtf.Assignment
	damping    float64
}

// Renderer renders a room with one source and one listener.
type Renderer struct {
	cfg   config.Config
	bank  *hrtf.Bank
	model *room.Model
	tail  *reverb.Tail
	out   *binaural

	generation uint64
	entries    []room.Entry
	slots      []slot

	kernels [2][]complex128
}

// New creates a renderer over a fresh room.Model with cfg.ReflectionOrder.
// Walls and positions are set through Model.
func New(cfg config.Config, bank *hrtf.Bank, opts ...Option) (*Renderer, error) {
	o, out, err := setup(cfg, bank, opts)
	if err != nil {
		return nil, err
	}

	model, err := room.NewModel(cfg.ReflectionOrder)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	r := &Renderer{
		cfg:   cfg,
		bank:  bank,
		model: model,
		tail:  o.tail,
		out:   out,
		kernels: [2][]complex128{
			make([]complex128, out.bins()),
			make([]complex128, out.bins()),
		},
	}

	o.logger.WithFields(logrus.Fields{
		"function":         "New",
		"sample_rate":      cfg.SampleRate,
		"block_size":       cfg.BlockSize,
		"reflection_order": cfg.ReflectionOrder,
		"reverb":           r.tail != nil,
	}).Info("Room renderer ready")

	return r, nil
}

// Model returns the room geometry. Changes take effect on the next
// RenderBlock.
func (r *Renderer) Model() *room.Model { return r.model }

// BlockSize returns the block length.
func (r *Renderer) BlockSize() int { return r.cfg.BlockSize }

// State returns the crossfade state of the last rendered block.
func (r *Renderer) State() State { return r.out.state }

// Sources returns the expansion used for the last rendered block.
func (r *Renderer) Sources() []room.Entry {
	return append([]room.Entry(nil), r.entries...)
}

// Assignments returns the filter assignment of every entry of Sources. Pruned
// entries have the zero Assignment.
func (r *Renderer) Assignments() []hrtf.Assignment {
	out := make([]hrtf.Assignment, len(r.slots))
	for i, s := range r.slots {
		out[i] = s.assignment
	}
	return out
}

// RenderBlock renders one block of mono input into left and right. All three
// slices must have BlockSize samples.
func (r *Renderer) RenderBlock(input, left, right []float64) {
	if entries, gen, changed := r.model.Refresh(r.generation); changed {
		r.generation = gen
		r.entries = entries
		if r.resolve() {
			r.mix()
			r.out.queue(r.kernels[earLeft], r.kernels[earRight])
		}
	}

	r.out.process(input, left, right)

	if r.tail != nil {
		r.tail.Process(left, right, input)
	}
}

// resolve assigns filters to the current entries and reports whether any
// assignment differs from the previous block.
func (r *Renderer) resolve() bool {
	changed := len(r.slots) != len(r.entries)
	if changed {
		r.slots = make([]slot, len(r.entries))
	}

	listener := r.model.ListenerPosition()
	for i, e := range r.entries {
		var s slot
		if src, ok := e.Source(); ok {
			s = slot{
				visible:    true,
				assignment: r.bank.Resolve(src.Position.Sub(listener)),
				damping:    src.Damping,
			}
		}
		if s != r.slots[i] {
			r.slots[i] = s
			changed = true
		}
	}

	return changed
}

// mix sums the damped filter pairs of all visible entries.
func (r *Renderer) mix() {
	clear(r.kernels[earLeft])
	clear(r.kernels[earRight])
	for _, s := range r.slots {
		if s.visible {
			r.bank.MixInto(r.kernels[earLeft], r.kernels[earRight], s.assignment, s.damping)
		}
	}
}

// Reset clears the audio state. The geometry is kept and re-resolved on the
// next block.
func (r *Renderer) Reset() {
	r.out.reset()
	if r.tail != nil {
		r.tail.Reset()
	}
	r.generation = 0
	r.entries = nil
	r.slots = nil
}
