package render

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-binaural/spatial/config"
	"github.com/cwbudde/algo-binaural/spatial/geom"
	"github.com/cwbudde/algo-binaural/spatial/hrtf"
	"github.com/cwbudde/algo-binaural/spatial/reverb"
)

type direction struct {
	elevation, azimuth, distance float64
}

// Source renders a single source without walls. The source starts straight
// ahead at the recording distance of the bank.
type Source struct {
	bank *hrtf.Bank
	tail *reverb.Tail
	out  *binaural

	dir        direction
	dirty      bool
	assigned   bool
	assignment hrtf.Assignment

	kernels [2][]complex128
}

// NewSource creates a single-source renderer.
func NewSource(cfg config.Config, bank *hrtf.Bank, opts ...Option) (*Source, error) {
	o, out, err := setup(cfg, bank, opts)
	if err != nil {
		return nil, err
	}

	s := &Source{
		bank:  bank,
		tail:  o.tail,
		out:   out,
		dir:   direction{distance: bank.RecordingDistance()},
		dirty: true,
		kernels: [2][]complex128{
			make([]complex128, out.bins()),
			make([]complex128, out.bins()),
		},
	}

	o.logger.WithFields(logrus.Fields{
		"function":   "NewSource",
		"block_size": cfg.BlockSize,
		"reverb":     s.tail != nil,
	}).Info("Source renderer ready")

	return s, nil
}

// SetDirection places the source at the given elevation and azimuth in
// degrees and distance in meters. Positive azimuths are to the right.
func (s *Source) SetDirection(elevationDeg, azimuthDeg, distance float64) {
	d := direction{elevation: elevationDeg, azimuth: azimuthDeg, distance: distance}
	if d == s.dir {
		return
	}
	s.dir = d
	s.dirty = true
}

// SetPosition places the source at rel, relative to the listener.
func (s *Source) SetPosition(rel geom.Vec3) {
	s.SetDirection(hrtf.Direction(rel))
}

// Assignment returns the filter assignment used for the last rendered block.
func (s *Source) Assignment() hrtf.Assignment { return s.assignment }

// State returns the crossfade state of the last rendered block.
func (s *Source) State() State { return s.out.state }

// BlockSize returns the block length.
func (s *Source) BlockSize() int { return s.out.blockSize }

// RenderBlock renders one block of mono input into left and right.
func (s *Source) RenderBlock(input, left, right []float64) {
	if s.dirty {
		s.dirty = false
		a := s.bank.ResolveDirection(s.dir.elevation, s.dir.azimuth, s.dir.distance)
		if !s.assigned || a != s.assignment {
			s.assigned = true
			s.assignment = a

			clear(s.kernels[earLeft])
			clear(s.kernels[earRight])
			s.bank.MixInto(s.kernels[earLeft], s.kernels[earRight], a, 1)
			s.out.queue(s.kernels[earLeft], s.kernels[earRight])
		}
	}

	s.out.process(input, left, right)

	if s.tail != nil {
		s.tail.Process(left, right, input)
	}
}
