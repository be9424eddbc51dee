package hrtf

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrEmptyDataset is returned for a dataset without measurements.
	ErrEmptyDataset = errors.New("hrtf: dataset has no measurements")
	// ErrInvalidDataset is returned for inconsistent dataset contents.
	ErrInvalidDataset = errors.New("hrtf: invalid dataset")
	// ErrFilterTooLong is returned when a resampled impulse response does not
	// fit into one render block.
	ErrFilterTooLong = errors.New("hrtf: filter longer than block size")
	// ErrNoMeasurements is returned by loaders that found no usable files.
	ErrNoMeasurements = errors.New("hrtf: no measurement files found")
)

// Measurement is one stereo impulse response pair.
type Measurement struct {
	ElevationDeg float64
	AzimuthDeg   float64
	Left         []float64
	Right        []float64
}

// Dataset is an immutable table of measurements recorded at a single rate
// and distance.
type Dataset struct {
	Name string
	// SampleRate of the impulse responses in Hz.
	SampleRate float64
	// Distance between the loudspeaker and the head center in meters.
	Distance     float64
	Measurements []Measurement
}

// FilterLen returns the impulse response length, or 0 for an empty dataset.
func (d *Dataset) FilterLen() int {
	if len(d.Measurements) == 0 {
		return 0
	}
	return len(d.Measurements[0].Left)
}

// Validate checks that all measurements share one length, lie on the
// recorded hemisphere and contain finite samples.
func (d *Dataset) Validate() error {
	if len(d.Measurements) == 0 {
		return ErrEmptyDataset
	}
	if !(d.SampleRate > 0) || math.IsInf(d.SampleRate, 1) {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidDataset, d.SampleRate)
	}
	if !(d.Distance > 0) || math.IsInf(d.Distance, 1) {
		return fmt.Errorf("%w: recording distance %v", ErrInvalidDataset, d.Distance)
	}

	n := d.FilterLen()
	if n == 0 {
		return fmt.Errorf("%w: empty impulse response", ErrInvalidDataset)
	}

	for i, m := range d.Measurements {
		if len(m.Left) != n || len(m.Right) != n {
			return fmt.Errorf("%w: measurement %d has lengths %d/%d, want %d",
				ErrInvalidDataset, i, len(m.Left), len(m.Right), n)
		}
		if !(m.ElevationDeg >= -90 && m.ElevationDeg <= 90) {
			return fmt.Errorf("%w: measurement %d elevation %v", ErrInvalidDataset, i, m.ElevationDeg)
		}
		if !(m.AzimuthDeg >= 0 && m.AzimuthDeg <= 180) {
			return fmt.Errorf("%w: measurement %d azimuth %v outside [0, 180]", ErrInvalidDataset, i, m.AzimuthDeg)
		}
		if floats.HasNaN(m.Left) || floats.HasNaN(m.Right) ||
			math.IsInf(floats.Sum(m.Left), 0) || math.IsInf(floats.Sum(m.Right), 0) {
			return fmt.Errorf("%w: measurement %d contains non-finite samples", ErrInvalidDataset, i)
		}
	}

	return nil
}
