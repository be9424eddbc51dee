package hrtf

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-binaural/dsp/conv"
	"github.com/cwbudde/algo-binaural/dsp/core"
	"github.com/cwbudde/algo-binaural/dsp/resample"
	"github.com/cwbudde/algo-binaural/spatial/config"
	"github.com/cwbudde/algo-binaural/spatial/geom"
	"github.com/cwbudde/algo-binaural/spatial/sphere"
)

// bucketEpsilon absorbs rounding in (max-rec)/resolution so that an exact
// multiple of the resolution gets its own bucket.
const bucketEpsilon = 1e-9

// DefaultWarnMB is the spectrum table size above which NewBank logs a warning.
const DefaultWarnMB = 1024

type bankConfig struct {
	resampler resample.Resampler
	logger    logrus.FieldLogger
	workers   int
	warnMB    float64
}

// BankOption configures NewBank.
type BankOption func(*bankConfig)

// WithResampler replaces the default sinc resampler.
func WithResampler(r resample.Resampler) BankOption {
	return func(c *bankConfig) { c.resampler = r }
}

// WithLogger sets the logger used during construction.
func WithLogger(l logrus.FieldLogger) BankOption {
	return func(c *bankConfig) { c.logger = l }
}

// WithWorkers bounds the number of goroutines used to precompute spectra.
// Values < 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) BankOption {
	return func(c *bankConfig) { c.workers = n }
}

// WithMemoryWarning sets the spectrum table size in MiB above which NewBank
// warns. Values <= 0 disable the warning.
func WithMemoryWarning(mb float64) BankOption {
	return func(c *bankConfig) { c.warnMB = mb }
}

// Orientation is a measured direction of the dataset.
type Orientation struct {
	ElevationDeg float64
	AzimuthDeg   float64
}

// Bank is the precomputed filter table. It is immutable after construction
// and safe for concurrent lookups.
type Bank struct {
	blockSize    int
	bins         int
	filterLen    int
	buckets      int
	recording    float64
	maxDistance  float64
	resolution   float64
	orientations []Orientation
	index        *sphere.Index

	// spectra[(o*buckets+b)*2+ear] holds bins values
	spectra [][]complex64
}

// NewBank builds the filter table for cfg from ds.
func NewBank(ds *Dataset, cfg config.Config, opts ...BankOption) (*Bank, error) {
	bc := bankConfig{
		logger:  logrus.StandardLogger(),
		workers: runtime.GOMAXPROCS(0),
		warnMB:  DefaultWarnMB,
	}
	for _, opt := range opts {
		opt(&bc)
	}
	if bc.workers < 1 {
		bc.workers = runtime.GOMAXPROCS(0)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("hrtf: %w", err)
	}
	if ds == nil {
		return nil, ErrEmptyDataset
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxDistance < ds.Distance {
		return nil, fmt.Errorf("hrtf: %w: %v is below the recording distance %v",
			config.ErrInvalidMaxDistance, cfg.MaxDistance, ds.Distance)
	}

	if bc.resampler == nil {
		s, err := resample.NewSinc(resample.WithInputRate(ds.SampleRate))
		if err != nil {
			return nil, fmt.Errorf("hrtf: %w", err)
		}
		bc.resampler = s
	}

	start := time.Now()
	log := bc.logger.WithFields(logrus.Fields{
		"function": "NewBank",
		"dataset":  ds.Name,
	})

	left, right, err := resampleDataset(ds, cfg.SampleRate/ds.SampleRate, bc.resampler)
	if err != nil {
		return nil, err
	}
	filterLen := len(left[0])
	if filterLen > cfg.BlockSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrFilterTooLong, filterLen, cfg.BlockSize)
	}

	b := &Bank{
		blockSize:    cfg.BlockSize,
		bins:         cfg.BlockSize + 1,
		filterLen:    filterLen,
		buckets:      int(math.Floor((cfg.MaxDistance-ds.Distance)/cfg.DistanceResolution+bucketEpsilon)) + 1,
		recording:    ds.Distance,
		maxDistance:  cfg.MaxDistance,
		resolution:   cfg.DistanceResolution,
		orientations: make([]Orientation, len(ds.Measurements)),
	}

	points := make([]geom.Vec3, len(ds.Measurements))
	for i, m := range ds.Measurements {
		b.orientations[i] = Orientation{ElevationDeg: m.ElevationDeg, AzimuthDeg: m.AzimuthDeg}
		points[i] = sphere.UnitVector(m.ElevationDeg, m.AzimuthDeg)
	}
	if b.index, err = sphere.NewIndex(points); err != nil {
		return nil, fmt.Errorf("hrtf: %w", err)
	}

	spectrumMB := float64(len(b.orientations)*b.buckets*2*b.bins*8) / (1 << 20)
	fields := log.WithFields(logrus.Fields{
		"orientations": len(b.orientations),
		"buckets":      b.buckets,
		"filter_len":   filterLen,
		"block_size":   cfg.BlockSize,
		"spectrum_mb":  spectrumMB,
	})
	if bc.warnMB > 0 && spectrumMB > bc.warnMB {
		fields.Warn("Large HRTF spectrum table")
	}
	fields.Info("Precomputing HRTF spectra")

	if err := b.precompute(left, right, cfg, bc.workers); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"elapsed": time.Since(start).String(),
	}).Info("HRTF bank ready")

	return b, nil
}

func resampleDataset(ds *Dataset, ratio float64, r resample.Resampler) (left, right [][]float64, err error) {
	left = make([][]float64, len(ds.Measurements))
	right = make([][]float64, len(ds.Measurements))

	for i, m := range ds.Measurements {
		if left[i], err = r.Resample(m.Left, ratio); err != nil {
			return nil, nil, fmt.Errorf("hrtf: resample measurement %d: %w", i, err)
		}
		if right[i], err = r.Resample(m.Right, ratio); err != nil {
			return nil, nil, fmt.Errorf("hrtf: resample measurement %d: %w", i, err)
		}
		if len(left[i]) != len(left[0]) || len(right[i]) != len(left[0]) || len(left[0]) == 0 {
			return nil, nil, fmt.Errorf("%w: resampled lengths differ at measurement %d", ErrInvalidDataset, i)
		}
	}

	return left, right, nil
}

// precompute fills the spectrum table, one orientation per job.
func (b *Bank) precompute(left, right [][]float64, cfg config.Config, workers int) error {
	b.spectra = make([][]complex64, len(b.orientations)*b.buckets*2)

	jobs := make(chan int)
	errs := make(chan error, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			f, err := conv.NewOverlapAddFilter(cfg.BlockSize)
			if err != nil {
				errs <- fmt.Errorf("hrtf: %w", err)
				for range jobs {
				}
				return
			}
			shifted := make([]float64, cfg.BlockSize)
			spectrum := make([]complex128, f.Bins())

			for o := range jobs {
				for bucket := 0; bucket < b.buckets; bucket++ {
					dist := b.BucketDistance(bucket)
					delay := int(dist / cfg.SpeedOfSound * cfg.SampleRate)
					damping := core.Clamp(b.recording/dist, 0, 1)

					for ear, ir := range [2][]float64{left[o], right[o]} {
						shiftAndDamp(shifted, ir, delay, damping)
						f.ForwardTransform(spectrum, shifted)
						b.spectra[b.slot(o, bucket, ear)] = toComplex64(spectrum)
					}
				}
			}
		}()
	}

	for o := range b.orientations {
		jobs <- o
	}
	close(jobs)
	wg.Wait()
	close(errs)

	return <-errs
}

// shiftAndDamp writes ir delayed by delay samples and scaled by damping into
// dst. Samples pushed past len(dst) are dropped.
func shiftAndDamp(dst, ir []float64, delay int, damping float64) {
	clear(dst)
	if delay >= len(dst) {
		return
	}
	n := min(len(ir), len(dst)-delay)
	floats.ScaleTo(dst[delay:delay+n], damping, ir[:n])
}

func toComplex64(src []complex128) []complex64 {
	out := make([]complex64, len(src))
	for i, v := range src {
		out[i] = complex64(v)
	}
	return out
}

func (b *Bank) slot(orientation, bucket, ear int) int {
	return (orientation*b.buckets+bucket)*2 + ear
}

// BlockSize returns the render block size N the spectra were built for.
func (b *Bank) BlockSize() int { return b.blockSize }

// Bins returns the spectrum length N+1.
func (b *Bank) Bins() int { return b.bins }

// FilterLen returns the resampled impulse response length.
func (b *Bank) FilterLen() int { return b.filterLen }

// Buckets returns the number of distance buckets.
func (b *Bank) Buckets() int { return b.buckets }

// RecordingDistance returns the dataset's recording distance.
func (b *Bank) RecordingDistance() float64 { return b.recording }

// Orientations returns the number of measured orientations.
func (b *Bank) Orientations() int { return len(b.orientations) }

// Orientation returns the measured direction with index i.
func (b *Bank) Orientation(i int) Orientation { return b.orientations[i] }

// BucketDistance returns the distance rendered by bucket i.
func (b *Bank) BucketDistance(i int) float64 {
	return b.recording + float64(i)*b.resolution
}

// BucketIndex clamps d into [RecordingDistance, max distance] and returns
// the bucket at or below it.
func (b *Bank) BucketIndex(d float64) int {
	d = core.Clamp(d, b.recording, b.maxDistance)
	i := int(math.Floor((d-b.recording)/b.resolution + bucketEpsilon))
	return max(0, min(i, b.buckets-1))
}

// Resolve maps a listener-relative source offset to a filter assignment.
func (b *Bank) Resolve(rel geom.Vec3) Assignment {
	return b.ResolveDirection(Direction(rel))
}

// ResolveDirection maps elevation and azimuth in degrees and a distance in
// meters to a filter assignment. Negative azimuths are mirrored onto the
// recorded hemisphere with EarSwap set.
func (b *Bank) ResolveDirection(elevationDeg, azimuthDeg, distance float64) Assignment {
	az, swap := foldAzimuth(azimuthDeg)
	return Assignment{
		Orientation: b.index.Nearest(sphere.UnitVector(elevationDeg, az)),
		Distance:    b.BucketIndex(distance),
		EarSwap:     swap,
	}
}

// LeftFilter returns the left-ear spectrum for a. The slice is shared and
// must not be modified.
func (b *Bank) LeftFilter(a Assignment) []complex64 {
	if a.EarSwap {
		return b.spectra[b.slot(a.Orientation, a.Distance, 1)]
	}
	return b.spectra[b.slot(a.Orientation, a.Distance, 0)]
}

// RightFilter returns the right-ear spectrum for a. The slice is shared and
// must not be modified.
func (b *Bank) RightFilter(a Assignment) []complex64 {
	if a.EarSwap {
		return b.spectra[b.slot(a.Orientation, a.Distance, 0)]
	}
	return b.spectra[b.slot(a.Orientation, a.Distance, 1)]
}

// MixInto adds gain times the filter pair of a to left and right, which must
// have Bins elements each.
func (b *Bank) MixInto(left, right []complex128, a Assignment, gain float64) {
	if len(left) != b.bins || len(right) != b.bins {
		panic(fmt.Sprintf("hrtf: mix into %d/%d bins, want %d", len(left), len(right), b.bins))
	}
	g := complex(gain, 0)
	for i, v := range b.LeftFilter(a) {
		left[i] += g * complex128(v)
	}
	for i, v := range b.RightFilter(a) {
		right[i] += g * complex128(v)
	}
}
