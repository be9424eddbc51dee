package hrtf

import (
	"bytes"
	"fmt"
	"io/fs"
	"math"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
)

// KEMARDistance is the loudspeaker distance of the MIT KEMAR measurements.
const KEMARDistance = 1.4

type loadConfig struct {
	name     string
	distance float64
	logger   logrus.FieldLogger
}

// LoadOption configures LoadKEMAR.
type LoadOption func(*loadConfig)

// WithDatasetName sets the dataset name. Default "mit-kemar".
func WithDatasetName(name string) LoadOption {
	return func(c *loadConfig) { c.name = name }
}

// WithRecordingDistance overrides the recording distance in meters.
func WithRecordingDistance(m float64) LoadOption {
	return func(c *loadConfig) { c.distance = m }
}

// WithLoadLogger sets the logger used while loading.
func WithLoadLogger(l logrus.FieldLogger) LoadOption {
	return func(c *loadConfig) { c.logger = l }
}

// LoadKEMAR reads the compact MIT KEMAR layout from fsys:
//
//	elev<E>/H<E>e<AAA>a.wav
//
// where E is the elevation in degrees and AAA the zero-padded azimuth. Each
// file is a stereo PCM WAV with the left ear in channel 0. Samples are scaled
// by 1/(2^(bits-1)-1). Measurements are ordered by elevation, then azimuth.
func LoadKEMAR(fsys fs.FS, opts ...LoadOption) (*Dataset, error) {
	cfg := loadConfig{
		name:     "mit-kemar",
		distance: KEMARDistance,
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	paths, err := fs.Glob(fsys, "elev*/H*e*a.wav")
	if err != nil {
		return nil, fmt.Errorf("hrtf: scan dataset: %w", err)
	}
	if len(paths) == 0 {
		return nil, ErrNoMeasurements
	}

	ds := &Dataset{Name: cfg.name, Distance: cfg.distance}
	for _, p := range paths {
		elevation, azimuth, err := parseKEMARPath(p)
		if err != nil {
			return nil, err
		}

		left, right, rate, err := readStereoWAV(fsys, p)
		if err != nil {
			return nil, err
		}

		if ds.SampleRate == 0 {
			ds.SampleRate = float64(rate)
		} else if float64(rate) != ds.SampleRate {
			return nil, fmt.Errorf("%w: %s has rate %d, want %v", ErrInvalidDataset, p, rate, ds.SampleRate)
		}

		ds.Measurements = append(ds.Measurements, Measurement{
			ElevationDeg: elevation,
			AzimuthDeg:   azimuth,
			Left:         left,
			Right:        right,
		})
	}

	sort.SliceStable(ds.Measurements, func(i, j int) bool {
		a, b := ds.Measurements[i], ds.Measurements[j]
		if a.ElevationDeg != b.ElevationDeg {
			return a.ElevationDeg < b.ElevationDeg
		}
		return a.AzimuthDeg < b.AzimuthDeg
	})

	if err := ds.Validate(); err != nil {
		return nil, err
	}

	cfg.logger.WithFields(logrus.Fields{
		"function":     "LoadKEMAR",
		"dataset":      ds.Name,
		"measurements": len(ds.Measurements),
		"sample_rate":  ds.SampleRate,
		"filter_len":   ds.FilterLen(),
	}).Info("Loaded HRTF dataset")

	return ds, nil
}

// parseKEMARPath extracts elevation and azimuth from elev<E>/H<E>e<AAA>a.wav.
func parseKEMARPath(p string) (elevation, azimuth float64, err error) {
	dirElev, err := strconv.Atoi(strings.TrimPrefix(path.Base(path.Dir(p)), "elev"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: directory of %s: %v", ErrInvalidDataset, p, err)
	}

	name := strings.TrimSuffix(strings.TrimPrefix(path.Base(p), "H"), "a.wav")
	sep := strings.LastIndex(name, "e")
	if sep <= 0 {
		return 0, 0, fmt.Errorf("%w: malformed file name %s", ErrInvalidDataset, p)
	}

	fileElev, err := strconv.Atoi(name[:sep])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: elevation of %s: %v", ErrInvalidDataset, p, err)
	}
	if fileElev != dirElev {
		return 0, 0, fmt.Errorf("%w: %s lies in elevation directory %d", ErrInvalidDataset, p, dirElev)
	}

	az, err := strconv.Atoi(name[sep+1:])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: azimuth of %s: %v", ErrInvalidDataset, p, err)
	}

	return float64(fileElev), float64(az), nil
}

func readStereoWAV(fsys fs.FS, p string) (left, right []float64, rate int, err error) {
	raw, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("hrtf: read %s: %w", p, err)
	}

	dec := wav.NewDecoder(bytes.NewReader(raw))
	if !dec.IsValidFile() {
		return nil, nil, 0, fmt.Errorf("%w: %s is not a valid WAV file", ErrInvalidDataset, p)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("hrtf: decode %s: %w", p, err)
	}
	if buf.Format == nil || buf.Format.NumChannels != 2 {
		return nil, nil, 0, fmt.Errorf("%w: %s is not stereo", ErrInvalidDataset, p)
	}

	bits := int(dec.BitDepth)
	if bits < 16 || bits > 32 {
		return nil, nil, 0, fmt.Errorf("%w: %s has unsupported bit depth %d", ErrInvalidDataset, p, bits)
	}
	scale := 1 / (math.Exp2(float64(bits-1)) - 1)

	frames := len(buf.Data) / 2
	left = make([]float64, frames)
	right = make([]float64, frames)
	for i := 0; i < frames; i++ {
		left[i] = float64(buf.Data[2*i]) * scale
		right[i] = float64(buf.Data[2*i+1]) * scale
	}

	return left, right, buf.Format.SampleRate, nil
}
