package render

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-binaural/dsp/conv"
	"github.com/cwbudde/algo-binaural/internal/testutil"
	"github.com/cwbudde/algo-binaural/spatial/config"
	"github.com/cwbudde/algo-binaural/spatial/hrtf"
)

const blockSize = 32

// testConfig renders at 8 kHz with one sample of delay per meter.
func testConfig(t *testing.T, opts ...config.Option) config.Config {
	t.Helper()
	base := []config.Option{
		config.WithSampleRate(8000),
		config.WithBlockSize(blockSize),
		config.WithDistanceResolution(0.5),
		config.WithMaxDistance(6),
		config.WithSpeedOfSound(8000),
		config.WithReflectionOrder(1),
	}
	cfg, err := config.New(append(base, opts...)...)
	require.NoError(t, err)
	return cfg
}

func testBank(t *testing.T, cfg config.Config) *hrtf.Bank {
	t.Helper()

	ds := &hrtf.Dataset{Name: "synthetic", SampleRate: cfg.SampleRate, Distance: 1}
	seed := int64(1)
	for _, el := range []float64{-30, 0, 30, 60} {
		for az := 0.0; az <= 180; az += 20 {
			ds.Measurements = append(ds.Measurements, hrtf.Measurement{
				ElevationDeg: el,
				AzimuthDeg:   az,
				Left:         testutil.DeterministicNoise(seed, 0.5, 8),
				Right:        testutil.DeterministicNoise(seed+500, 0.5, 8),
			})
			seed++
		}
	}

	logger, _ := test.NewNullLogger()
	bank, err := hrtf.NewBank(ds, cfg, hrtf.WithLogger(logger))
	require.NoError(t, err)
	return bank
}

func nullLogger() Option {
	logger, _ := test.NewNullLogger()
	return WithLogger(logger)
}

// reference is a pair of filters that always had the given kernels.
type reference struct {
	filters [2]*conv.OverlapAddFilter
}

func newReference(t *testing.T, left, right []complex128) *reference {
	t.Helper()
	ref := &reference{}
	for ch, k := range [2][]complex128{left, right} {
		f, err := conv.NewOverlapAddFilter(blockSize)
		require.NoError(t, err)
		f.SetFrequencyDomainKernel(k)
		ref.filters[ch] = f
	}
	return ref
}

func (r *reference) process(input []float64) (left, right []float64) {
	left = make([]float64, len(input))
	right = make([]float64, len(input))
	r.filters[0].ProcessBlock(left, input)
	r.filters[1].ProcessBlock(right, input)
	return left, right
}

func kernelsOf(bank *hrtf.Bank, parts ...weighted) (left, right []complex128) {
	left = make([]complex128, bank.Bins())
	right = make([]complex128, bank.Bins())
	for _, p := range parts {
		bank.MixInto(left, right, p.a, p.gain)
	}
	return left, right
}

type weighted struct {
	a    hrtf.Assignment
	gain float64
}
