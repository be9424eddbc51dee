package hrtf

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-binaural/internal/testutil"
	"github.com/cwbudde/algo-binaural/spatial/config"
)

var (
	testElevations = []float64{-20, 0, 20, 40}
	testAzimuths   = []float64{0, 30, 60, 90, 120, 150, 180}
)

// syntheticDataset covers the right hemisphere with distinct noise bursts per
// orientation and ear. Recorded at 1 m and 8 kHz.
func syntheticDataset(filterLen int) *Dataset {
	ds := &Dataset{Name: "synthetic", SampleRate: 8000, Distance: 1}
	seed := int64(1)
	for _, el := range testElevations {
		for _, az := range testAzimuths {
			ds.Measurements = append(ds.Measurements, Measurement{
				ElevationDeg: el,
				AzimuthDeg:   az,
				Left:         testutil.DeterministicNoise(seed, 0.5, filterLen),
				Right:        testutil.DeterministicNoise(seed+1000, 0.5, filterLen),
			})
			seed++
		}
	}
	return ds
}

// testConfig makes one sample of delay per meter.
func testConfig(t *testing.T, opts ...config.Option) config.Config {
	t.Helper()
	base := []config.Option{
		config.WithSampleRate(8000),
		config.WithBlockSize(32),
		config.WithDistanceResolution(0.5),
		config.WithMaxDistance(4),
		config.WithSpeedOfSound(8000),
	}
	cfg, err := config.New(append(base, opts...)...)
	require.NoError(t, err)
	return cfg
}

func newTestBank(t *testing.T) (*Bank, *Dataset) {
	t.Helper()
	ds := syntheticDataset(16)
	logger, _ := test.NewNullLogger()
	b, err := NewBank(ds, testConfig(t), WithLogger(logger), WithWorkers(2))
	require.NoError(t, err)
	return b, ds
}
