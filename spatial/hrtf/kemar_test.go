package hrtf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV stores interleaved 16-bit frames under dir/name.
func writeWAV(t *testing.T, dir, name string, rate, channels int, data []int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, filepath.Dir(name)), 0o755))

	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

func TestLoadKEMAR(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, dir, "elev0/H0e090a.wav", 44100, 2, []int{0x7FFF, 0, 0, -0x7FFF, 100, 200})
	writeWAV(t, dir, "elev0/H0e000a.wav", 44100, 2, []int{1, 2, 3, 4, 5, 6})
	writeWAV(t, dir, "elev-10/H-10e045a.wav", 44100, 2, []int{7, 8, 9, 10, 11, 12})

	logger, hook := test.NewNullLogger()
	ds, err := LoadKEMAR(os.DirFS(dir), WithLoadLogger(logger), WithDatasetName("mini"))
	require.NoError(t, err)

	assert.Equal(t, "mini", ds.Name)
	assert.Equal(t, 44100.0, ds.SampleRate)
	assert.Equal(t, KEMARDistance, ds.Distance)
	assert.Equal(t, 3, ds.FilterLen())
	require.Len(t, ds.Measurements, 3)

	order := make([][2]float64, len(ds.Measurements))
	for i, m := range ds.Measurements {
		order[i] = [2]float64{m.ElevationDeg, m.AzimuthDeg}
	}
	assert.Equal(t, [][2]float64{{-10, 45}, {0, 0}, {0, 90}}, order)

	m := ds.Measurements[2]
	assert.InDeltaSlice(t, []float64{1, 0, 100.0 / 0x7FFF}, m.Left, 1e-12)
	assert.InDeltaSlice(t, []float64{0, -1, 200.0 / 0x7FFF}, m.Right, 1e-12)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Loaded HRTF dataset", hook.LastEntry().Message)
	assert.Equal(t, 3, hook.LastEntry().Data["measurements"])
}

func TestLoadKEMARRecordingDistance(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, dir, "elev0/H0e000a.wav", 22050, 2, []int{1, 2})

	logger, _ := test.NewNullLogger()
	ds, err := LoadKEMAR(os.DirFS(dir), WithLoadLogger(logger), WithRecordingDistance(2))
	require.NoError(t, err)
	assert.Equal(t, 2.0, ds.Distance)
	assert.Equal(t, "mit-kemar", ds.Name)
}

func TestLoadKEMARErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()

	t.Run("empty directory", func(t *testing.T) {
		_, err := LoadKEMAR(os.DirFS(t.TempDir()), WithLoadLogger(logger))
		require.ErrorIs(t, err, ErrNoMeasurements)
	})

	t.Run("mono file", func(t *testing.T) {
		dir := t.TempDir()
		writeWAV(t, dir, "elev0/H0e000a.wav", 44100, 1, []int{1, 2, 3})
		_, err := LoadKEMAR(os.DirFS(dir), WithLoadLogger(logger))
		require.ErrorIs(t, err, ErrInvalidDataset)
	})

	t.Run("mixed rates", func(t *testing.T) {
		dir := t.TempDir()
		writeWAV(t, dir, "elev0/H0e000a.wav", 44100, 2, []int{1, 2})
		writeWAV(t, dir, "elev0/H0e005a.wav", 48000, 2, []int{1, 2})
		_, err := LoadKEMAR(os.DirFS(dir), WithLoadLogger(logger))
		require.ErrorIs(t, err, ErrInvalidDataset)
	})

	t.Run("elevation mismatch", func(t *testing.T) {
		dir := t.TempDir()
		writeWAV(t, dir, "elev10/H20e000a.wav", 44100, 2, []int{1, 2})
		_, err := LoadKEMAR(os.DirFS(dir), WithLoadLogger(logger))
		require.ErrorIs(t, err, ErrInvalidDataset)
	})

	t.Run("not a wav", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "elev0"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "elev0", "H0e000a.wav"), []byte("garbage"), 0o644))
		_, err := LoadKEMAR(os.DirFS(dir), WithLoadLogger(logger))
		require.ErrorIs(t, err, ErrInvalidDataset)
	})
}

func TestParseKEMARPath(t *testing.T) {
	el, az, err := parseKEMARPath("elev-40/H-40e355a.wav")
	require.NoError(t, err)
	assert.Equal(t, -40.0, el)
	assert.Equal(t, 355.0, az)

	_, _, err = parseKEMARPath("elev0/Hxe000a.wav")
	require.ErrorIs(t, err, ErrInvalidDataset)
}
