package hrtf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetValidate(t *testing.T) {
	require.NoError(t, syntheticDataset(4).Validate())

	tests := []struct {
		name   string
		mutate func(*Dataset)
		want   error
	}{
		{name: "empty", mutate: func(d *Dataset) { d.Measurements = nil }, want: ErrEmptyDataset},
		{name: "zero rate", mutate: func(d *Dataset) { d.SampleRate = 0 }, want: ErrInvalidDataset},
		{name: "nan distance", mutate: func(d *Dataset) { d.Distance = math.NaN() }, want: ErrInvalidDataset},
		{name: "length mismatch", mutate: func(d *Dataset) { d.Measurements[3].Right = d.Measurements[3].Right[:2] }, want: ErrInvalidDataset},
		{name: "empty response", mutate: func(d *Dataset) {
			for i := range d.Measurements {
				d.Measurements[i].Left, d.Measurements[i].Right = nil, nil
			}
		}, want: ErrInvalidDataset},
		{name: "negative azimuth", mutate: func(d *Dataset) { d.Measurements[1].AzimuthDeg = -30 }, want: ErrInvalidDataset},
		{name: "elevation out of range", mutate: func(d *Dataset) { d.Measurements[0].ElevationDeg = 95 }, want: ErrInvalidDataset},
		{name: "nan sample", mutate: func(d *Dataset) { d.Measurements[2].Left[1] = math.NaN() }, want: ErrInvalidDataset},
		{name: "inf sample", mutate: func(d *Dataset) { d.Measurements[2].Right[0] = math.Inf(-1) }, want: ErrInvalidDataset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := syntheticDataset(4)
			tt.mutate(ds)
			assert.ErrorIs(t, ds.Validate(), tt.want)
		})
	}
}

func TestDatasetFilterLen(t *testing.T) {
	assert.Equal(t, 12, syntheticDataset(12).FilterLen())
	assert.Zero(t, (&Dataset{}).FilterLen())
}
