package hrtf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/algo-binaural/spatial/geom"
)

func TestDirection(t *testing.T) {
	tests := []struct {
		name   string
		rel    geom.Vec3
		el, az float64
		dist   float64
	}{
		{name: "front", rel: geom.V(2, 0, 0), el: 0, az: 0, dist: 2},
		{name: "right", rel: geom.V(0, 3, 0), el: 0, az: 90, dist: 3},
		{name: "left", rel: geom.V(0, -1, 0), el: 0, az: -90, dist: 1},
		{name: "behind", rel: geom.V(-1, 0, 0), el: 0, az: 180, dist: 1},
		{name: "above", rel: geom.V(0, 0, 5), el: 90, az: 0, dist: 5},
		{name: "below", rel: geom.V(0, 0, -1), el: -90, az: 0, dist: 1},
		{name: "diagonal up", rel: geom.V(1, 0, 1), el: 45, az: 0, dist: 1.4142135623730951},
		{name: "front right", rel: geom.V(1, 1, 0), el: 0, az: 45, dist: 1.4142135623730951},
		{name: "origin", rel: geom.V(0, 0, 0), el: 0, az: 0, dist: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el, az, dist := Direction(tt.rel)
			assert.InDelta(t, tt.el, el, 1e-9)
			assert.InDelta(t, tt.az, az, 1e-9)
			assert.InDelta(t, tt.dist, dist, 1e-12)
		})
	}
}

func TestFoldAzimuth(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
		swap bool
	}{
		{in: 0, want: 0},
		{in: 45, want: 45},
		{in: 179.5, want: 179.5},
		{in: -45, want: 45, swap: true},
		{in: -180, want: 180, swap: true},
		{in: 180, want: 180, swap: true},
		{in: 190, want: 170, swap: true},
		{in: 360, want: 0},
		{in: 400, want: 40},
		{in: 540, want: 180, swap: true},
		{in: -200, want: 160},
	}

	for _, tt := range tests {
		got, swap := foldAzimuth(tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "fold(%v)", tt.in)
		assert.Equal(t, tt.swap, swap, "fold(%v) swap", tt.in)
	}
}
