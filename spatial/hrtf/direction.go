package hrtf

import (
	"math"

	"github.com/cwbudde/algo-binaural/spatial/geom"
)

// Assignment names one precomputed filter pair. Two equal assignments select
// the same filters.
type Assignment struct {
	Orientation int
	Distance    int
	EarSwap     bool
}

// Direction converts a listener-relative offset into elevation and azimuth in
// degrees and a distance in meters. Elevation is 90° minus the polar angle
// arccos(z/d); azimuth is atan2(y, x) in [-180, 180]. A zero offset is
// reported as straight ahead at distance 0.
func Direction(rel geom.Vec3) (elevationDeg, azimuthDeg, distance float64) {
	distance = rel.Norm()
	if distance == 0 {
		return 0, 0, 0
	}

	cosPolar := math.Max(-1, math.Min(1, rel.Z/distance))
	elevationDeg = 90 - math.Acos(cosPolar)*180/math.Pi
	azimuthDeg = math.Atan2(rel.Y, rel.X) * 180 / math.Pi
	return elevationDeg, azimuthDeg, distance
}

// foldAzimuth maps an azimuth into [-180, 180) and then onto the recorded
// hemisphere [0, 180], reporting whether the ears have to be swapped.
func foldAzimuth(azimuthDeg float64) (float64, bool) {
	if azimuthDeg >= 180 || azimuthDeg < -180 {
		azimuthDeg = math.Mod(azimuthDeg+180, 360)
		if azimuthDeg < 0 {
			azimuthDeg += 360
		}
		azimuthDeg -= 180
	}
	if azimuthDeg < 0 {
		return -azimuthDeg, true
	}
	return azimuthDeg, false
}
