// Package geom provides the small amount of 3D geometry the renderer needs:
// positions, planes with unit normals, and damped walls.
package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// NormalTolerance is the allowed deviation of a plane normal's length from 1.
const NormalTolerance = 1e-5

var (
	// ErrNonUnitNormal is returned for planes whose normal is not unit length.
	ErrNonUnitNormal = errors.New("geom: plane normal is not unit length")
	// ErrInvalidDamping is returned for wall damping outside [0, 1].
	ErrInvalidDamping = errors.New("geom: damping must be in [0, 1]")
)

// Vec3 is a point or direction in meters. The listener frame used by the
// renderer is x forward, y right, z up.
type Vec3 r3.Vec

// V returns the vector (x, y, z).
func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Add returns v+w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3(r3.Add(r3.Vec(v), r3.Vec(w))) }

// Sub returns v-w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3(r3.Sub(r3.Vec(v), r3.Vec(w))) }

// Scale returns f·v.
func (v Vec3) Scale(f float64) Vec3 { return Vec3(r3.Scale(f, r3.Vec(v))) }

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float64 { return r3.Dot(r3.Vec(v), r3.Vec(w)) }

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 { return r3.Norm(r3.Vec(v)) }

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Plane is the set of points p with Normal·p + D = 0. Normal is unit length.
type Plane struct {
	Normal Vec3
	D      float64
}

// NewPlane creates the plane a·x + b·y + c·z + d = 0.
func NewPlane(a, b, c, d float64) (Plane, error) {
	n := V(a, b, c)
	if l := n.Norm(); math.IsNaN(l) || math.Abs(l-1) >= NormalTolerance {
		return Plane{}, fmt.Errorf("%w: |(%g, %g, %g)| = %g", ErrNonUnitNormal, a, b, c, l)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return Plane{}, fmt.Errorf("geom: plane offset %g is not finite", d)
	}
	return Plane{Normal: n, D: d}, nil
}

// SignedDistance returns Normal·p + D. Points on the side the normal points
// to have a positive distance.
func (pl Plane) SignedDistance(p Vec3) float64 {
	return pl.Normal.Dot(p) + pl.D
}

// Mirror reflects p across the plane: p - 2·SignedDistance(p)·Normal.
func (pl Plane) Mirror(p Vec3) Vec3 {
	return p.Sub(pl.Normal.Scale(2 * pl.SignedDistance(p)))
}

// Wall is a reflecting plane. Damping is the fraction of amplitude that
// survives one reflection.
type Wall struct {
	Plane   Plane
	Damping float64
}

// NewWall creates a wall on the plane a·x + b·y + c·z + d = 0.
func NewWall(a, b, c, d, damping float64) (Wall, error) {
	pl, err := NewPlane(a, b, c, d)
	if err != nil {
		return Wall{}, err
	}
	if !(damping >= 0 && damping <= 1) {
		return Wall{}, fmt.Errorf("%w: %g", ErrInvalidDamping, damping)
	}
	return Wall{Plane: pl, Damping: damping}, nil
}
