// Package sphere maps directions to the nearest of a fixed set of measured
// orientations on the unit sphere.
//
// The search is backed by a gonum k-d tree over the Cartesian projection of
// each orientation. On the unit sphere the Euclidean chord distance is
// monotonic in the great-circle angle, so the Euclidean nearest neighbour is
// also the angular one.
package sphere

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/cwbudde/algo-binaural/spatial/geom"
)

// ErrEmpty is returned when an index is built from no points.
var ErrEmpty = errors.New("sphere: no points")

// UnitVector projects an elevation/azimuth pair in degrees onto the unit
// sphere in the listener frame: x forward, y right, z up.
func UnitVector(elevationDeg, azimuthDeg float64) geom.Vec3 {
	el := elevationDeg * math.Pi / 180
	az := azimuthDeg * math.Pi / 180
	return geom.V(math.Cos(el)*math.Cos(az), math.Cos(el)*math.Sin(az), math.Sin(el))
}

// Index answers nearest-neighbour queries over a fixed point set.
type Index struct {
	tree *kdtree.Tree
	n    int
}

// NewIndex builds an index over points. The returned indices of Nearest refer
// to positions in points.
func NewIndex(points []geom.Vec3) (*Index, error) {
	if len(points) == 0 {
		return nil, ErrEmpty
	}

	pts := make(nodes, len(points))
	for i, p := range points {
		if !finite(p) {
			return nil, fmt.Errorf("sphere: point %d %v is not finite", i, p)
		}
		pts[i] = node{index: i, pos: [3]float64{p.X, p.Y, p.Z}}
	}

	return &Index{tree: kdtree.New(pts, false), n: len(points)}, nil
}

// Len returns the number of indexed points.
func (x *Index) Len() int { return x.n }

// Nearest returns the index of the point closest to q.
func (x *Index) Nearest(q geom.Vec3) int {
	got, _ := x.tree.Nearest(node{index: -1, pos: [3]float64{q.X, q.Y, q.Z}})
	return got.(node).index
}

func finite(p geom.Vec3) bool {
	for _, v := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// node is a kdtree.Comparable carrying its position in the input slice.
type node struct {
	index int
	pos   [3]float64
}

func (n node) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return n.pos[d] - c.(node).pos[d]
}

func (n node) Dims() int { return 3 }

func (n node) Distance(c kdtree.Comparable) float64 {
	q := c.(node)
	var sum float64
	for d := range n.pos {
		diff := n.pos[d] - q.pos[d]
		sum += diff * diff
	}
	return sum
}

type nodes []node

func (p nodes) Index(i int) kdtree.Comparable         { return p[i] }
func (p nodes) Len() int                              { return len(p) }
func (p nodes) Pivot(d kdtree.Dim) int                { return plane{nodes: p, Dim: d}.Pivot() }
func (p nodes) Slice(start, end int) kdtree.Interface { return p[start:end] }

// plane pivots nodes on one dimension.
type plane struct {
	kdtree.Dim
	nodes
}

func (p plane) Less(i, j int) bool { return p.nodes[i].pos[p.Dim] < p.nodes[j].pos[p.Dim] }
func (p plane) Pivot() int         { return kdtree.Partition(p, kdtree.MedianOfRandoms(p, 100)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.nodes = p.nodes[start:end]
	return p
}
func (p plane) Swap(i, j int) { p.nodes[i], p.nodes[j] = p.nodes[j], p.nodes[i] }
