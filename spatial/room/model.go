package room

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-binaural/spatial/geom"
)

var (
	// ErrInvalidDimensions is returned by DefineBox for non-positive sizes.
	ErrInvalidDimensions = errors.New("room: box dimensions must be > 0")
	// ErrInvalidReflectionOrder is returned for a negative reflection order.
	ErrInvalidReflectionOrder = errors.New("room: reflection order must be >= 0")
)

// AcousticSource is a direct or virtual sound source.
type AcousticSource struct {
	Position geom.Vec3
	// Damping is the product of the dampings of all walls on the path.
	Damping float64
	// Reflections is the number of walls on the path.
	Reflections int
}

// Entry is one slot of an expansion: either a visible source or a pruned
// placeholder.
type Entry struct {
	source  AcousticSource
	visible bool
	order   int
}

// Source returns the source and true for a visible entry, or the zero source
// and false for a pruned one.
func (e Entry) Source() (AcousticSource, bool) {
	if !e.visible {
		return AcousticSource{}, false
	}
	return e.source, true
}

// Visible reports whether the entry contributes to the mix.
func (e Entry) Visible() bool { return e.visible }

// Order returns the expansion depth of the entry, also for pruned entries.
func (e Entry) Order() int { return e.order }

// ExpansionLen returns 1 + Σ_{k=1..order} walls^k.
func ExpansionLen(walls, order int) int {
	total, level := 1, 1
	for k := 1; k <= order; k++ {
		level *= walls
		total += level
	}
	return total
}

// Model holds walls, a source and a listener. It is not safe for concurrent
// use; mutations and rendering are expected on the same goroutine.
type Model struct {
	order      int
	walls      []geom.Wall
	source     geom.Vec3
	listener   geom.Vec3
	generation uint64
}

// NewModel creates an empty room with the given reflection order.
func NewModel(order int) (*Model, error) {
	if order < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidReflectionOrder, order)
	}
	return &Model{order: order, generation: 1}, nil
}

// ReflectionOrder returns the expansion depth.
func (m *Model) ReflectionOrder() int { return m.order }

// Generation returns a counter that changes on every geometry mutation.
func (m *Model) Generation() uint64 { return m.generation }

// Walls returns a copy of the walls in insertion order.
func (m *Model) Walls() []geom.Wall {
	return append([]geom.Wall(nil), m.walls...)
}

// DefineBox adds the six walls of an axis-aligned box centered at the origin.
// Wall normals point inward, so the interior has positive signed distance to
// every wall.
func (m *Model) DefineBox(width, height, depth, damping float64) error {
	for _, v := range []float64{width, height, depth} {
		if !(v > 0) || math.IsInf(v, 1) {
			return fmt.Errorf("%w: %gx%gx%g", ErrInvalidDimensions, width, height, depth)
		}
	}

	hw, hh, hd := width/2, height/2, depth/2
	planes := [6][4]float64{
		{1, 0, 0, hw}, {-1, 0, 0, hw},
		{0, 1, 0, hh}, {0, -1, 0, hh},
		{0, 0, 1, hd}, {0, 0, -1, hd},
	}

	walls := make([]geom.Wall, 0, len(planes))
	for _, p := range planes {
		w, err := geom.NewWall(p[0], p[1], p[2], p[3], damping)
		if err != nil {
			return fmt.Errorf("room: define box: %w", err)
		}
		walls = append(walls, w)
	}

	m.walls = append(m.walls, walls...)
	m.touch()
	return nil
}

// AddWall adds the plane a·x + b·y + c·z + d = 0 with unit normal (a, b, c).
func (m *Model) AddWall(a, b, c, d, damping float64) error {
	w, err := geom.NewWall(a, b, c, d, damping)
	if err != nil {
		return fmt.Errorf("room: add wall: %w", err)
	}
	m.walls = append(m.walls, w)
	m.touch()
	return nil
}

// Reset removes all walls.
func (m *Model) Reset() {
	if len(m.walls) == 0 {
		return
	}
	m.walls = nil
	m.touch()
}

// SetSourcePosition moves the source.
func (m *Model) SetSourcePosition(p geom.Vec3) {
	if p == m.source {
		return
	}
	m.source = p
	m.touch()
}

// SourcePosition returns the source position.
func (m *Model) SourcePosition() geom.Vec3 { return m.source }

// SetListenerPosition moves the listener.
func (m *Model) SetListenerPosition(p geom.Vec3) {
	if p == m.listener {
		return
	}
	m.listener = p
	m.touch()
}

// ListenerPosition returns the listener position.
func (m *Model) ListenerPosition() geom.Vec3 { return m.listener }

func (m *Model) touch() { m.generation++ }

// RenderReflections expands the current geometry. The result is freshly
// allocated and has ExpansionLen(len(Walls()), ReflectionOrder()) entries.
func (m *Model) RenderReflections() []Entry {
	entries := make([]Entry, 0, ExpansionLen(len(m.walls), m.order))
	entries = append(entries, Entry{
		source:  AcousticSource{Position: m.source, Damping: 1},
		visible: true,
	})

	start := 0
	for k := 1; k <= m.order && len(m.walls) > 0; k++ {
		end := len(entries)
		for i := start; i < end; i++ {
			parent := entries[i]
			for _, w := range m.walls {
				entries = append(entries, reflect(parent, w, k))
			}
		}
		start = end
	}

	return entries
}

// Refresh returns a new expansion when the generation differs from last.
// Otherwise it returns nil, last and false.
func (m *Model) Refresh(last uint64) ([]Entry, uint64, bool) {
	if last == m.generation {
		return nil, last, false
	}
	return m.RenderReflections(), m.generation, true
}

func reflect(parent Entry, w geom.Wall, order int) Entry {
	if !parent.visible {
		return Entry{order: order}
	}
	if w.Plane.SignedDistance(parent.source.Position) <= 0 {
		return Entry{order: order}
	}
	return Entry{
		source: AcousticSource{
			Position:    w.Plane.Mirror(parent.source.Position),
			Damping:     parent.source.Damping * w.Damping,
			Reflections: parent.source.Reflections + 1,
		},
		visible: true,
		order:   order,
	}
}
