package room

import (
	"math/rand/v2"

	"github.com/Faultbox/creaoverse/internal/engine/primitive"
	"github.com/Faultbox/creaoverse/internal/engine/scene"
	"github.com/Faultbox/creaoverse/pkg/math"
)

// Building is an editable box on the street. Its size is stored as a scale
// of the shared base geometry.
type Building struct {
	ID     int
	Entity *scene.Entity
	base   math.Vec3
}

// Color returns the building's color.
func (b *Building) Color() scene.Color {
	return b.Entity.Mesh.Material.Color
}

// Dimensions returns width, height and depth in world units.
func (b *Building) Dimensions() math.Vec3 {
	return b.base.Mul(b.Entity.Transform.Scale)
}

// Position returns the ground position (x, z).
func (b *Building) Position() (x, z float32) {
	p := b.Entity.Transform.Position
	return p.X, p.Z
}

// Bottom returns the lowest point of the building in its parent's space.
func (b *Building) Bottom() float32 {
	return b.Entity.Transform.Position.Y - b.Dimensions().Y/2
}

// setDimensions derives scale from absolute dimensions and rests the
// building on the ground.
func (b *Building) setDimensions(w, h, d float32) {
	b.Entity.Transform.Scale = math.V3(w, h, d).Div(b.base)
	b.Entity.Transform.Position.Y = h / 2
}

func (b *Building) setPosition(x, z float32) {
	b.Entity.Transform.Position.X = x
	b.Entity.Transform.Position.Z = z
}

// BuildingSet is the ordered collection of street buildings. Removal is
// last-in first-out.
type BuildingSet struct {
	graph  *scene.Graph
	root   *scene.Entity
	base   math.Vec3
	limits BuildingLimits
	span   float32
	rng    *rand.Rand
	list   []*Building
	nextID int
}

// NewBuildingSet creates an empty set whose buildings are attached to root
// through g. span bounds random placement to [-span, span) on both axes.
func NewBuildingSet(g *scene.Graph, root *scene.Entity, base math.Vec3, limits BuildingLimits, span float32, rng *rand.Rand) *BuildingSet {
	return &BuildingSet{graph: g, root: root, base: base, limits: limits, span: span, rng: rng}
}

// Len returns the number of buildings.
func (s *BuildingSet) Len() int { return len(s.list) }

// All returns the buildings in insertion order. The slice must not be
// modified.
func (s *BuildingSet) All() []*Building { return s.list }

// Limits returns the editor bounds.
func (s *BuildingSet) Limits() BuildingLimits { return s.limits }

// At returns the building at index.
func (s *BuildingSet) At(index int) (*Building, bool) {
	if index < 0 || index >= len(s.list) {
		return nil, false
	}
	return s.list[index], true
}

// ByID finds a building by its ID.
func (s *BuildingSet) ByID(id int) (*Building, int, bool) {
	for i, b := range s.list {
		if b.ID == id {
			return b, i, true
		}
	}
	return nil, -1, false
}

// Of returns the building whose entity is e.
func (s *BuildingSet) Of(e *scene.Entity) (*Building, bool) {
	for _, b := range s.list {
		if b.Entity == e {
			return b, true
		}
	}
	return nil, false
}

// Create appends a base-sized building at (x, z).
func (s *BuildingSet) Create(color scene.Color, x, z float32) *Building {
	s.nextID++
	e := scene.NewMesh("building", primitive.Box(s.base.X, s.base.Y, s.base.Z), scene.NewMaterial(color)).Tag(scene.TagBuilding)
	e.Transform.Position = math.V3(x, s.base.Y/2, z)
	b := &Building{ID: s.nextID, Entity: e, base: s.base}
	// A fresh entity has no parent, so attach cannot fail.
	_ = s.graph.Attach(s.root, e)
	s.list = append(s.list, b)
	return b
}

// Add appends a building with a random color at a random position.
func (s *BuildingSet) Add() *Building {
	color := scene.Hex(uint32(s.rng.IntN(0x1000000)))
	x := (s.rng.Float32()*2 - 1) * s.span
	z := (s.rng.Float32()*2 - 1) * s.span
	return s.Create(color, x, z)
}

// Remove detaches the most recently added building. It returns nil when
// the set is empty.
func (s *BuildingSet) Remove() *Building {
	if len(s.list) == 0 {
		return nil
	}
	b := s.list[len(s.list)-1]
	s.list = s.list[:len(s.list)-1]
	_ = s.graph.Detach(b.Entity)
	return b
}

// SetDimensions resizes the building at index, clamping each dimension to
// the editor limits. Invalid indexes are ignored.
func (s *BuildingSet) SetDimensions(index int, w, h, d float32) bool {
	b, ok := s.At(index)
	if !ok {
		return false
	}
	l := s.limits
	b.setDimensions(
		clamp(w, l.MinWidth, l.MaxWidth),
		clamp(h, l.MinHeight, l.MaxHeight),
		clamp(d, l.MinDepth, l.MaxDepth),
	)
	return true
}

// SetPosition moves the building at index, clamping to the editor limits.
func (s *BuildingSet) SetPosition(index int, x, z float32) bool {
	b, ok := s.At(index)
	if !ok {
		return false
	}
	m := s.limits.MaxPosition
	b.setPosition(clamp(x, -m, m), clamp(z, -m, m))
	return true
}

// clamp bounds v to [lo, hi]. NaN maps to lo.
func clamp(v, lo, hi float32) float32 {
	if v != v {
		return lo
	}
	return min(max(v, lo), hi)
}
