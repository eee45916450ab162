// Package scene implements the room scene graph: a tree of entities with
// local transforms, optional renderables, lights and typed tags.
package scene

import (
	"errors"
	"slices"
	"sync/atomic"

	"github.com/Faultbox/creaoverse/internal/engine/primitive"
	"github.com/Faultbox/creaoverse/pkg/math"
)

var (
	// ErrHasParent is returned when attaching an entity that already has a parent.
	ErrHasParent = errors.New("scene: entity already has a parent")
	// ErrCycle is returned when an attach would make an entity its own ancestor.
	ErrCycle = errors.New("scene: attach would create a cycle")
	// ErrNilEntity is returned when a nil entity is passed to a graph operation.
	ErrNilEntity = errors.New("scene: nil entity")
	// ErrRoot is returned when detaching the graph root.
	ErrRoot = errors.New("scene: cannot detach the root")
)

// ID uniquely identifies an entity within the process.
type ID uint64

var lastID atomic.Uint64

// Transform is a local position, XYZ Euler rotation (radians) and scale.
type Transform struct {
	Position math.Vec3
	Rotation math.Vec3
	Scale    math.Vec3
}

// Identity returns a transform with unit scale.
func Identity() Transform {
	return Transform{Scale: math.Splat(1)}
}

// At returns a unit-scale transform at p.
func At(p math.Vec3) Transform {
	return Transform{Position: p, Scale: math.Splat(1)}
}

// Matrix returns translation * rotation * scale.
func (t Transform) Matrix() math.Mat4 {
	return math.Compose(t.Position, math.QuatFromEuler(t.Rotation), t.Scale)
}

// Renderable is a primitive shape drawn with a material.
type Renderable struct {
	Shape    primitive.Shape
	Material *Material
}

// Entity is a node in the scene tree. An entity owns its children
// exclusively; detaching it takes the whole subtree with it.
type Entity struct {
	id        ID
	Name      string
	Transform Transform
	Visible   bool
	Mesh      *Renderable
	Light     *Light

	tags     TagSet
	parent   *Entity
	children []*Entity
}

// New creates a visible, empty entity.
func New(name string) *Entity {
	return &Entity{
		id:        ID(lastID.Add(1)),
		Name:      name,
		Transform: Identity(),
		Visible:   true,
	}
}

// NewMesh creates an entity that draws shape with mat.
func NewMesh(name string, shape primitive.Shape, mat *Material) *Entity {
	e := New(name)
	e.Mesh = &Renderable{Shape: shape, Material: mat}
	return e
}

// NewLight creates an entity carrying a light.
func NewLight(name string, l *Light) *Entity {
	e := New(name)
	e.Light = l
	return e
}

// ID returns the entity's identifier.
func (e *Entity) ID() ID { return e.id }

// Parent returns the parent, or nil for a detached entity or root.
func (e *Entity) Parent() *Entity { return e.parent }

// Children returns the ordered children. The slice must not be modified.
func (e *Entity) Children() []*Entity { return e.children }

// Add attaches child as the last child of e.
func (e *Entity) Add(child *Entity) error {
	if e == nil || child == nil {
		return ErrNilEntity
	}
	if child.parent != nil {
		return ErrHasParent
	}
	if child.IsAncestorOf(e) {
		return ErrCycle
	}
	child.parent = e
	e.children = append(e.children, child)
	return nil
}

// MustAdd attaches children during construction and panics on error.
func (e *Entity) MustAdd(children ...*Entity) *Entity {
	for _, c := range children {
		if err := e.Add(c); err != nil {
			panic(err)
		}
	}
	return e
}

// remove unlinks e from its parent.
func (e *Entity) remove() {
	p := e.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, e); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	e.parent = nil
}

// IsAncestorOf reports whether e is other or one of its ancestors.
func (e *Entity) IsAncestorOf(other *Entity) bool {
	for p := other; p != nil; p = p.parent {
		if p == e {
			return true
		}
	}
	return false
}

// Root returns the topmost ancestor.
func (e *Entity) Root() *Entity {
	r := e
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// EffectivelyVisible reports whether e and all its ancestors are visible.
func (e *Entity) EffectivelyVisible() bool {
	for p := e; p != nil; p = p.parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// WorldMatrix composes local transforms from the root down to e.
func (e *Entity) WorldMatrix() math.Mat4 {
	m := e.Transform.Matrix()
	for p := e.parent; p != nil; p = p.parent {
		m = p.Transform.Matrix().Mul(m)
	}
	return m
}

// WorldPosition returns the world-space origin of e.
func (e *Entity) WorldPosition() math.Vec3 {
	return e.WorldMatrix().Translation()
}

// HasTag reports whether e carries tag.
func (e *Entity) HasTag(tag Tag) bool {
	return e.tags.Has(tag)
}

// Tag adds tags to e and returns it for chaining.
func (e *Entity) Tag(tags ...Tag) *Entity {
	for _, t := range tags {
		e.tags = e.tags.With(t)
	}
	return e
}

// Untag removes a tag.
func (e *Entity) Untag(tag Tag) {
	e.tags = e.tags.Without(tag)
}

// Tags returns e's tag set.
func (e *Entity) Tags() TagSet {
	return e.tags
}

// walk visits e and its subtree depth-first, parents before children.
// Returning false from yield stops the walk.
func (e *Entity) walk(yield func(*Entity) bool) bool {
	if !yield(e) {
		return false
	}
	for _, c := range e.children {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}
