package scene

import (
	"iter"

	"github.com/Faultbox/creaoverse/pkg/math"
)

// Graph owns a root entity and indexes every entity attached beneath it.
// It is not safe for concurrent use; the render thread is its only mutator.
type Graph struct {
	root     *Entity
	byID     map[ID]*Entity
	onDetach []func(*Entity)
}

// NewGraph creates a graph around root. Root must not have a parent.
func NewGraph(root *Entity) (*Graph, error) {
	if root == nil {
		return nil, ErrNilEntity
	}
	if root.parent != nil {
		return nil, ErrHasParent
	}
	g := &Graph{root: root, byID: make(map[ID]*Entity)}
	g.index(root)
	return g, nil
}

// Root returns the root entity.
func (g *Graph) Root() *Entity { return g.root }

// Len returns the number of entities in the graph, root included.
func (g *Graph) Len() int { return len(g.byID) }

// ByID looks up an attached entity.
func (g *Graph) ByID(id ID) (*Entity, bool) {
	e, ok := g.byID[id]
	return e, ok
}

// Contains reports whether e is attached to this graph.
func (g *Graph) Contains(e *Entity) bool {
	if e == nil {
		return false
	}
	found, ok := g.byID[e.id]
	return ok && found == e
}

// OnDetach registers fn to be called with the top of every detached subtree.
func (g *Graph) OnDetach(fn func(*Entity)) {
	g.onDetach = append(g.onDetach, fn)
}

// Attach adds child (and its subtree) under parent. The child must not
// already have a parent and must not be an ancestor of parent.
func (g *Graph) Attach(parent, child *Entity) error {
	if err := parent.Add(child); err != nil {
		return err
	}
	if g.Contains(parent) {
		g.index(child)
	}
	return nil
}

// Detach removes e and its subtree from the graph. Detaching an entity that
// has no parent is a no-op.
func (g *Graph) Detach(e *Entity) error {
	if e == nil {
		return ErrNilEntity
	}
	if e == g.root {
		return ErrRoot
	}
	if e.parent == nil {
		return nil
	}
	attached := g.Contains(e)
	e.remove()
	if !attached {
		return nil
	}
	e.walk(func(d *Entity) bool {
		delete(g.byID, d.id)
		return true
	})
	for _, fn := range g.onDetach {
		fn(e)
	}
	return nil
}

func (g *Graph) index(e *Entity) {
	e.walk(func(d *Entity) bool {
		g.byID[d.id] = d
		return true
	})
}

// Traverse yields every entity depth-first, parents before children. The
// sequence is lazy and may be iterated again each frame. The tree must not
// be modified while iterating.
func (g *Graph) Traverse() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		g.root.walk(yield)
	}
}

// FindByTag returns the entities carrying tag in traversal order.
func (g *Graph) FindByTag(tag Tag) []*Entity {
	var found []*Entity
	for e := range g.Traverse() {
		if e.HasTag(tag) {
			found = append(found, e)
		}
	}
	return found
}

// Visible yields entities whose whole ancestor chain is visible, paired with
// their world matrix. Hidden subtrees are skipped entirely.
func (g *Graph) Visible() iter.Seq2[*Entity, math.Mat4] {
	return func(yield func(*Entity, math.Mat4) bool) {
		visitVisible(g.root, math.Identity(), yield)
	}
}

func visitVisible(e *Entity, parent math.Mat4, yield func(*Entity, math.Mat4) bool) bool {
	if !e.Visible {
		return true
	}
	world := parent.Mul(e.Transform.Matrix())
	if !yield(e, world) {
		return false
	}
	for _, c := range e.children {
		if !visitVisible(c, world, yield) {
			return false
		}
	}
	return true
}
