package renderer

import (
	"cmp"
	"iter"
	"slices"

	"github.com/Faultbox/creaoverse/internal/engine/scene"
	"github.com/Faultbox/creaoverse/internal/engine/shadow"
	"github.com/Faultbox/creaoverse/pkg/math"
)

// Item is one mesh draw.
type Item struct {
	Entity   *scene.Entity
	Model    math.Mat4
	Material *scene.Material
	// Depth is the squared distance from the eye to the item's origin.
	Depth float32
}

// Plan splits a frame into an opaque pass and a transparent pass. The
// transparent pass is ordered back to front.
type Plan struct {
	Opaque      []Item
	Transparent []Item
	// Bounds encloses every item in world space.
	Bounds shadow.AABB
}

// Len returns the number of draws.
func (p *Plan) Len() int { return len(p.Opaque) + len(p.Transparent) }

// BuildPlan collects the renderable entities of a visible walk. Entities
// without a mesh or material are skipped, as are fully transparent ones.
func BuildPlan(visible iter.Seq2[*scene.Entity, math.Mat4], eye math.Vec3) Plan {
	p := Plan{Bounds: shadow.EmptyAABB()}
	for e, world := range visible {
		if e.Mesh == nil || e.Mesh.Material == nil {
			continue
		}
		m := e.Mesh.Material
		if m.Opacity <= 0 {
			continue
		}
		d := world.Translation().Sub(eye)
		item := Item{Entity: e, Model: world, Material: m, Depth: d.Dot(d)}
		lo, hi := e.Mesh.Shape.Bounds()
		p.Bounds = p.Bounds.Union(shadow.Transform(lo, hi, world))
		if m.Transparent {
			p.Transparent = append(p.Transparent, item)
		} else {
			p.Opaque = append(p.Opaque, item)
		}
	}
	slices.SortStableFunc(p.Transparent, func(a, b Item) int {
		return cmp.Compare(b.Depth, a.Depth)
	})
	return p
}
