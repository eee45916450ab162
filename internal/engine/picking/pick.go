package picking

import (
	"iter"

	"github.com/Faultbox/creaoverse/internal/engine/scene"
	"github.com/Faultbox/creaoverse/pkg/math"
)

// Hit is a ray intersection with a renderable entity.
type Hit struct {
	Entity   *scene.Entity
	Distance float32
	Point    math.Vec3
}

// IntersectEntity tests a world-space ray against the local bounds of an
// entity's shape. world is the entity's world matrix.
func IntersectEntity(ray Ray, e *scene.Entity, world math.Mat4) (Hit, bool) {
	if e.Mesh == nil {
		return Hit{}, false
	}
	lo, hi := e.Mesh.Shape.Bounds()
	local := ray.Transform(world.Inverse())
	t, ok := local.IntersectAABB(AABB{Min: lo, Max: hi})
	if !ok {
		return Hit{}, false
	}
	return Hit{Entity: e, Distance: t, Point: ray.At(t)}, true
}

// Nearest returns the closest hit among candidates accepted by filter. A nil
// filter accepts every renderable. Equal distances keep the earlier candidate.
func Nearest(ray Ray, candidates iter.Seq2[*scene.Entity, math.Mat4], filter func(*scene.Entity) bool) (Hit, bool) {
	var best Hit
	found := false
	for e, world := range candidates {
		if e.Mesh == nil || (filter != nil && !filter(e)) {
			continue
		}
		h, ok := IntersectEntity(ray, e, world)
		if !ok {
			continue
		}
		if !found || h.Distance < best.Distance {
			best, found = h, true
		}
	}
	return best, found
}
