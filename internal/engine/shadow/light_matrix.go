package shadow

import (
	gomath "math"

	"github.com/Faultbox/creaoverse/pkg/math"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// EmptyAABB returns a box that any Extend call replaces.
func EmptyAABB() AABB {
	inf := float32(gomath.Inf(1))
	return AABB{Min: math.Splat(inf), Max: math.Splat(-inf)}
}

// Empty reports whether no point was added.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X
}

// Extend grows the box to include p.
func (b AABB) Extend(p math.Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the box enclosing b and o.
func (b AABB) Union(o AABB) AABB {
	if o.Empty() {
		return b
	}
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Transform returns the world-space box around the local box lo..hi under m.
func Transform(lo, hi math.Vec3, m math.Mat4) AABB {
	b := EmptyAABB()
	for i := range 8 {
		c := lo
		if i&1 != 0 {
			c.X = hi.X
		}
		if i&2 != 0 {
			c.Y = hi.Y
		}
		if i&4 != 0 {
			c.Z = hi.Z
		}
		b = b.Extend(m.MulPoint(c))
	}
	return b
}

// Center returns the center point of the AABB.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Radius returns the distance from center to corner (half-diagonal).
func (b AABB) Radius() float32 {
	return b.Max.Sub(b.Min).Length() / 2
}

// DirectionalLightMatrix computes the view-projection used to render and
// sample the shadow map. dir is the direction the light travels, as stored
// in the light set. The orthographic volume encloses bounds.
func DirectionalLightMatrix(dir math.Vec3, bounds AABB) math.Mat4 {
	center := bounds.Center()
	radius := max(bounds.Radius(), 1)

	// Position light far enough to encompass entire scene
	toLight := dir.Normalize().Scale(-1)
	lightDistance := radius * 2.0
	lightPos := center.Add(toLight.Scale(lightDistance))

	// Choose an up vector that is not parallel to the light
	up := math.V3(0, 1, 0)
	if abs32(toLight.Y) > 0.99 {
		up = math.V3(0, 0, 1)
	}
	view := math.LookAt(lightPos, center, up)

	// Pad to avoid edge artifacts
	padding := radius * 0.1
	halfSize := radius + padding
	near := float32(0.1)
	far := lightDistance + radius + padding

	return math.Ortho(-halfSize, halfSize, -halfSize, halfSize, near, far).Mul(view)
}

// abs32 returns the absolute value of a float32.
func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
