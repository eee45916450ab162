// Package primitive describes the basic shapes rooms are built from and
// generates their triangle meshes.
//
// Shapes are centered on the origin. Boxes, cylinders and cones extend along
// Y; planes and circles lie in the XY plane facing +Z.
package primitive

import (
	"fmt"

	"github.com/Faultbox/creaoverse/pkg/math"
)

// Kind identifies a primitive shape.
type Kind uint8

const (
	KindBox Kind = iota
	KindCylinder
	KindPlane
	KindCircle
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindCylinder:
		return "cylinder"
	case KindPlane:
		return "plane"
	case KindCircle:
		return "circle"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// DefaultSegments is used for round shapes created with a segment count < 3.
const DefaultSegments = 32

// flatThickness is the pick slab given to planes and circles.
const flatThickness = 0.001

// Shape is a comparable shape descriptor, usable as a mesh cache key.
type Shape struct {
	Kind         Kind
	Width        float32
	Height       float32
	Depth        float32
	RadiusTop    float32
	RadiusBottom float32
	Segments     int
}

// Box returns a w x h x d box.
func Box(w, h, d float32) Shape {
	return Shape{Kind: KindBox, Width: w, Height: h, Depth: d}
}

// Cylinder returns a cylinder with separate top and bottom radii.
func Cylinder(radiusTop, radiusBottom, height float32, segments int) Shape {
	return Shape{Kind: KindCylinder, RadiusTop: radiusTop, RadiusBottom: radiusBottom, Height: height, Segments: segs(segments)}
}

// Cone returns a cone with its apex at +Y.
func Cone(radius, height float32, segments int) Shape {
	return Cylinder(0, radius, height, segments)
}

// Plane returns a w x h rectangle.
func Plane(w, h float32) Shape {
	return Shape{Kind: KindPlane, Width: w, Height: h}
}

// Circle returns a filled disc.
func Circle(radius float32, segments int) Shape {
	return Shape{Kind: KindCircle, RadiusTop: radius, RadiusBottom: radius, Segments: segs(segments)}
}

func segs(n int) int {
	if n < 3 {
		return DefaultSegments
	}
	return n
}

// Bounds returns the local axis-aligned bounds of the shape.
func (s Shape) Bounds() (lo, hi math.Vec3) {
	var half math.Vec3
	switch s.Kind {
	case KindBox:
		half = math.V3(s.Width/2, s.Height/2, s.Depth/2)
	case KindCylinder:
		r := max(s.RadiusTop, s.RadiusBottom)
		half = math.V3(r, s.Height/2, r)
	case KindPlane:
		half = math.V3(s.Width/2, s.Height/2, flatThickness)
	case KindCircle:
		half = math.V3(s.RadiusTop, s.RadiusTop, flatThickness)
	}
	return half.Scale(-1), half
}

func (s Shape) String() string {
	switch s.Kind {
	case KindBox:
		return fmt.Sprintf("box(%gx%gx%g)", s.Width, s.Height, s.Depth)
	case KindCylinder:
		return fmt.Sprintf("cylinder(%g,%g,%g/%d)", s.RadiusTop, s.RadiusBottom, s.Height, s.Segments)
	case KindPlane:
		return fmt.Sprintf("plane(%gx%g)", s.Width, s.Height)
	case KindCircle:
		return fmt.Sprintf("circle(%g/%d)", s.RadiusTop, s.Segments)
	}
	return s.Kind.String()
}
