// Package camera provides the damped orbit camera rooms are viewed through.
package camera

import (
	gomath "math"

	"github.com/Faultbox/creaoverse/pkg/math"
)

// polarEpsilon keeps the camera off the poles where LookAt degenerates.
const polarEpsilon = 1e-4

// Limits constrains the orbit. Angles are in radians; the polar angle is
// measured from +Y and the azimuth around Y from +Z.
type Limits struct {
	MinDistance float32
	MaxDistance float32
	MinPolar    float32
	MaxPolar    float32
	MinAzimuth  float32
	MaxAzimuth  float32
}

// Unlimited returns limits that only keep the camera within distance bounds.
func Unlimited(minDist, maxDist float32) Limits {
	return Limits{
		MinDistance: minDist,
		MaxDistance: maxDist,
		MinPolar:    0,
		MaxPolar:    gomath.Pi,
		MinAzimuth:  float32(gomath.Inf(-1)),
		MaxAzimuth:  float32(gomath.Inf(1)),
	}
}

// OrbitCamera orbits a target point with damped rotation, like a typical
// orbit controller. Panning is not supported.
type OrbitCamera struct {
	Target   math.Vec3
	Distance float32
	Polar    float32
	Azimuth  float32
	Limits   Limits

	// Damping is the fraction of pending rotation applied per update;
	// 0 applies input immediately.
	Damping     float32
	RotateSpeed float32
	ZoomSpeed   float32

	FOV  float32 // vertical, radians
	Near float32
	Far  float32

	aspect       float32
	deltaPolar   float32
	deltaAzimuth float32
	scale        float32
}

// NewOrbitCamera creates a camera at position looking at target.
func NewOrbitCamera(position, target math.Vec3, fovDegrees float32, limits Limits) *OrbitCamera {
	c := &OrbitCamera{
		Target:      target,
		Limits:      limits,
		Damping:     0.05,
		RotateSpeed: 1,
		ZoomSpeed:   1,
		FOV:         fovDegrees * gomath.Pi / 180,
		Near:        0.1,
		Far:         1000,
		aspect:      16.0 / 9,
		scale:       1,
	}
	c.LookFrom(position)
	return c
}

// LookFrom places the camera at position, keeping the target, then applies
// the limits.
func (c *OrbitCamera) LookFrom(position math.Vec3) {
	offset := position.Sub(c.Target)
	c.Distance = offset.Length()
	if c.Distance > 0 {
		c.Polar = float32(gomath.Acos(float64(min(max(offset.Y/c.Distance, -1), 1))))
		c.Azimuth = float32(gomath.Atan2(float64(offset.X), float64(offset.Z)))
	}
	c.deltaPolar, c.deltaAzimuth, c.scale = 0, 0, 1
	c.clamp()
}

// SetViewport updates the projection aspect ratio.
func (c *OrbitCamera) SetViewport(width, height float32) {
	if width > 0 && height > 0 {
		c.aspect = width / height
	}
}

// Aspect returns the current aspect ratio.
func (c *OrbitCamera) Aspect() float32 {
	return c.aspect
}

// HandleDrag queues a rotation from a pointer drag of dx, dy pixels inside a
// viewport of the given height. A full-height drag turns the camera by 2π.
func (c *OrbitCamera) HandleDrag(dx, dy, viewportHeight float32) {
	if viewportHeight <= 0 {
		return
	}
	c.deltaAzimuth -= 2 * gomath.Pi * dx / viewportHeight * c.RotateSpeed
	c.deltaPolar -= 2 * gomath.Pi * dy / viewportHeight * c.RotateSpeed
}

// HandleZoom queues a dolly from a wheel delta; positive moves closer.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.scale *= float32(gomath.Pow(0.95, float64(delta*c.ZoomSpeed)))
}

// Update advances damping and applies the limits. Call it once per frame.
func (c *OrbitCamera) Update() {
	if c.Damping > 0 {
		c.Azimuth += c.deltaAzimuth * c.Damping
		c.Polar += c.deltaPolar * c.Damping
		c.deltaAzimuth *= 1 - c.Damping
		c.deltaPolar *= 1 - c.Damping
	} else {
		c.Azimuth += c.deltaAzimuth
		c.Polar += c.deltaPolar
		c.deltaAzimuth, c.deltaPolar = 0, 0
	}
	c.Distance *= c.scale
	c.scale = 1
	c.clamp()
}

func (c *OrbitCamera) clamp() {
	l := c.Limits
	c.Azimuth = min(max(c.Azimuth, l.MinAzimuth), l.MaxAzimuth)
	c.Polar = min(max(c.Polar, l.MinPolar), l.MaxPolar)
	c.Polar = min(max(c.Polar, polarEpsilon), gomath.Pi-polarEpsilon)
	if l.MaxDistance > 0 {
		c.Distance = min(max(c.Distance, l.MinDistance), l.MaxDistance)
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sp, cp := gomath.Sincos(float64(c.Polar))
	sa, ca := gomath.Sincos(float64(c.Azimuth))
	return c.Target.Add(math.V3(
		c.Distance*float32(sp*sa),
		c.Distance*float32(cp),
		c.Distance*float32(sp*ca),
	))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Target, math.V3(0, 1, 0))
}

// ProjectionMatrix returns the perspective projection.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FOV, c.aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// InverseViewProjection is used to unproject pointer positions into rays.
func (c *OrbitCamera) InverseViewProjection() math.Mat4 {
	return c.ViewProjection().Inverse()
}

// Settled reports whether no damped rotation is pending.
func (c *OrbitCamera) Settled() bool {
	const eps = 1e-5
	return gomath.Abs(float64(c.deltaAzimuth)) < eps && gomath.Abs(float64(c.deltaPolar)) < eps
}
