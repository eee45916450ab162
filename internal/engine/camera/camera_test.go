package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/creaoverse/pkg/math"
)

func roomLimits() Limits {
	center := float32(gomath.Pi/2 - gomath.Pi/9)
	return Limits{
		MinDistance: 5,
		MaxDistance: 15,
		MinPolar:    center - gomath.Pi/18,
		MaxPolar:    center + gomath.Pi/18,
		MinAzimuth:  -gomath.Pi / 14,
		MaxAzimuth:  gomath.Pi / 14,
	}
}

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

func TestNewOrbitCameraClampsInitialPosition(t *testing.T) {
	// straight above the target: polar 0 gets clamped to the minimum
	c := NewOrbitCamera(math.V3(0, 10, 0), math.Vec3{}, 60, roomLimits())
	if !near(c.Distance, 10) {
		t.Errorf("Distance = %v, want 10", c.Distance)
	}
	if !near(c.Polar, c.Limits.MinPolar) {
		t.Errorf("Polar = %v, want %v", c.Polar, c.Limits.MinPolar)
	}
	if !near(c.Position().Distance(c.Target), 10) {
		t.Errorf("position %v not at orbit distance", c.Position())
	}
}

func TestPositionSpherical(t *testing.T) {
	c := NewOrbitCamera(math.V3(0, 0, 10), math.Vec3{}, 60, Unlimited(1, 100))
	if !c.Position().ApproxEqual(math.V3(0, 0, 10), 1e-3) {
		t.Errorf("Position = %v, want (0, 0, 10)", c.Position())
	}
	c = NewOrbitCamera(math.V3(10, 0, 0), math.Vec3{}, 60, Unlimited(1, 100))
	if !near(c.Azimuth, gomath.Pi/2) {
		t.Errorf("Azimuth = %v, want pi/2", c.Azimuth)
	}
	if !c.Position().ApproxEqual(math.V3(10, 0, 0), 1e-3) {
		t.Errorf("Position = %v, want (10, 0, 0)", c.Position())
	}
}

func TestDragRespectsAzimuthLimit(t *testing.T) {
	c := NewOrbitCamera(math.V3(0, 5, 8), math.Vec3{}, 60, roomLimits())
	c.Damping = 0
	c.HandleDrag(-10000, 0, 720)
	c.Update()
	if !near(c.Azimuth, c.Limits.MaxAzimuth) {
		t.Errorf("Azimuth = %v, want clamp %v", c.Azimuth, c.Limits.MaxAzimuth)
	}
	c.HandleDrag(10000, 10000, 720)
	c.Update()
	if !near(c.Azimuth, c.Limits.MinAzimuth) || !near(c.Polar, c.Limits.MinPolar) {
		t.Errorf("angles = (%v, %v), want minimums", c.Polar, c.Azimuth)
	}
}

func TestDampingConverges(t *testing.T) {
	c := NewOrbitCamera(math.V3(0, 0, 10), math.Vec3{}, 60, Unlimited(1, 100))
	start := c.Azimuth
	c.HandleDrag(-72, 0, 720) // 0.2π
	c.Update()
	first := c.Azimuth - start
	if first <= 0 || first >= 0.2*gomath.Pi {
		t.Fatalf("first damped step = %v, want partial", first)
	}
	for i := 0; i < 500; i++ {
		c.Update()
	}
	if !near(c.Azimuth-start, 0.2*gomath.Pi) {
		t.Errorf("converged rotation = %v, want %v", c.Azimuth-start, 0.2*gomath.Pi)
	}
	if !c.Settled() {
		t.Error("camera should be settled")
	}
}

func TestZoomClamps(t *testing.T) {
	c := NewOrbitCamera(math.V3(0, 5, 8), math.Vec3{}, 60, roomLimits())
	c.HandleZoom(1000)
	c.Update()
	if c.Distance != 5 {
		t.Errorf("Distance = %v, want min 5", c.Distance)
	}
	c.HandleZoom(-1000)
	c.Update()
	if c.Distance != 15 {
		t.Errorf("Distance = %v, want max 15", c.Distance)
	}
}

func TestInverseViewProjectionRoundTrip(t *testing.T) {
	c := NewOrbitCamera(math.V3(140, 65, -100), math.Vec3{}, 75, Unlimited(1, 2000))
	c.SetViewport(1280, 720)
	c.Near = 1
	vp := c.ViewProjection()
	p := math.V3(3, 4, 5)
	back := c.InverseViewProjection().MulPoint(vp.MulPoint(p))
	if !back.ApproxEqual(p, 1e-2) {
		t.Errorf("round trip = %v, want %v", back, p)
	}
}
