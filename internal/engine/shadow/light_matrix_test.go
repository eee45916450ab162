package shadow

import (
	"testing"

	"github.com/Faultbox/creaoverse/pkg/math"
)

func TestAABBExtendAndUnion(t *testing.T) {
	b := EmptyAABB()
	if !b.Empty() {
		t.Fatal("expected new box to be empty")
	}
	b = b.Extend(math.V3(1, 2, 3)).Extend(math.V3(-1, 0, 5))
	if b.Min != math.V3(-1, 0, 3) || b.Max != math.V3(1, 2, 5) {
		t.Errorf("unexpected box %+v", b)
	}

	u := b.Union(EmptyAABB())
	if u != b {
		t.Errorf("union with empty changed the box: %+v", u)
	}
	u = b.Union(AABB{Min: math.V3(0, -4, 0), Max: math.V3(0, 0, 0)})
	if u.Min != math.V3(-1, -4, 0) || u.Max != math.V3(1, 2, 5) {
		t.Errorf("unexpected union %+v", u)
	}
}

func TestTransform(t *testing.T) {
	m := math.Translate(10, 0, 0).Mul(math.Scale(2, 1, 1))
	b := Transform(math.V3(-1, -1, -1), math.V3(1, 1, 1), m)
	if !b.Min.ApproxEqual(math.V3(8, -1, -1), 1e-5) || !b.Max.ApproxEqual(math.V3(12, 1, 1), 1e-5) {
		t.Errorf("unexpected transformed box %+v", b)
	}
	if c := b.Center(); !c.ApproxEqual(math.V3(10, 0, 0), 1e-5) {
		t.Errorf("expected center (10,0,0), got %v", c)
	}
}

func TestDirectionalLightMatrixEnclosesBounds(t *testing.T) {
	bounds := AABB{Min: math.V3(-125, 0, -125), Max: math.V3(125, 100, 125)}
	dirs := []math.Vec3{
		math.V3(-100, -100, 40).Normalize(),
		math.V3(0, -1, 0),
		math.V3(1, -0.2, 0).Normalize(),
	}
	for _, dir := range dirs {
		m := DirectionalLightMatrix(dir, bounds)

		c := m.MulPoint(bounds.Center())
		if abs32(c.X) > 1e-3 || abs32(c.Y) > 1e-3 {
			t.Errorf("dir %v: expected center at NDC origin, got %v", dir, c)
		}
		for i := range 8 {
			p := bounds.Min
			if i&1 != 0 {
				p.X = bounds.Max.X
			}
			if i&2 != 0 {
				p.Y = bounds.Max.Y
			}
			if i&4 != 0 {
				p.Z = bounds.Max.Z
			}
			ndc := m.MulPoint(p)
			if abs32(ndc.X) > 1 || abs32(ndc.Y) > 1 || abs32(ndc.Z) > 1 {
				t.Errorf("dir %v: corner %v outside light volume: %v", dir, p, ndc)
			}
		}
	}
}
