package room

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/creaoverse/internal/engine/scene"
	"github.com/Faultbox/creaoverse/pkg/math"
)

func newBuildingSet(t *testing.T) (*BuildingSet, *scene.Graph) {
	t.Helper()
	g, err := scene.NewGraph(scene.New("world"))
	if err != nil {
		t.Fatal(err)
	}
	return NewBuildingSet(g, g.Root(), math.V3(40, 30, 40), DefaultBuildingLimits(), 100, testRand()), g
}

func near(a, b float32) bool {
	d := a - b
	return d < 1e-4 && d > -1e-4
}

var nan = float32(gomath.NaN())

func TestBuildingDimensions(t *testing.T) {
	s, _ := newBuildingSet(t)
	b := s.Create(scene.Hex(0x800080), 50, 30)
	if b.Entity.Transform.Position.Y != 15 {
		t.Errorf("expected base building to stand at y=15, got %v", b.Entity.Transform.Position.Y)
	}

	tests := []struct {
		name    string
		w, h, d float32
		want    math.Vec3
	}{
		{"in range", 20, 60, 10, math.V3(20, 60, 10)},
		{"base size", 40, 30, 40, math.V3(40, 30, 40)},
		{"clamped low", 1, 2, 3, math.V3(5, 10, 5)},
		{"clamped high", 80, 500, 51, math.V3(50, 100, 50)},
		{"nan to minimum", nan, nan, nan, math.V3(5, 10, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !s.SetDimensions(0, tt.w, tt.h, tt.d) {
				t.Fatal("expected valid index")
			}
			got := b.Dimensions()
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) || !near(got.Z, tt.want.Z) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			sc := b.Entity.Transform.Scale
			if !near(sc.X, tt.want.X/40) || !near(sc.Y, tt.want.Y/30) || !near(sc.Z, tt.want.Z/40) {
				t.Errorf("expected scale relative to base, got %v", sc)
			}
			if !near(b.Entity.Transform.Position.Y, tt.want.Y/2) {
				t.Errorf("expected y=%v, got %v", tt.want.Y/2, b.Entity.Transform.Position.Y)
			}
			if !near(b.Bottom(), 0) {
				t.Errorf("expected building to rest on the ground, bottom %v", b.Bottom())
			}
			if x, z := b.Position(); x != 50 || z != 30 {
				t.Errorf("expected x,z untouched, got %v,%v", x, z)
			}
		})
	}
}

func TestBuildingPosition(t *testing.T) {
	s, _ := newBuildingSet(t)
	b := s.Create(scene.Hex(0xffffff), 0, 0)
	s.SetDimensions(0, 20, 50, 20)
	y := b.Entity.Transform.Position.Y

	s.SetPosition(0, 12, -34)
	if x, z := b.Position(); x != 12 || z != -34 {
		t.Errorf("expected (12,-34), got (%v,%v)", x, z)
	}
	if b.Entity.Transform.Position.Y != y {
		t.Errorf("expected y unchanged at %v, got %v", y, b.Entity.Transform.Position.Y)
	}

	s.SetPosition(0, 500, -500)
	if x, z := b.Position(); x != 90 || z != -90 {
		t.Errorf("expected clamp to +-90, got (%v,%v)", x, z)
	}

	s.SetPosition(0, nan, 7)
	if x, z := b.Position(); x != -90 || z != 7 {
		t.Errorf("expected NaN x to clamp to -90, got (%v,%v)", x, z)
	}
}

func TestBuildingAddRemove(t *testing.T) {
	s, g := newBuildingSet(t)
	before := g.Len()

	a := s.Add()
	b := s.Add()
	if s.Len() != 2 || a.ID == b.ID {
		t.Fatalf("expected two distinct buildings, got %d", s.Len())
	}
	for _, bl := range []*Building{a, b} {
		x, z := bl.Position()
		if x < -100 || x > 100 || z < -100 || z > 100 {
			t.Errorf("building %d placed out of range at (%v,%v)", bl.ID, x, z)
		}
		if !g.Contains(bl.Entity) {
			t.Errorf("building %d not attached", bl.ID)
		}
	}

	if got := s.Remove(); got != b {
		t.Error("expected last added building removed first")
	}
	if g.Contains(b.Entity) {
		t.Error("expected removed building detached")
	}
	if got := s.Remove(); got != a {
		t.Error("expected first building removed second")
	}
	if s.Remove() != nil {
		t.Error("expected remove on empty set to be a no-op")
	}
	if g.Len() != before {
		t.Errorf("expected graph back to %d entities, got %d", before, g.Len())
	}
}

func TestBuildingOutOfRange(t *testing.T) {
	s, _ := newBuildingSet(t)
	if s.SetDimensions(0, 10, 10, 10) || s.SetPosition(-1, 0, 0) {
		t.Error("expected edits on missing buildings to be ignored")
	}
	s.Create(scene.Hex(0xffffff), 0, 0)
	if s.SetDimensions(1, 10, 10, 10) {
		t.Error("expected index past the end to be ignored")
	}
}
