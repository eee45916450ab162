package renderer

import (
	"testing"

	"github.com/Faultbox/creaoverse/internal/engine/primitive"
	"github.com/Faultbox/creaoverse/internal/engine/scene"
	"github.com/Faultbox/creaoverse/pkg/math"
)

func meshAt(name string, z, opacity float32) *scene.Entity {
	m := scene.NewMaterial(scene.Hex(0xffffff))
	m.SetOpacity(opacity)
	e := scene.NewMesh(name, primitive.Box(1, 1, 1), m)
	e.Transform.Position = math.V3(0, 0, z)
	return e
}

func newGraph(t *testing.T, children ...*scene.Entity) *scene.Graph {
	t.Helper()
	g, err := scene.NewGraph(scene.New("root"))
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range children {
		if err := g.Attach(g.Root(), c); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestBuildPlanSplitsPasses(t *testing.T) {
	light := scene.NewLight("sun", scene.Directional(scene.Hex(0xffffff), 1))
	g := newGraph(t,
		meshAt("wall", 0, 1),
		meshAt("tile", 1, 0.1),
		meshAt("ghost", 2, 0),
		light,
	)

	p := BuildPlan(g.Visible(), math.V3(0, 0, 10))
	if len(p.Opaque) != 1 || p.Opaque[0].Entity.Name != "wall" {
		t.Fatalf("expected wall in opaque pass, got %d items", len(p.Opaque))
	}
	if len(p.Transparent) != 1 || p.Transparent[0].Entity.Name != "tile" {
		t.Fatalf("expected tile in transparent pass, got %d items", len(p.Transparent))
	}
	if p.Len() != 2 {
		t.Errorf("expected 2 draws, got %d", p.Len())
	}
}

func TestBuildPlanSortsBackToFront(t *testing.T) {
	g := newGraph(t,
		meshAt("near", 8, 0.5),
		meshAt("far", -20, 0.5),
		meshAt("middle", 0, 0.5),
	)

	p := BuildPlan(g.Visible(), math.V3(0, 0, 10))
	want := []string{"far", "middle", "near"}
	if len(p.Transparent) != len(want) {
		t.Fatalf("expected %d transparent items, got %d", len(want), len(p.Transparent))
	}
	for i, name := range want {
		if got := p.Transparent[i].Entity.Name; got != name {
			t.Errorf("position %d: expected %s, got %s", i, name, got)
		}
	}
	if p.Transparent[0].Depth != 900 {
		t.Errorf("expected squared depth 900, got %v", p.Transparent[0].Depth)
	}
}

func TestBuildPlanSkipsHidden(t *testing.T) {
	group := scene.New("group")
	group.MustAdd(meshAt("child", 0, 1))
	group.Visible = false
	g := newGraph(t, group, meshAt("shown", 0, 1))

	p := BuildPlan(g.Visible(), math.Vec3{})
	if len(p.Opaque) != 1 || p.Opaque[0].Entity.Name != "shown" {
		t.Errorf("expected only the shown mesh, got %d items", len(p.Opaque))
	}
}

func TestBuildPlanUsesWorldTransform(t *testing.T) {
	parent := scene.New("parent")
	parent.Transform.Position = math.V3(5, 0, 0)
	parent.MustAdd(meshAt("child", 0, 1))
	g := newGraph(t, parent)

	p := BuildPlan(g.Visible(), math.Vec3{})
	if len(p.Opaque) != 1 {
		t.Fatalf("expected 1 item, got %d", len(p.Opaque))
	}
	if got := p.Opaque[0].Model.Translation(); got != math.V3(5, 0, 0) {
		t.Errorf("expected world translation (5,0,0), got %v", got)
	}
}

func TestBuildPlanBounds(t *testing.T) {
	g := newGraph(t, meshAt("a", -4, 1), meshAt("b", 6, 0.5))

	p := BuildPlan(g.Visible(), math.Vec3{})
	want := math.V3(0.5, 0.5, 6.5)
	if !p.Bounds.Max.ApproxEqual(want, 1e-5) {
		t.Errorf("expected max %v, got %v", want, p.Bounds.Max)
	}
	want = math.V3(-0.5, -0.5, -4.5)
	if !p.Bounds.Min.ApproxEqual(want, 1e-5) {
		t.Errorf("expected min %v, got %v", want, p.Bounds.Min)
	}

	empty := BuildPlan(newGraph(t).Visible(), math.Vec3{})
	if !empty.Bounds.Empty() {
		t.Error("expected empty bounds without meshes")
	}
}
