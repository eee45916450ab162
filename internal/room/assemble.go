package room

import (
	"fmt"
	"maps"
	gomath "math"
	"slices"

	"github.com/Faultbox/creaoverse/internal/engine/primitive"
	"github.com/Faultbox/creaoverse/internal/engine/scene"
	"github.com/Faultbox/creaoverse/pkg/math"
)

// Handle names returned by builders.
const (
	HandleLight     = "light"
	HandleShirtBody = "shirt-body"
	HandleShirtHang = "shirt-hang"
	HandleDisplay   = "display"
)

// Assembly is a built compound entity plus the children callers need to
// address individually later.
type Assembly struct {
	Root    *scene.Entity
	Handles map[string]*scene.Entity
}

// Handle returns a named child, or nil.
func (a Assembly) Handle(name string) *scene.Entity {
	return a.Handles[name]
}

func (a *Assembly) bind(name string, e *scene.Entity) {
	if a.Handles == nil {
		a.Handles = make(map[string]*scene.Entity)
	}
	a.Handles[name] = e
}

// Builder constructs an entity tree from an item description. Builders
// have no side effects beyond returning the tree.
type Builder func(spec ItemSpec) (Assembly, error)

// Registry maps item kinds to builders.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry returns a registry holding the standard furniture builders.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}
	r.Register("box", buildBox)
	r.Register("rug", buildRug)
	r.Register("bed", buildBed)
	r.Register("lamp", buildLamp)
	r.Register("record-player", buildRecordPlayer)
	r.Register("couch", buildCouch)
	r.Register("dj-controller", buildDJController)
	r.Register("speaker", buildSpeaker)
	r.Register("subwoofer", buildSubwoofer)
	r.Register("monitor", buildMonitor)
	r.Register("sign", buildSign)
	r.Register("play-button", buildPlayButton)
	return r
}

// Register adds or replaces the builder for kind.
func (r *Registry) Register(kind string, b Builder) {
	r.builders[kind] = b
}

// Kinds lists registered kinds, sorted.
func (r *Registry) Kinds() []string {
	return slices.Sorted(maps.Keys(r.builders))
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	_, ok := r.builders[kind]
	return ok
}

// Build assembles spec and applies its placement, name and tags to the root.
func (r *Registry) Build(spec ItemSpec) (Assembly, error) {
	b, ok := r.builders[spec.Kind]
	if !ok {
		return Assembly{}, fmt.Errorf("room: unknown item kind %q", spec.Kind)
	}
	a, err := b(spec)
	if err != nil {
		return Assembly{}, fmt.Errorf("build %s %q: %w", spec.Kind, spec.Name, err)
	}
	a.Root.Transform = spec.Placement.Transform()
	if spec.Name != "" {
		a.Root.Name = spec.Name
	}
	a.Root.Tag(spec.Tags...)
	return a, nil
}

func phong(hex uint32) *scene.Material {
	return scene.NewMaterial(scene.Hex(hex))
}

func basic(hex uint32) *scene.Material {
	m := scene.NewMaterial(scene.Hex(hex))
	m.Unlit = true
	return m
}

func colorOr(c *scene.Color, def uint32) scene.Color {
	if c != nil {
		return *c
	}
	return scene.Hex(def)
}

func mesh(name string, s primitive.Shape, m *scene.Material, pos math.Vec3) *scene.Entity {
	e := scene.NewMesh(name, s, m)
	e.Transform.Position = pos
	return e
}

func buildBox(spec ItemSpec) (Assembly, error) {
	size := spec.Size.vec()
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return Assembly{}, fmt.Errorf("box needs a positive size, got %v", spec.Size)
	}
	m := scene.NewMaterial(colorOr(spec.Color, 0x8b4513))
	if spec.Shininess > 0 {
		m.Shininess = spec.Shininess
	}
	if spec.Opacity > 0 {
		m.SetOpacity(spec.Opacity)
	}
	root := scene.NewMesh("box", primitive.Box(size.X, size.Y, size.Z), m).Tag(scene.TagFurniture)
	return Assembly{Root: root}, nil
}

func buildRug(spec ItemSpec) (Assembly, error) {
	w, d := spec.Size[0], spec.Size[1]
	if w <= 0 || d <= 0 {
		w, d = 6, 4
	}
	m := scene.NewMaterial(colorOr(spec.Color, 0xff0000))
	m.DoubleSided = true
	return Assembly{Root: scene.NewMesh("rug", primitive.Plane(w, d), m).Tag(scene.TagFurniture)}, nil
}

func buildBed(ItemSpec) (Assembly, error) {
	root := scene.New("bed").Tag(scene.TagFurniture)
	pillow := phong(0xffffff)
	root.MustAdd(
		mesh("frame", primitive.Box(3, 1, 4), phong(0x8b4513), math.Vec3{}),
		mesh("mattress", primitive.Box(2.9, 0.5, 3.9), phong(0xffffff), math.V3(0, 0.75, 0)),
		mesh("pillow", primitive.Box(0.8, 0.2, 0.6), pillow, math.V3(-0.8, 1.1, -1.5)),
		mesh("pillow", primitive.Box(0.8, 0.2, 0.6), pillow, math.V3(0.8, 1.1, -1.5)),
	)
	return Assembly{Root: root}, nil
}

// buildLamp returns the lamp body with its point light as a handle. The
// light starts visible; the room applies the template's initial state.
func buildLamp(spec ItemSpec) (Assembly, error) {
	m := scene.NewMaterial(colorOr(spec.Color, 0xee7f7f))
	root := scene.New("lamp").Tag(scene.TagLamp)
	root.MustAdd(
		mesh("lamp-base", primitive.Cylinder(0.1, 0.2, 0.1, 32), m, math.Vec3{}),
		mesh("lamp-pole", primitive.Cylinder(0.02, 0.02, 0.5, 32), m, math.V3(0, 0.3, 0)),
		mesh("lamp-shade", primitive.Cone(0.2, 0.2, 32), m, math.V3(0, 0.65, 0)),
	)
	light := scene.NewLight("lamp-light", scene.Point(scene.Hex(0xffffff), 0.5, 3)).Tag(scene.TagLampLight)
	light.Transform.Position = math.V3(0, 0.2, 0)
	root.MustAdd(light)

	a := Assembly{Root: root}
	a.bind(HandleLight, light)
	return a, nil
}

func buildRecordPlayer(ItemSpec) (Assembly, error) {
	root := scene.New("record-player").Tag(scene.TagFurniture)

	disk := phong(0x333333)
	disk.Shininess = 100
	tonearm := mesh("tonearm", primitive.Box(0.6, 0.03, 0.03), phong(0xcccccc), math.V3(0.5, 0.225, 0.4))
	tonearm.Transform.Rotation.Y = -gomath.Pi / 6
	cover := phong(0xffffff)
	cover.SetOpacity(0.2)

	root.MustAdd(
		mesh("base", primitive.Box(2, 0.3, 1), phong(0x8b4513), math.Vec3{}),
		mesh("disk", primitive.Cylinder(0.6, 0.6, 0.03, 64), disk, math.V3(0, 0.165, 0)),
		mesh("tonearm-base", primitive.Cylinder(0.075, 0.075, 0.075, 32), phong(0x999999), math.V3(0.8, 0.1875, 0.4)),
		tonearm,
		mesh("cartridge", primitive.Box(0.06, 0.03, 0.03), phong(0xff0000), math.V3(0.18, 0.21, 0.4)),
		mesh("dust-cover", primitive.Box(2.2, 0.8, 1.2), cover, math.V3(0, 0.475, 0)),
	)
	return Assembly{Root: root}, nil
}

func buildCouch(ItemSpec) (Assembly, error) {
	root := scene.New("couch").Tag(scene.TagFurniture)
	m := phong(0x8b4513)
	root.MustAdd(
		mesh("couch-base", primitive.Box(2.5, 0.5, 1), m, math.Vec3{}),
		mesh("couch-back", primitive.Box(2.5, 0.8, 0.3), m, math.V3(0, 0.65, -0.35)),
		mesh("couch-arm", primitive.Box(0.3, 0.6, 1), m, math.V3(-1.1, 0.3, 0)),
		mesh("couch-arm", primitive.Box(0.3, 0.6, 1), m, math.V3(1.1, 0.3, 0)),
	)

	// The shirt parts share one material so a recolor covers both.
	shirt := phong(0xffffff)
	body := mesh("shirt-body", primitive.Box(0.6, 0.075, 0.9), shirt, math.V3(1.25, 0.6, 0)).Tag(scene.TagShirt)
	hang := mesh("shirt-hang", primitive.Plane(0.6, 0.6), shirt, math.V3(1.25, 0.3, 0.3)).Tag(scene.TagShirt)
	hang.Transform.Rotation.X = gomath.Pi / 2
	root.MustAdd(scene.New("shirt").MustAdd(body, hang))

	a := Assembly{Root: root}
	a.bind(HandleShirtBody, body)
	a.bind(HandleShirtHang, hang)
	return a, nil
}

func buildDJController(ItemSpec) (Assembly, error) {
	root := mesh("dj-controller", primitive.Box(2, 0.1, 1), phong(0x333333), math.Vec3{}).Tag(scene.TagFurniture)
	knob := phong(0xcccccc)
	for i := range 8 {
		k := mesh("knob", primitive.Cylinder(0.05, 0.05, 0.05, 32), knob, math.V3(-0.8+float32(i)*0.2, 0.05, 0.2))
		k.Transform.Rotation.X = gomath.Pi / 2
		root.MustAdd(k)
	}
	return Assembly{Root: root}, nil
}

func buildSpeaker(ItemSpec) (Assembly, error) {
	root := mesh("speaker", primitive.Box(0.8, 1.2, 0.6), phong(0x222222), math.Vec3{}).Tag(scene.TagFurniture)
	cone := phong(0x888888)
	root.MustAdd(
		mesh("cone", primitive.Circle(0.2, 32), cone, math.V3(0, 0.3, 0.301)),
		mesh("cone", primitive.Circle(0.2, 32), cone, math.V3(0, -0.3, 0.301)),
	)
	return Assembly{Root: root}, nil
}

func buildSubwoofer(ItemSpec) (Assembly, error) {
	root := mesh("subwoofer", primitive.Box(1, 1, 0.8), phong(0x222222), math.Vec3{}).Tag(scene.TagFurniture)
	root.MustAdd(mesh("cone", primitive.Circle(0.4, 32), phong(0x888888), math.V3(0, 0, 0.401)))
	return Assembly{Root: root}, nil
}

func buildMonitor(ItemSpec) (Assembly, error) {
	root := mesh("monitor-stand", primitive.Box(0.1, 0.5, 0.1), phong(0x888888), math.Vec3{}).Tag(scene.TagFurniture)
	screen := mesh("screen", primitive.Box(2.1, 1.2, 0.05), phong(0x111111), math.V3(0, 0.95, 0))
	display := mesh("display", primitive.Plane(2, 1.1), basic(0x0077be), math.V3(0, 0, 0.026))
	screen.MustAdd(display)
	root.MustAdd(screen)

	a := Assembly{Root: root}
	a.bind(HandleDisplay, display)
	return a, nil
}

// signGlyphAspect approximates glyph width relative to font size.
const signGlyphAspect = 0.6

// buildSign renders a text sign as a flat panel sized to the text. Size[1]
// is the font size and Size[2] the panel depth.
func buildSign(spec ItemSpec) (Assembly, error) {
	if spec.Text == "" {
		return Assembly{}, fmt.Errorf("sign needs text")
	}
	size, depth := spec.Size[1], spec.Size[2]
	if size <= 0 {
		size = 0.4
	}
	if depth <= 0 {
		depth = 0.05
	}
	width := float32(len([]rune(spec.Text))) * size * signGlyphAspect
	m := scene.NewMaterial(colorOr(spec.Color, 0x00ff00))
	root := scene.New(spec.Text).Tag(scene.TagSign)
	// Text grows from the anchor along local +X, like extruded glyphs.
	root.MustAdd(mesh("sign-panel", primitive.Box(width, size, depth), m, math.V3(width/2, size/2, 0)))
	return Assembly{Root: root}, nil
}

func buildPlayButton(spec ItemSpec) (Assembly, error) {
	r := spec.Size[0]
	if r <= 0 {
		r = 0.2
	}
	return Assembly{Root: scene.NewMesh("play-button", primitive.Circle(r, 32), basic(0x00ff00)).Tag(scene.TagPlayButton)}, nil
}
