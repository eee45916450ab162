// Package room builds decorable rooms from templates and implements the
// commands, interaction routing and per-frame behaviour that act on them.
package room

import (
	"cmp"
	"fmt"
	gomath "math"
	"math/rand/v2"
	"slices"

	"github.com/Faultbox/creaoverse/internal/engine/camera"
	"github.com/Faultbox/creaoverse/internal/engine/primitive"
	"github.com/Faultbox/creaoverse/internal/engine/scene"
	"github.com/Faultbox/creaoverse/pkg/math"
)

// Poster is an image slot on a wall.
type Poster struct {
	Slot    int
	Key     string
	Default string
	Entity  *scene.Entity
}

// Room is one assembled environment. The graph root is the world; Root is
// the room group carrying the template offset.
type Room struct {
	Template *Template
	Graph    *scene.Graph
	Root     *scene.Entity
	Camera   *camera.OrbitCamera

	Walls        []*scene.Entity
	WallMaterial *scene.Material
	Floor        *scene.Entity
	Windows      []*scene.Entity
	Posters      []Poster
	Items        map[string]Assembly
	LampLight    *scene.Entity
	PlayButton   *scene.Entity
	Shirt        []*scene.Entity
	Grid         *Grid
	Buildings    *BuildingSet

	playButtonBase math.Vec3
}

// Build assembles a room from t. rng drives random building placement.
func Build(t *Template, reg *Registry, rng *rand.Rand) (*Room, error) {
	world := scene.New("world")
	g, err := scene.NewGraph(world)
	if err != nil {
		return nil, err
	}
	r := &Room{
		Template: t,
		Graph:    g,
		Root:     scene.New(t.Name),
		Camera:   t.Camera.NewCamera(),
		Items:    make(map[string]Assembly),
	}
	r.Root.Transform.Position = t.Offset.vec()
	r.attach(world, r.Root)

	if t.Interior != nil {
		r.buildInterior(t.Interior)
	}
	for _, p := range t.Posters {
		r.buildPoster(p)
	}
	slices.SortFunc(r.Posters, func(a, b Poster) int { return cmp.Compare(a.Slot, b.Slot) })

	for _, spec := range t.Items {
		a, err := reg.Build(spec)
		if err != nil {
			return nil, err
		}
		r.attach(r.Root, a.Root)
		if spec.Name != "" {
			r.Items[spec.Name] = a
		}
		for _, h := range []string{HandleShirtBody, HandleShirtHang} {
			if e := a.Handle(h); e != nil {
				r.Shirt = append(r.Shirt, e)
			}
		}
	}

	if l := t.Lamp; l != nil {
		a, err := reg.Build(ItemSpec{Kind: "lamp", Name: "lamp", Placement: l.Placement})
		if err != nil {
			return nil, err
		}
		r.attach(r.Root, a.Root)
		r.Items["lamp"] = a
		r.LampLight = a.Handle(HandleLight)
		r.LampLight.Light.Intensity = l.Intensity
		r.LampLight.Light.Distance = l.Distance
		r.LampLight.Visible = l.On
	}

	if pb := t.PlayButton; pb != nil {
		a, err := reg.Build(ItemSpec{Kind: "play-button", Size: dims{pb.Radius}, Placement: pb.Placement})
		if err != nil {
			return nil, err
		}
		r.attach(r.Root, a.Root)
		r.PlayButton = a.Root
		r.playButtonBase = a.Root.Transform.Position
	}

	for _, ls := range t.Lights {
		if err := r.buildLight(world, ls); err != nil {
			return nil, err
		}
	}

	if s := t.Street; s != nil {
		r.Grid = NewGrid(s.Divisions, s.TileSize, s.TileColor)
		r.attach(r.Root, r.Grid.Root())
		if s.RoadPath {
			r.Grid.ActivateRoadPath()
		}
		r.Buildings = NewBuildingSet(g, r.Root, s.BuildingBase.vec(), s.Limits, s.PlacementRange, rng)
		for _, b := range s.Buildings {
			r.Buildings.Create(b.Color, b.X, b.Z)
		}
	}
	return r, nil
}

// attach adds child under parent during construction, where failure means
// a builder returned a shared entity.
func (r *Room) attach(parent, child *scene.Entity) {
	if err := r.Graph.Attach(parent, child); err != nil {
		panic(fmt.Sprintf("room %s: attach %s: %v", r.Template.Name, child.Name, err))
	}
}

func (r *Room) buildInterior(in *InteriorSpec) {
	w, h, d := in.Size[0], in.Size[1], in.Size[2]

	r.WallMaterial = scene.NewMaterial(in.WallColor)
	back := scene.NewMesh("back-wall", primitive.Box(w, h, in.WallThickness), r.WallMaterial).Tag(scene.TagWall)
	back.Transform.Position = math.V3(0, h/2, -d/2)
	left := scene.NewMesh("left-wall", primitive.Box(d, h, in.WallThickness), r.WallMaterial).Tag(scene.TagWall)
	left.Transform.Position = math.V3(-w/2, h/2, 0)
	left.Transform.Rotation.Y = gomath.Pi / 2
	right := scene.NewMesh("right-wall", primitive.Box(d, h, in.WallThickness), r.WallMaterial).Tag(scene.TagWall)
	right.Transform.Position = math.V3(w/2, h/2, 0)
	right.Transform.Rotation.Y = gomath.Pi / 2
	r.Walls = []*scene.Entity{back, left, right}
	for _, wall := range r.Walls {
		r.attach(r.Root, wall)
	}

	r.Floor = scene.NewMesh("floor", primitive.Plane(w, d), scene.NewMaterial(in.FloorColor)).Tag(scene.TagFloor)
	r.Floor.Transform.Rotation.X = -gomath.Pi / 2
	r.attach(r.Root, r.Floor)

	win := in.Windows
	start := -win.Spacing * float32(win.Count-1) / 2
	for i := range win.Count {
		m := scene.NewMaterial(win.Color)
		m.Unlit = true
		e := scene.NewMesh("window", primitive.Plane(win.Size[0], win.Size[1]), m).Tag(scene.TagWindow)
		e.Transform.Position = math.V3(start+float32(i)*win.Spacing, win.Height, -d/2+in.WallThickness)
		r.attach(r.Root, e)
		r.Windows = append(r.Windows, e)
	}
}

func (r *Room) buildPoster(p PosterSpec) {
	m := scene.NewMaterial(scene.Hex(0xffffff))
	m.Unlit = true
	e := scene.NewMesh(fmt.Sprintf("poster-%d", p.Slot), primitive.Plane(p.Size[0], p.Size[1]), m).Tag(scene.TagPoster)
	e.Transform = p.Placement.Transform()
	r.attach(r.Root, e)
	r.Posters = append(r.Posters, Poster{Slot: p.Slot, Key: p.Key, Default: p.Default, Entity: e})
}

func (r *Room) buildLight(world *scene.Entity, ls LightSpec) error {
	kind, err := scene.ParseLightKind(ls.Kind)
	if err != nil {
		return err
	}
	l := &scene.Light{
		Kind:       kind,
		Color:      ls.Color,
		Intensity:  ls.Intensity,
		Distance:   ls.Distance,
		Decay:      ls.Decay,
		Angle:      ls.Angle * gomath.Pi / 180,
		Penumbra:   ls.Penumbra,
		CastShadow: ls.CastShadow,
	}
	if kind == scene.LightPoint || kind == scene.LightSpot {
		if l.Decay == 0 {
			l.Decay = 2
		}
	}
	parent := world
	if ls.InRoom {
		parent = r.Root
	}

	switch {
	case ls.Target != "":
		a, ok := r.Items[ls.Target]
		if !ok {
			return fmt.Errorf("light %q: unknown target %q", ls.Name, ls.Target)
		}
		l.Target = a.Root
	case ls.TargetPosition != nil:
		target := scene.New(ls.Name + "-target")
		target.Transform.Position = ls.TargetPosition.vec()
		r.attach(parent, target)
		l.Target = target
	}

	e := scene.NewLight(ls.Name, l)
	e.Transform.Position = ls.Position.vec()
	r.attach(parent, e)
	return nil
}

// Poster returns the poster in slot.
func (r *Room) Poster(slot int) (Poster, bool) {
	for _, p := range r.Posters {
		if p.Slot == slot {
			return p, true
		}
	}
	return Poster{}, false
}

// Name returns the template name.
func (r *Room) Name() string { return r.Template.Name }

// Background returns the clear color.
func (r *Room) Background() scene.Color { return r.Template.Background }

// IsStreet reports whether the room has the grid and building editor.
func (r *Room) IsStreet() bool { return r.Grid != nil }

// HasAudio reports whether the room plays music.
func (r *Room) HasAudio() bool {
	return r.Template.Audio != nil && r.Template.Audio.Track != "" && r.PlayButton != nil
}

// Bob moves the play button to its bobbing height for wall-clock time t in
// milliseconds.
func (r *Room) Bob(tMillis float64) {
	pb := r.Template.PlayButton
	if r.PlayButton == nil || pb == nil {
		return
	}
	offset := gomath.Sin(tMillis*float64(pb.BobSpeed)) * float64(pb.Bob)
	r.PlayButton.Transform.Position.Y = r.playButtonBase.Y + float32(offset)
}
