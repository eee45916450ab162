package room

import (
	"embed"
	"errors"
	"fmt"
	gomath "math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/creaoverse/internal/engine/camera"
	"github.com/Faultbox/creaoverse/internal/engine/scene"
	"github.com/Faultbox/creaoverse/pkg/math"
)

//go:embed templates/*.yaml
var templateFS embed.FS

// ErrUnknownTemplate is returned when no template has the requested name.
var ErrUnknownTemplate = errors.New("room: unknown template")

// vec3 is a YAML triple: [x, y, z].
type vec3 [3]float32

func (v vec3) vec() math.Vec3 { return math.V3(v[0], v[1], v[2]) }

func (v vec3) radians() math.Vec3 {
	return v.vec().Scale(gomath.Pi / 180)
}

// vec2 is a YAML pair: [w, h].
type vec2 [2]float32

// dims holds up to three builder dimensions. Shorter YAML lists leave the
// trailing entries zero, so a rug can be written [w, d] and a sphere [r].
type dims [3]float32

func (d dims) vec() math.Vec3 { return math.V3(d[0], d[1], d[2]) }

// UnmarshalYAML accepts a sequence of one to three numbers.
func (d *dims) UnmarshalYAML(node *yaml.Node) error {
	var vals []float32
	if err := node.Decode(&vals); err != nil {
		return err
	}
	if len(vals) == 0 || len(vals) > len(d) {
		return fmt.Errorf("line %d: size wants 1 to 3 numbers, got %d", node.Line, len(vals))
	}
	*d = dims{}
	copy(d[:], vals)
	return nil
}

// Placement is a local transform with rotation in degrees. A zero scale
// means unit scale.
type Placement struct {
	Position vec3 `yaml:"position"`
	Rotation vec3 `yaml:"rotation"`
	Scale    vec3 `yaml:"scale"`
}

// Transform converts the placement to a scene transform.
func (p Placement) Transform() scene.Transform {
	t := scene.Transform{Position: p.Position.vec(), Rotation: p.Rotation.radians(), Scale: p.Scale.vec()}
	if p.Scale == (vec3{}) {
		t.Scale = math.Splat(1)
	}
	return t
}

// CameraSpec describes the orbit camera. Angles are in degrees.
type CameraSpec struct {
	FOV          float32 `yaml:"fov"`
	Near         float32 `yaml:"near"`
	Far          float32 `yaml:"far"`
	Position     vec3    `yaml:"position"`
	Target       vec3    `yaml:"target"`
	MinDistance  float32 `yaml:"min_distance"`
	MaxDistance  float32 `yaml:"max_distance"`
	PolarCenter  float32 `yaml:"polar_center"`
	PolarRange   float32 `yaml:"polar_range"`
	AzimuthRange float32 `yaml:"azimuth_range"`
	Free         bool    `yaml:"free"`
}

// Limits converts the constraints to camera limits.
func (c CameraSpec) Limits() camera.Limits {
	if c.Free {
		return camera.Unlimited(c.MinDistance, c.MaxDistance)
	}
	rad := float32(gomath.Pi / 180)
	return camera.Limits{
		MinDistance: c.MinDistance,
		MaxDistance: c.MaxDistance,
		MinPolar:    (c.PolarCenter - c.PolarRange) * rad,
		MaxPolar:    (c.PolarCenter + c.PolarRange) * rad,
		MinAzimuth:  -c.AzimuthRange * rad,
		MaxAzimuth:  c.AzimuthRange * rad,
	}
}

// NewCamera builds the orbit camera described by c.
func (c CameraSpec) NewCamera() *camera.OrbitCamera {
	cam := camera.NewOrbitCamera(c.Position.vec(), c.Target.vec(), c.FOV, c.Limits())
	cam.Near, cam.Far = c.Near, c.Far
	return cam
}

// LightSpec describes a light. Lights are attached to the world unless
// InRoom is set, in which case they follow the room offset.
type LightSpec struct {
	Name           string      `yaml:"name"`
	Kind           string      `yaml:"kind"`
	Color          scene.Color `yaml:"color"`
	Intensity      float32     `yaml:"intensity"`
	Distance       float32     `yaml:"distance"`
	Decay          float32     `yaml:"decay"`
	Angle          float32     `yaml:"angle"`
	Penumbra       float32     `yaml:"penumbra"`
	CastShadow     bool        `yaml:"cast_shadow"`
	Position       vec3        `yaml:"position"`
	Target         string      `yaml:"target"`
	TargetPosition *vec3       `yaml:"target_position"`
	InRoom         bool        `yaml:"in_room"`
}

// InteriorSpec describes walls, floor and windows of an indoor room.
type InteriorSpec struct {
	Size          vec3        `yaml:"size"`
	WallThickness float32     `yaml:"wall_thickness"`
	WallColor     scene.Color `yaml:"wall_color"`
	FloorColor    scene.Color `yaml:"floor_color"`
	Windows       WindowSpec  `yaml:"windows"`
}

// WindowSpec lays out windows along the back wall.
type WindowSpec struct {
	Count   int         `yaml:"count"`
	Color   scene.Color `yaml:"color"`
	Size    vec2        `yaml:"size"`
	Spacing float32     `yaml:"spacing"`
	Height  float32     `yaml:"height"`
}

// PosterSpec places an image poster. Key is the storage key uploads are
// persisted under; Default is the asset shown when nothing is stored.
type PosterSpec struct {
	Slot      int    `yaml:"slot"`
	Key       string `yaml:"key"`
	Default   string `yaml:"default"`
	Size      vec2   `yaml:"size"`
	Placement `yaml:",inline"`
}

// ItemSpec places an assembled entity. Fields other than Kind and the
// placement are builder parameters; zero values select builder defaults.
type ItemSpec struct {
	Kind      string       `yaml:"kind"`
	Name      string       `yaml:"name"`
	Size      dims         `yaml:"size"`
	Color     *scene.Color `yaml:"color"`
	Opacity   float32      `yaml:"opacity"`
	Shininess float32      `yaml:"shininess"`
	Text      string       `yaml:"text"`
	Tags      []scene.Tag  `yaml:"tags"`
	Placement `yaml:",inline"`
}

// LampSpec places the desk lamp and sets its initial state.
type LampSpec struct {
	On        bool    `yaml:"on"`
	Intensity float32 `yaml:"intensity"`
	Distance  float32 `yaml:"distance"`
	Placement `yaml:",inline"`
}

// PlayButtonSpec places the bobbing play/pause button.
type PlayButtonSpec struct {
	Radius    float32 `yaml:"radius"`
	Bob       float32 `yaml:"bob"`
	BobSpeed  float32 `yaml:"bob_speed"`
	Placement `yaml:",inline"`
}

// AudioSpec names the music track started by the play button.
type AudioSpec struct {
	Track string `yaml:"track"`
	Loop  bool   `yaml:"loop"`
}

// StreetSpec enables the tile grid and editable buildings.
type StreetSpec struct {
	Divisions      int            `yaml:"divisions"`
	TileSize       float32        `yaml:"tile_size"`
	TileColor      scene.Color    `yaml:"tile_color"`
	BuildingBase   vec3           `yaml:"building_base"`
	Buildings      []BuildingSpec `yaml:"buildings"`
	RoadPath       bool           `yaml:"road_path"`
	PlacementRange float32        `yaml:"placement_range"`
	Limits         BuildingLimits `yaml:"limits"`
}

// BuildingSpec is an initial building.
type BuildingSpec struct {
	Color scene.Color `yaml:"color"`
	X     float32     `yaml:"x"`
	Z     float32     `yaml:"z"`
}

// BuildingLimits bounds the building editor controls.
type BuildingLimits struct {
	MinWidth    float32 `yaml:"min_width"`
	MaxWidth    float32 `yaml:"max_width"`
	MinHeight   float32 `yaml:"min_height"`
	MaxHeight   float32 `yaml:"max_height"`
	MinDepth    float32 `yaml:"min_depth"`
	MaxDepth    float32 `yaml:"max_depth"`
	MaxPosition float32 `yaml:"max_position"`
}

// Template is the declarative description of one room.
type Template struct {
	Name       string          `yaml:"name"`
	Title      string          `yaml:"title"`
	Background scene.Color     `yaml:"background"`
	Offset     vec3            `yaml:"offset"`
	Camera     CameraSpec      `yaml:"camera"`
	Lights     []LightSpec     `yaml:"lights"`
	Interior   *InteriorSpec   `yaml:"interior"`
	Posters    []PosterSpec    `yaml:"posters"`
	Items      []ItemSpec      `yaml:"items"`
	Lamp       *LampSpec       `yaml:"lamp"`
	PlayButton *PlayButtonSpec `yaml:"play_button"`
	Audio      *AudioSpec      `yaml:"audio"`
	Bindings   []scene.Tag     `yaml:"bindings"`
	Street     *StreetSpec     `yaml:"street"`
}

// ParseTemplate decodes and validates a YAML template.
func ParseTemplate(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	t.applyDefaults()
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("template %q: %w", t.Name, err)
	}
	return &t, nil
}

func (t *Template) applyDefaults() {
	c := &t.Camera
	if c.FOV <= 0 {
		c.FOV = 60
	}
	if c.Near <= 0 {
		c.Near = 0.1
	}
	if c.Far <= c.Near {
		c.Far = 1000
	}
	if c.MaxDistance <= 0 {
		c.MaxDistance = float32(gomath.Inf(1))
	}
	if in := t.Interior; in != nil {
		if in.WallThickness <= 0 {
			in.WallThickness = 0.1
		}
		if in.Windows.Spacing <= 0 {
			in.Windows.Spacing = 3
		}
	}
	if pb := t.PlayButton; pb != nil {
		if pb.Radius <= 0 {
			pb.Radius = 0.2
		}
		if pb.BobSpeed <= 0 {
			pb.BobSpeed = 0.005
		}
	}
	if l := t.Lamp; l != nil {
		if l.Intensity <= 0 {
			l.Intensity = 0.5
		}
		if l.Distance <= 0 {
			l.Distance = 3
		}
	}
	if s := t.Street; s != nil {
		if s.BuildingBase == (vec3{}) {
			s.BuildingBase = vec3{40, 30, 40}
		}
		if s.PlacementRange <= 0 {
			s.PlacementRange = 100
		}
		lim := &s.Limits
		if lim.MaxWidth <= 0 {
			*lim = DefaultBuildingLimits()
		}
	}
}

// DefaultBuildingLimits matches the editor's slider ranges.
func DefaultBuildingLimits() BuildingLimits {
	return BuildingLimits{
		MinWidth: 5, MaxWidth: 50,
		MinHeight: 10, MaxHeight: 100,
		MinDepth: 5, MaxDepth: 50,
		MaxPosition: 90,
	}
}

func (t *Template) validate() error {
	if t.Name == "" {
		return errors.New("missing name")
	}
	if t.Camera.MinDistance > t.Camera.MaxDistance {
		return errors.New("camera min_distance exceeds max_distance")
	}
	slots := make(map[int]bool)
	for _, p := range t.Posters {
		if p.Key == "" {
			return fmt.Errorf("poster slot %d: missing key", p.Slot)
		}
		if slots[p.Slot] {
			return fmt.Errorf("poster slot %d: duplicate", p.Slot)
		}
		slots[p.Slot] = true
	}
	for _, l := range t.Lights {
		if _, err := scene.ParseLightKind(l.Kind); err != nil {
			return fmt.Errorf("light %q: %w", l.Name, err)
		}
	}
	if s := t.Street; s != nil && (s.Divisions <= 0 || s.TileSize <= 0) {
		return errors.New("street needs positive divisions and tile_size")
	}
	return nil
}

// Library loads templates, preferring files in an override directory over
// the embedded set.
type Library struct {
	dir string
}

// NewLibrary returns a library reading overrides from dir. An empty dir
// uses only the embedded templates.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// Dir returns the override directory.
func (l *Library) Dir() string { return l.dir }

// Names lists the available template names, sorted.
func (l *Library) Names() []string {
	var names []string
	entries, _ := templateFS.ReadDir("templates")
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	if l.dir != "" {
		matches, _ := filepath.Glob(filepath.Join(l.dir, "*.yaml"))
		for _, m := range matches {
			names = append(names, strings.TrimSuffix(filepath.Base(m), ".yaml"))
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Load reads and parses the named template.
func (l *Library) Load(name string) (*Template, error) {
	data, err := l.read(name)
	if err != nil {
		return nil, err
	}
	return ParseTemplate(data)
}

func (l *Library) read(name string) ([]byte, error) {
	file := filepath.Base(name) + ".yaml"
	if l.dir != "" {
		data, err := os.ReadFile(filepath.Join(l.dir, file))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
	}
	data, err := templateFS.ReadFile("templates/" + file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	return data, nil
}
