package room

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/creaoverse/internal/engine/picking"
	"github.com/Faultbox/creaoverse/internal/engine/scene"
	"github.com/Faultbox/creaoverse/internal/logger"
)

// Control identifiers delivered by the edit panel. Values: wall-color takes
// a scene.Color, string or uint32; lamp and road-mode a bool; poster a
// PosterUpload; reset-poster a slot; toggle-tile an index and select a
// building ID (0 clears); the building-* controls a number. The rest ignore
// their value.
const (
	ControlToggleEdit     = "toggle-edit"
	ControlWallColor      = "wall-color"
	ControlLamp           = "lamp"
	ControlPoster         = "poster"
	ControlResetPoster    = "reset-poster"
	ControlTogglePlay     = "toggle-play"
	ControlRandomizeShirt = "shirt"
	ControlRoadMode       = "road-mode"
	ControlRoadPath       = "road-path"
	ControlToggleTile     = "toggle-tile"
	ControlSelectBuilding = "select"
	ControlBuildingWidth  = "building-w"
	ControlBuildingHeight = "building-h"
	ControlBuildingDepth  = "building-d"
	ControlBuildingX      = "building-x"
	ControlBuildingZ      = "building-z"
	ControlAddBuilding    = "add-building"
	ControlRemoveBuilding = "remove-building"
)

var (
	// ErrUnknownControl is returned for control identifiers the router does
	// not handle.
	ErrUnknownControl = errors.New("room: unknown control")
	// ErrControlValue is returned when a control value has the wrong type.
	ErrControlValue = errors.New("room: invalid control value")
)

// PosterUpload carries a user-selected image for a poster slot.
type PosterUpload struct {
	Slot   int
	Data   []byte
	Source string
}

// Player is the music playback the play button drives.
type Player interface {
	// Prepare sets up audio output. It is called on the first click and
	// must be idempotent.
	Prepare() error
	Toggle() (bool, error)
	Playing() bool
}

// Router turns pointer clicks and panel controls into commands on one
// room. It must be used from the render thread.
type Router struct {
	room    *Room
	state   *ControlState
	posters *PosterLoader
	player  Player
	rng     *rand.Rand
	log     *zap.Logger

	prepared bool
}

// NewRouter creates a router for r. posters and player may be nil.
func NewRouter(r *Room, state *ControlState, posters *PosterLoader, player Player, rng *rand.Rand) *Router {
	rt := &Router{
		room:    r,
		state:   state,
		posters: posters,
		player:  player,
		rng:     rng,
		log:     logger.Named("router"),
	}
	r.Graph.OnDetach(rt.dropSelection)
	return rt
}

// dropSelection clears the building selection when its entity leaves the
// graph.
func (rt *Router) dropSelection(top *scene.Entity) {
	if rt.state.Selected == 0 || rt.room.Buildings == nil {
		return
	}
	if b, _, ok := rt.room.Buildings.ByID(rt.state.Selected); ok && rt.room.Graph.Contains(b.Entity) {
		return
	}
	rt.log.Debug("selection detached", zap.Int("building", rt.state.Selected), zap.String("entity", top.Name))
	rt.state.Selected = 0
}

// bindings returns the interactive tags in priority order, highest first.
// Tiles only respond in road mode.
func (rt *Router) bindings() []scene.Tag {
	tags := make([]scene.Tag, 0, len(rt.room.Template.Bindings))
	for _, t := range rt.room.Template.Bindings {
		if t == scene.TagTile && !rt.state.RoadMode {
			continue
		}
		tags = append(tags, t)
	}
	return tags
}

// bound walks from e towards the root and returns the first entity
// carrying a bound tag, with the highest-priority tag it carries.
func bound(e *scene.Entity, tags []scene.Tag) (*scene.Entity, scene.Tag, bool) {
	for ; e != nil; e = e.Parent() {
		for _, t := range tags {
			if e.HasTag(t) {
				return e, t, true
			}
		}
	}
	return nil, "", false
}

// ClickAt handles a primary click at pixel (x, y) of a w by h viewport.
func (rt *Router) ClickAt(x, y, w, h float32) (scene.Tag, bool) {
	if w <= 0 || h <= 0 {
		return "", false
	}
	ray := picking.ScreenToRay(x, y, w, h, rt.room.Camera.InverseViewProjection())
	return rt.Click(ray)
}

// Click casts ray into the room and runs the command bound to the nearest
// interactive entity. Exactly one command runs per click: the nearest hit
// wins, and among its tags the binding listed first wins.
func (rt *Router) Click(ray picking.Ray) (scene.Tag, bool) {
	rt.prepare()

	tags := rt.bindings()
	if len(tags) == 0 {
		return "", false
	}
	hit, ok := picking.Nearest(ray, rt.room.Graph.Visible(), func(e *scene.Entity) bool {
		_, _, ok := bound(e, tags)
		return ok
	})
	if !ok {
		return "", false
	}
	target, tag, _ := bound(hit.Entity, tags)
	rt.log.Debug("click", zap.String("tag", string(tag)), zap.String("entity", target.Name), zap.Float32("distance", hit.Distance))

	switch tag {
	case scene.TagPlayButton:
		rt.TogglePlay()
	case scene.TagShirt:
		rt.RandomizeShirt()
	case scene.TagTile:
		if idx, ok := rt.room.Grid.IndexOf(target); ok {
			rt.room.ToggleGridTile(idx)
		}
	case scene.TagBuilding:
		if b, ok := rt.room.Buildings.Of(target); ok {
			rt.state.Selected = b.ID
		}
	case scene.TagLamp:
		rt.room.SetLampOn(!rt.room.LampOn())
	}
	return tag, true
}

// prepare sets up audio on the first click.
func (rt *Router) prepare() {
	if rt.prepared || rt.player == nil || !rt.room.HasAudio() {
		return
	}
	rt.prepared = true
	if err := rt.player.Prepare(); err != nil {
		rt.log.Warn("audio setup failed", zap.Error(err))
	}
}

// TogglePlay starts or pauses the music and recolors the play button.
func (rt *Router) TogglePlay() {
	if rt.player == nil {
		rt.state.Playing = !rt.state.Playing
	} else {
		rt.prepare()
		playing, err := rt.player.Toggle()
		if err != nil {
			rt.log.Warn("toggle playback", zap.Error(err))
			return
		}
		rt.state.Playing = playing
	}
	SetPlayButtonState(rt.room.PlayButton, rt.state.Playing)
	rt.log.Debug("playback", zap.Bool("playing", rt.state.Playing))
}

// RandomizeShirt gives the shirt a new random color.
func (rt *Router) RandomizeShirt() {
	if len(rt.room.Shirt) == 0 {
		return
	}
	c := RandomizeShirtColor(rt.room.Shirt, rt.rng)
	rt.log.Debug("shirt recolored", zap.Stringer("color", c))
}

// SyncPlayback mirrors the player's state, for example after a track ends.
func (rt *Router) SyncPlayback() {
	if rt.player == nil || !rt.state.Playing || rt.player.Playing() {
		return
	}
	rt.state.Playing = false
	SetPlayButtonState(rt.room.PlayButton, false)
}

// Control applies one panel event. Numeric values are clamped by the
// commands; values of the wrong type return ErrControlValue.
func (rt *Router) Control(id string, value any) error {
	r := rt.room
	switch id {
	case ControlToggleEdit:
		m := rt.state.ToggleEditMode()
		rt.log.Debug("edit mode", zap.Stringer("mode", m))
	case ControlWallColor:
		c, err := colorValue(value)
		if err != nil {
			return err
		}
		r.SetWallColor(c)
	case ControlLamp:
		on, ok := value.(bool)
		if !ok {
			return valueError(id, value)
		}
		r.SetLampOn(on)
	case ControlPoster:
		up, ok := value.(PosterUpload)
		if !ok {
			return valueError(id, value)
		}
		p, ok := r.Poster(up.Slot)
		if !ok {
			rt.log.Warn("unknown poster slot", zap.Int("slot", up.Slot))
			return nil
		}
		if rt.posters == nil {
			return nil
		}
		rt.posters.Upload(p.Slot, p.Key, up.Data, up.Source)
	case ControlResetPoster:
		slot, ok := value.(int)
		if !ok {
			return valueError(id, value)
		}
		p, ok := r.Poster(slot)
		if !ok || rt.posters == nil {
			return nil
		}
		rt.posters.Reset(p)
	case ControlTogglePlay:
		rt.TogglePlay()
	case ControlRandomizeShirt:
		rt.RandomizeShirt()
	case ControlRoadMode:
		on, ok := value.(bool)
		if !ok {
			return valueError(id, value)
		}
		rt.state.RoadMode = on
	case ControlRoadPath:
		r.ActivateRoadPath()
	case ControlToggleTile:
		idx, ok := value.(int)
		if !ok {
			return valueError(id, value)
		}
		r.ToggleGridTile(idx)
	case ControlSelectBuilding:
		sel, ok := value.(int)
		if !ok {
			return valueError(id, value)
		}
		if sel != 0 && (r.Buildings == nil || !hasBuilding(r.Buildings, sel)) {
			sel = 0
		}
		rt.state.Selected = sel
	case ControlBuildingWidth, ControlBuildingHeight, ControlBuildingDepth, ControlBuildingX, ControlBuildingZ:
		v, ok := floatValue(value)
		if !ok {
			return valueError(id, value)
		}
		rt.editSelected(id, v)
	case ControlAddBuilding:
		if b := r.AddBuilding(); b != nil {
			rt.state.Selected = b.ID
		}
	case ControlRemoveBuilding:
		r.RemoveBuilding()
	default:
		rt.log.Warn("unknown control", zap.String("id", id))
		return fmt.Errorf("%w: %q", ErrUnknownControl, id)
	}
	return nil
}

// editSelected changes one dimension or coordinate of the selected
// building, keeping the others.
func (rt *Router) editSelected(id string, v float32) {
	set := rt.room.Buildings
	if set == nil {
		return
	}
	b, idx, ok := set.ByID(rt.state.Selected)
	if !ok {
		return
	}
	dim := b.Dimensions()
	x, z := b.Position()
	switch id {
	case ControlBuildingWidth:
		set.SetDimensions(idx, v, dim.Y, dim.Z)
	case ControlBuildingHeight:
		set.SetDimensions(idx, dim.X, v, dim.Z)
	case ControlBuildingDepth:
		set.SetDimensions(idx, dim.X, dim.Y, v)
	case ControlBuildingX:
		set.SetPosition(idx, v, z)
	case ControlBuildingZ:
		set.SetPosition(idx, x, v)
	}
}

func hasBuilding(s *BuildingSet, id int) bool {
	_, _, ok := s.ByID(id)
	return ok
}

func colorValue(v any) (scene.Color, error) {
	switch c := v.(type) {
	case scene.Color:
		return c, nil
	case string:
		return scene.ParseColor(c)
	case uint32:
		return scene.Hex(c), nil
	}
	return scene.Color{}, valueError(ControlWallColor, v)
}

func floatValue(v any) (float32, bool) {
	switch f := v.(type) {
	case float32:
		return f, true
	case float64:
		return float32(f), true
	case int:
		return float32(f), true
	}
	return 0, false
}

func valueError(id string, v any) error {
	return fmt.Errorf("%w: %s got %T", ErrControlValue, id, v)
}
