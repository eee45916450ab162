package room

import (
	"math/rand/v2"

	"github.com/Faultbox/creaoverse/internal/engine/scene"
)

// Play button colors.
var (
	PlayColor  = scene.Hex(0x00ff00)
	PauseColor = scene.Hex(0xff0000)
)

// SetWallColor gives every wall the same color. Walls may share a material.
func SetWallColor(walls []*scene.Entity, c scene.Color) {
	for _, w := range walls {
		if w.Mesh != nil {
			w.Mesh.Material.Color = c
		}
	}
}

// SetLampOn shows or hides the lamp's light.
func SetLampOn(light *scene.Entity, on bool) {
	if light != nil {
		light.Visible = on
	}
}

// SetPosterTexture installs a decoded texture on a poster.
func SetPosterTexture(poster *scene.Entity, tex *scene.Texture) {
	if poster != nil && poster.Mesh != nil {
		poster.Mesh.Material.SetTexture(tex)
	}
}

// RandomizeShirtColor paints every shirt part with one random color and
// returns it.
func RandomizeShirtColor(parts []*scene.Entity, rng *rand.Rand) scene.Color {
	c := scene.Hex(uint32(rng.IntN(0x1000000)))
	for _, p := range parts {
		if p.Mesh != nil {
			p.Mesh.Material.Color = c
		}
	}
	return c
}

// SetPlayButtonState colors the button for the playback state: green
// invites play, red invites pause.
func SetPlayButtonState(button *scene.Entity, playing bool) {
	if button == nil || button.Mesh == nil {
		return
	}
	if playing {
		button.Mesh.Material.Color = PauseColor
	} else {
		button.Mesh.Material.Color = PlayColor
	}
}

// SetWallColor recolors the room's walls.
func (r *Room) SetWallColor(c scene.Color) {
	SetWallColor(r.Walls, c)
}

// WallColor returns the current wall color.
func (r *Room) WallColor() (scene.Color, bool) {
	if len(r.Walls) == 0 {
		return scene.Color{}, false
	}
	return r.Walls[0].Mesh.Material.Color, true
}

// SetLampOn toggles the lamp light, if the room has one.
func (r *Room) SetLampOn(on bool) {
	SetLampOn(r.LampLight, on)
}

// LampOn reports whether the lamp light is visible.
func (r *Room) LampOn() bool {
	return r.LampLight != nil && r.LampLight.Visible
}

// SetBuildingDimensions resizes a building. Out-of-range indexes and rooms
// without buildings are no-ops.
func (r *Room) SetBuildingDimensions(index int, w, h, d float32) bool {
	return r.Buildings != nil && r.Buildings.SetDimensions(index, w, h, d)
}

// SetBuildingPosition moves a building on the ground plane.
func (r *Room) SetBuildingPosition(index int, x, z float32) bool {
	return r.Buildings != nil && r.Buildings.SetPosition(index, x, z)
}

// AddBuilding appends a randomly colored and placed building.
func (r *Room) AddBuilding() *Building {
	if r.Buildings == nil {
		return nil
	}
	return r.Buildings.Add()
}

// RemoveBuilding removes the most recently added building.
func (r *Room) RemoveBuilding() *Building {
	if r.Buildings == nil {
		return nil
	}
	return r.Buildings.Remove()
}

// ToggleGridTile flips one tile.
func (r *Room) ToggleGridTile(index int) bool {
	return r.Grid != nil && r.Grid.Toggle(index)
}

// ActivateRoadPath marks the road tiles active.
func (r *Room) ActivateRoadPath() {
	if r.Grid != nil {
		r.Grid.ActivateRoadPath()
	}
}
