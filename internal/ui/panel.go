package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/creaoverse/internal/engine/scene"
	"github.com/Faultbox/creaoverse/internal/room"
)

const panelWidth = 300

// panel is the edit panel. Widget values are read back from the room each
// frame so the panel never holds state of its own beyond edit buffers.
type panel struct {
	wall     [3]float32
	wallRoom *room.Room
	dims     [5]float32
}

func (p *panel) draw(s *Shell) {
	vp := imgui.MainViewport()
	pos, size := vp.WorkPos(), vp.WorkSize()
	imgui.SetNextWindowPos(imgui.NewVec2(pos.X+size.X-panelWidth-10, pos.Y+10))
	imgui.SetNextWindowSize(imgui.NewVec2(panelWidth, 0))
	imgui.SetNextWindowBgAlpha(0.85)
	flags := imgui.WindowFlagsNoResize | imgui.WindowFlagsNoMove | imgui.WindowFlagsNoCollapse |
		imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoSavedSettings
	if imgui.BeginV("Edit", nil, flags) {
		p.drawRooms(s)
		r := s.app.Room()
		if r != nil {
			if r.IsStreet() {
				p.drawStreet(s, r)
			} else {
				p.drawInterior(s, r)
			}
		}
	}
	imgui.End()
}

func (p *panel) drawRooms(s *Shell) {
	current := ""
	if r := s.app.Room(); r != nil {
		current = r.Name()
	}
	imgui.Text("Room")
	for i, name := range s.app.Rooms() {
		if i > 0 {
			imgui.SameLine()
		}
		if imgui.SelectableBoolV(name, name == current, 0, imgui.NewVec2(70, 0)) && name != current {
			s.control(room.ControlRoom, name)
		}
	}
	imgui.Separator()
}

func (p *panel) drawInterior(s *Shell, r *room.Room) {
	if len(r.Walls) > 0 {
		if p.wallRoom != r {
			c, _ := r.WallColor()
			p.wall = c.Array()
			p.wallRoom = r
		}
		if imgui.ColorEdit3("Wall color", &p.wall) {
			s.control(room.ControlWallColor, scene.Color{R: p.wall[0], G: p.wall[1], B: p.wall[2]})
		}
	}

	for _, poster := range r.Posters {
		label := fmt.Sprintf("Upload poster %d", poster.Slot)
		if s.uploads.picking(poster.Slot) {
			imgui.BeginDisabledV(true)
			imgui.Button(label)
			imgui.EndDisabled()
			continue
		}
		if imgui.Button(label) {
			s.uploads.pick(poster.Slot, s.log)
		}
		imgui.SameLine()
		if imgui.Button(fmt.Sprintf("Reset##poster%d", poster.Slot)) {
			s.control(room.ControlResetPoster, poster.Slot)
		}
		if tex := poster.Entity.Mesh.Material.Texture(); tex != nil {
			imgui.SameLine()
			imgui.TextDisabled(tex.Source)
		}
	}

	if r.LampLight != nil {
		on := r.LampOn()
		if imgui.Checkbox("Lamp", &on) {
			s.control(room.ControlLamp, on)
		}
	}

	if r.PlayButton != nil {
		imgui.Spacing()
		if s.app.State().Playing {
			imgui.TextColored(imgui.NewVec4(1, 0.4, 0.4, 1), "Playing: click the red button to pause")
		} else {
			imgui.TextColored(imgui.NewVec4(0.4, 1, 0.4, 1), "Paused: click the green button to play")
		}
	}
	if len(r.Shirt) > 0 {
		imgui.TextDisabled("Click the shirt to change its color")
	}
}

func (p *panel) drawStreet(s *Shell, r *room.Room) {
	st := s.app.State()

	road := st.RoadMode
	if imgui.Checkbox("Road mode", &road) {
		s.control(room.ControlRoadMode, road)
	}
	if road {
		imgui.SameLine()
		if imgui.Button("Draw road") {
			s.control(room.ControlRoadPath, nil)
		}
		imgui.TextDisabled(fmt.Sprintf("%d of %d tiles active", r.Grid.ActiveCount(), r.Grid.Len()))
	}
	imgui.Separator()

	imgui.Text("Buildings")
	set := r.Buildings
	if imgui.BeginListBoxV("##buildings", imgui.NewVec2(-1, 110)) {
		for _, b := range set.All() {
			x, z := b.Position()
			label := fmt.Sprintf("#%d %s (%.0f, %.0f)", b.ID, b.Color(), x, z)
			if imgui.SelectableBoolV(label, b.ID == st.Selected, 0, imgui.NewVec2(0, 0)) {
				s.control(room.ControlSelectBuilding, b.ID)
			}
		}
		imgui.EndListBox()
	}
	if imgui.Button("Add") {
		s.control(room.ControlAddBuilding, nil)
	}
	imgui.SameLine()
	imgui.BeginDisabledV(set.Len() == 0)
	if imgui.Button("Remove last") {
		s.control(room.ControlRemoveBuilding, nil)
	}
	imgui.EndDisabled()

	if b, _, ok := set.ByID(st.Selected); ok {
		p.drawBuildingEditor(s, set.Limits(), b)
	} else {
		imgui.TextDisabled("Click a building to edit it")
	}

	imgui.Separator()
	cam := r.Camera.Position()
	imgui.Text(fmt.Sprintf("Camera: %.1f, %.1f, %.1f", cam.X, cam.Y, cam.Z))
}

func (p *panel) drawBuildingEditor(s *Shell, l room.BuildingLimits, b *room.Building) {
	dim := b.Dimensions()
	x, z := b.Position()
	p.dims = [5]float32{dim.X, dim.Y, dim.Z, x, z}

	sliders := [5]struct {
		label    string
		id       string
		min, max float32
	}{
		{"Width", room.ControlBuildingWidth, l.MinWidth, l.MaxWidth},
		{"Height", room.ControlBuildingHeight, l.MinHeight, l.MaxHeight},
		{"Depth", room.ControlBuildingDepth, l.MinDepth, l.MaxDepth},
		{"X", room.ControlBuildingX, -l.MaxPosition, l.MaxPosition},
		{"Z", room.ControlBuildingZ, -l.MaxPosition, l.MaxPosition},
	}

	imgui.Text(fmt.Sprintf("Building #%d", b.ID))
	for i, sl := range sliders {
		imgui.SetNextItemWidth(200)
		if imgui.SliderFloatV(sl.label, &p.dims[i], sl.min, sl.max, "%.0f", imgui.SliderFlagsNone) {
			s.control(sl.id, p.dims[i])
		}
	}
}
