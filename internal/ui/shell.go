package ui

import (
	"fmt"
	"image"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/creaoverse/internal/engine/framebuffer"
	"github.com/Faultbox/creaoverse/internal/engine/renderer"
	"github.com/Faultbox/creaoverse/internal/logger"
	"github.com/Faultbox/creaoverse/internal/room"
)

// Target is the offscreen surface the room is drawn into.
type Target interface {
	ColorTexture() uint32
	Size() (int, int)
	Resize(width, height int)
	Snapshot() *image.RGBA
	Stats() renderer.Stats
}

// Options configures the shell.
type Options struct {
	ShowFPS       bool
	ScreenshotDir string
}

// Shell lays out the scene viewport and the edit panel and forwards input
// to the app.
type Shell struct {
	app     *room.App
	target  Target
	opts    Options
	log     *zap.Logger
	pointer pointer
	uploads *uploadQueue
	panel   panel

	shotRequested bool
	status        string
	statusUntil   time.Time
}

// NewShell creates the UI for app drawing into target.
func NewShell(app *room.App, target Target, opts Options) *Shell {
	return &Shell{
		app:     app,
		target:  target,
		opts:    opts,
		log:     logger.Named("ui"),
		uploads: newUploadQueue(),
	}
}

// Title returns the window title for the active room.
func (s *Shell) Title() string {
	if r := s.app.Room(); r != nil {
		return "CREAOverse - " + r.Template.Title
	}
	return "CREAOverse"
}

// Render draws one UI frame. It must run on the main thread.
func (s *Shell) Render() {
	now := time.Now()
	s.uploads.submit(s.app.Control, s.log)
	s.handleKeys()

	vp := imgui.MainViewport()
	imgui.SetNextWindowPos(vp.WorkPos())
	imgui.SetNextWindowSize(vp.WorkSize())
	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoMove |
		imgui.WindowFlagsNoCollapse | imgui.WindowFlagsNoScrollbar | imgui.WindowFlagsNoScrollWithMouse |
		imgui.WindowFlagsNoBringToFrontOnFocus | imgui.WindowFlagsNoSavedSettings
	if imgui.BeginV("##scene", nil, flags) {
		s.drawScene(now)
	}
	imgui.End()
	imgui.PopStyleVar()

	s.drawToolbar()
	if s.app.State().PanelVisible() {
		s.panel.draw(s)
	}
	s.drawStatus(now)
}

func (s *Shell) drawScene(now time.Time) {
	avail := imgui.ContentRegionAvail()
	w, h := int(avail.X), int(avail.Y)
	if w < 1 || h < 1 {
		return
	}
	if tw, th := s.target.Size(); tw != w || th != h {
		s.target.Resize(w, h)
	}
	s.app.SetViewport(avail.X, avail.Y)
	s.app.Frame(now)

	if s.shotRequested {
		s.shotRequested = false
		s.saveScreenshot(now)
	}

	origin := imgui.CursorScreenPos()
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(s.target.ColorTexture()))
	imgui.ImageWithBgV(
		*texRef,
		avail,
		imgui.NewVec2(0, 1), // UV flipped
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0, 0, 0, 1),
		imgui.NewVec4(1, 1, 1, 1),
	)

	hovered := imgui.IsItemHovered()
	mouse := imgui.MousePos()
	g := s.pointer.update(imgui.IsMouseDown(imgui.MouseButtonLeft), hovered, mouse.X-origin.X, mouse.Y-origin.Y)

	r := s.app.Room()
	if r == nil {
		return
	}
	if g.DX != 0 || g.DY != 0 {
		r.Camera.HandleDrag(g.DX, g.DY, avail.Y)
	}
	if g.Click {
		s.app.Click(g.X, g.Y)
	}
	if hovered {
		if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
			r.Camera.HandleZoom(wheel)
		}
	}
}

// drawToolbar shows the always-visible edit toggle.
func (s *Shell) drawToolbar() {
	vp := imgui.MainViewport()
	pos := vp.WorkPos()
	imgui.SetNextWindowPos(imgui.NewVec2(pos.X+10, pos.Y+10))
	imgui.SetNextWindowBgAlpha(0.6)
	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoMove |
		imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoSavedSettings | imgui.WindowFlagsNoFocusOnAppearing
	if imgui.BeginV("##toolbar", nil, flags) {
		label := "Edit"
		if s.app.State().PanelVisible() {
			label = "Done"
		}
		if imgui.Button(label) {
			s.control(room.ControlToggleEdit, nil)
		}
		imgui.SameLine()
		if imgui.Button("Screenshot") {
			s.RequestScreenshot()
		}
		if s.opts.ShowFPS {
			imgui.SameLine()
			st := s.target.Stats()
			imgui.TextDisabled(fmt.Sprintf("%.0f FPS  %d draws  %d textures", imgui.CurrentIO().Framerate(), st.Draws, st.Textures))
		}
	}
	imgui.End()
}

func (s *Shell) drawStatus(now time.Time) {
	if s.status == "" || now.After(s.statusUntil) {
		return
	}
	vp := imgui.MainViewport()
	pos, size := vp.WorkPos(), vp.WorkSize()
	imgui.SetNextWindowPos(imgui.NewVec2(pos.X+10, pos.Y+size.Y-40))
	imgui.SetNextWindowBgAlpha(0.7)
	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoMove |
		imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoSavedSettings | imgui.WindowFlagsNoInputs
	if imgui.BeginV("##status", nil, flags) {
		imgui.Text(s.status)
	}
	imgui.End()
}

func (s *Shell) handleKeys() {
	if imgui.IsAnyItemActive() {
		return
	}
	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyF12)) {
		s.shotRequested = true
	}
	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyE)) {
		s.control(room.ControlToggleEdit, nil)
	}
}

// RequestScreenshot saves the next frame as a PNG.
func (s *Shell) RequestScreenshot() { s.shotRequested = true }

func (s *Shell) saveScreenshot(now time.Time) {
	prefix := "creaoverse"
	if r := s.app.Room(); r != nil {
		prefix = r.Name()
	}
	path, err := framebuffer.SavePNG(s.target.Snapshot(), s.opts.ScreenshotDir, prefix, now)
	if err != nil {
		s.log.Warn("screenshot", zap.Error(err))
		s.notify(now, "Screenshot failed")
		return
	}
	s.log.Info("screenshot saved", zap.String("path", path))
	s.notify(now, "Saved "+path)
}

func (s *Shell) notify(now time.Time, msg string) {
	s.status = msg
	s.statusUntil = now.Add(3 * time.Second)
}

// control forwards a widget event and logs rejected ones.
func (s *Shell) control(id string, value any) {
	if err := s.app.Control(id, value); err != nil {
		s.log.Warn("control rejected", zap.String("id", id), zap.Error(err))
	}
}
