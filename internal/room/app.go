package room

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/creaoverse/internal/logger"
	"github.com/Faultbox/creaoverse/internal/storage"
)

// ControlRoom switches the active room; its value is the template name.
const ControlRoom = "room"

// AudioBackend is the playback device music runs on. audio.Manager
// implements it.
type AudioBackend interface {
	Init() error
	Load(name string, data []byte, loop bool) error
	TrackName() string
	Toggle() (bool, error)
	Pause() error
	Playing() bool
}

// Options configures an App. Only Library is required.
type Options struct {
	Library  *Library
	Registry *Registry
	Store    storage.Store
	Assets   AssetSource
	Audio    AudioBackend
	Spectrum Spectrum
	Drawer   Drawer
	Rand     *rand.Rand
}

// App owns the single active room and everything wired to it.
type App struct {
	opts    Options
	log     *zap.Logger
	posters *PosterLoader
	music   *music

	state  ControlState
	room   *Room
	router *Router
	loop   *Loop

	viewW, viewH float32
}

// NewApp creates an app with no room; call Switch to build one.
func NewApp(opts Options) *App {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Library == nil {
		opts.Library = NewLibrary("")
	}
	if opts.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	a := &App{
		opts:    opts,
		log:     logger.Named("app"),
		posters: NewPosterLoader(opts.Store, opts.Assets),
	}
	if opts.Audio != nil {
		a.music = &music{backend: opts.Audio, assets: opts.Assets}
	}
	return a
}

// Switch tears down the current room and builds the named one. The edit
// mode carries over; everything else resets. On error the current room
// stays active.
func (a *App) Switch(name string) error {
	t, err := a.opts.Library.Load(name)
	if err != nil {
		return err
	}
	r, err := Build(t, a.opts.Registry, a.opts.Rand)
	if err != nil {
		return fmt.Errorf("build room %s: %w", name, err)
	}

	a.posters.Invalidate()
	if a.music != nil {
		a.music.pause()
	}
	a.state = ControlState{Mode: a.state.Mode}
	a.room = r
	if a.viewW > 0 && a.viewH > 0 {
		r.Camera.SetViewport(a.viewW, a.viewH)
	}

	var player Player
	var colorizer *Colorizer
	if a.music != nil && r.HasAudio() {
		a.music.track = r.Template.Audio
		player = a.music
		if a.opts.Spectrum != nil {
			colorizer = NewColorizer(r.Windows, a.opts.Spectrum, 128)
		}
	}
	a.router = NewRouter(r, &a.state, a.posters, player, a.opts.Rand)
	a.loop = &Loop{
		Room:      r,
		State:     &a.state,
		Router:    a.router,
		Posters:   a.posters,
		Colorizer: colorizer,
		Drawer:    a.opts.Drawer,
	}
	SetPlayButtonState(r.PlayButton, false)
	a.posters.Restore(r)

	a.log.Info("room active", zap.String("room", name), zap.Int("entities", r.Graph.Len()))
	return nil
}

// Reload rebuilds the active room when name is its template.
func (a *App) Reload(name string) error {
	if a.room == nil || a.room.Name() != name {
		return nil
	}
	return a.Switch(name)
}

// Room returns the active room.
func (a *App) Room() *Room { return a.room }

// State returns the control state.
func (a *App) State() *ControlState { return &a.state }

// Router returns the active room's router.
func (a *App) Router() *Router { return a.router }

// Posters returns the poster loader.
func (a *App) Posters() *PosterLoader { return a.posters }

// Rooms lists the available templates.
func (a *App) Rooms() []string { return a.opts.Library.Names() }

// SetViewport records the scene viewport size in pixels.
func (a *App) SetViewport(w, h float32) {
	a.viewW, a.viewH = w, h
	if a.room != nil {
		a.room.Camera.SetViewport(w, h)
	}
}

// Control routes a panel event. ControlRoom is handled here; the rest go
// to the room's router.
func (a *App) Control(id string, value any) error {
	if id == ControlRoom {
		name, ok := value.(string)
		if !ok {
			return valueError(id, value)
		}
		return a.Switch(name)
	}
	if a.router == nil {
		return errors.New("room: no active room")
	}
	return a.router.Control(id, value)
}

// Click handles a primary click at pixel (x, y) of the viewport.
func (a *App) Click(x, y float32) {
	if a.router != nil {
		a.router.ClickAt(x, y, a.viewW, a.viewH)
	}
}

// Frame runs one frame at wall-clock time now.
func (a *App) Frame(now time.Time) {
	if a.loop != nil {
		a.loop.Frame(now)
	}
}

// Close waits for outstanding decodes and pauses the music.
func (a *App) Close() {
	a.posters.Wait()
	if a.music != nil {
		a.music.pause()
	}
}

// music adapts an AudioBackend to the play button. The device is opened
// on the first click and the room's track is loaded on demand.
type music struct {
	backend AudioBackend
	assets  AssetSource
	track   *AudioSpec
	ready   bool
}

func (m *music) Prepare() error {
	if !m.ready {
		if err := m.backend.Init(); err != nil {
			return err
		}
		m.ready = true
	}
	if m.track == nil || m.backend.TrackName() == m.track.Track {
		return nil
	}
	if m.assets == nil {
		return fmt.Errorf("load track %s: no asset source", m.track.Track)
	}
	data, err := m.assets.Load(m.track.Track)
	if err != nil {
		return fmt.Errorf("load track %s: %w", m.track.Track, err)
	}
	return m.backend.Load(m.track.Track, data, m.track.Loop)
}

func (m *music) Toggle() (bool, error) {
	if err := m.Prepare(); err != nil {
		return false, err
	}
	return m.backend.Toggle()
}

func (m *music) Playing() bool {
	return m.ready && m.backend.Playing()
}

func (m *music) pause() {
	if m.ready && m.backend.Playing() {
		_ = m.backend.Pause()
	}
}
