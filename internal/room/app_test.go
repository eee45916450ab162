package room

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/Faultbox/creaoverse/internal/engine/camera"
	"github.com/Faultbox/creaoverse/internal/engine/scene"
	"github.com/Faultbox/creaoverse/internal/storage"
)

type fakeBackend struct {
	inits   int
	loads   []string
	track   string
	playing bool
}

func (b *fakeBackend) Init() error { b.inits++; return nil }

func (b *fakeBackend) Load(name string, data []byte, loop bool) error {
	b.loads = append(b.loads, name)
	b.track = name
	b.playing = false
	return nil
}

func (b *fakeBackend) TrackName() string { return b.track }

func (b *fakeBackend) Toggle() (bool, error) {
	if b.track == "" {
		return false, errors.New("no track")
	}
	b.playing = !b.playing
	return b.playing, nil
}

func (b *fakeBackend) Pause() error { b.playing = false; return nil }

func (b *fakeBackend) Playing() bool { return b.playing }

type recordingDrawer struct {
	draws      int
	graph      *scene.Graph
	background scene.Color
}

func (d *recordingDrawer) Draw(g *scene.Graph, _ *camera.OrbitCamera, bg scene.Color) {
	d.draws++
	d.graph = g
	d.background = bg
}

func newTestApp(t *testing.T, opts Options) *App {
	t.Helper()
	if opts.Rand == nil {
		opts.Rand = testRand()
	}
	a := NewApp(opts)
	t.Cleanup(a.Close)
	return a
}

func TestAppSwitch(t *testing.T) {
	a := newTestApp(t, Options{Store: storage.NewMemStore()})
	if err := a.Switch("bedroom"); err != nil {
		t.Fatal(err)
	}
	if a.Room().Name() != "bedroom" {
		t.Fatalf("expected bedroom, got %s", a.Room().Name())
	}

	a.Control(ControlToggleEdit, nil)
	a.Control(ControlRoadMode, true)
	if err := a.Control(ControlRoom, "studio"); err != nil {
		t.Fatal(err)
	}
	if a.Room().Name() != "studio" {
		t.Errorf("expected studio, got %s", a.Room().Name())
	}
	if a.State().Mode != Editing {
		t.Error("expected edit mode to survive a room switch")
	}
	if a.State().RoadMode {
		t.Error("expected road mode reset")
	}

	current := a.Room()
	if err := a.Switch("attic"); !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("expected ErrUnknownTemplate, got %v", err)
	}
	if a.Room() != current {
		t.Error("expected failed switch to keep the current room")
	}
	if err := a.Control(ControlRoom, 3); !errors.Is(err, ErrControlValue) {
		t.Errorf("expected ErrControlValue, got %v", err)
	}
}

func TestAppNoRoom(t *testing.T) {
	a := newTestApp(t, Options{})
	if err := a.Control(ControlLamp, true); err == nil {
		t.Error("expected error without a room")
	}
	a.Click(1, 1)
	a.Frame(time.Now())
}

func TestAppReload(t *testing.T) {
	a := newTestApp(t, Options{})
	if err := a.Switch("bedroom"); err != nil {
		t.Fatal(err)
	}
	before := a.Room()
	if err := a.Reload("street"); err != nil || a.Room() != before {
		t.Errorf("expected other templates ignored, err %v", err)
	}
	if err := a.Reload("bedroom"); err != nil {
		t.Fatal(err)
	}
	if a.Room() == before {
		t.Error("expected the active room rebuilt")
	}
}

func TestAppMusic(t *testing.T) {
	backend := &fakeBackend{}
	spectrum := &fixedSpectrum{value: 255, bins: 128}
	a := newTestApp(t, Options{
		Audio:    backend,
		Spectrum: spectrum,
		Assets:   mapAssets{"sample.mp3": []byte("mp3")},
	})
	if err := a.Switch("studio"); err != nil {
		t.Fatal(err)
	}

	a.Frame(time.UnixMilli(0))
	if spectrum.calls != 0 {
		t.Error("expected no spectrum reads before playback")
	}

	if err := a.Control(ControlTogglePlay, nil); err != nil {
		t.Fatal(err)
	}
	if backend.inits != 1 || len(backend.loads) != 1 || backend.loads[0] != "sample.mp3" {
		t.Fatalf("expected lazy init and track load, got %d inits, loads %v", backend.inits, backend.loads)
	}
	if !a.State().Playing || !backend.playing {
		t.Fatal("expected playback")
	}

	a.Frame(time.UnixMilli(16))
	for i, w := range a.Room().Windows {
		if w.Mesh.Material.Color != SpectrumColor(255) {
			t.Errorf("window %d not tinted: %v", i, w.Mesh.Material.Color)
		}
	}

	a.Control(ControlTogglePlay, nil)
	a.Control(ControlTogglePlay, nil)
	if backend.inits != 1 || len(backend.loads) != 1 {
		t.Errorf("expected setup to run once, got %d inits and %d loads", backend.inits, len(backend.loads))
	}

	backend.playing = false
	a.Frame(time.UnixMilli(32))
	if a.State().Playing {
		t.Error("expected the loop to notice the track ended")
	}

	a.Control(ControlTogglePlay, nil)
	if err := a.Switch("bedroom"); err != nil {
		t.Fatal(err)
	}
	if backend.playing {
		t.Error("expected switching rooms to pause the music")
	}
}

func TestAppMissingTrack(t *testing.T) {
	backend := &fakeBackend{}
	a := newTestApp(t, Options{Audio: backend, Assets: mapAssets{}})
	if err := a.Switch("studio"); err != nil {
		t.Fatal(err)
	}
	a.Control(ControlTogglePlay, nil)
	if a.State().Playing {
		t.Error("expected playback to stay off without the track")
	}
	if a.Room().PlayButton.Mesh.Material.Color != PlayColor {
		t.Error("expected green button")
	}
}

func TestAppPosterAcrossSwitch(t *testing.T) {
	store := storage.NewMemStore()
	a := newTestApp(t, Options{Store: store})
	if err := a.Switch("bedroom"); err != nil {
		t.Fatal(err)
	}

	up := PosterUpload{Slot: 0, Data: pngBytes(t, 2, 2, color.RGBA{255, 255, 0, 255}), Source: "late.png"}
	if err := a.Control(ControlPoster, up); err != nil {
		t.Fatal(err)
	}
	if err := a.Switch("studio"); err != nil {
		t.Fatal(err)
	}
	a.Posters().Wait()
	a.Frame(time.Now())

	if got := posterSource(a.Room(), 0); got != "placeholder:0" {
		t.Errorf("expected upload from the previous room dropped, got %q", got)
	}
	if _, ok, _ := store.Get("poster1"); ok {
		t.Error("expected stale upload not persisted")
	}

	if err := a.Control(ControlPoster, "poster.png"); !errors.Is(err, ErrControlValue) {
		t.Errorf("expected ErrControlValue, got %v", err)
	}
}

func TestLoopFrame(t *testing.T) {
	drawer := &recordingDrawer{}
	a := newTestApp(t, Options{Drawer: drawer})
	if err := a.Switch("studio"); err != nil {
		t.Fatal(err)
	}
	a.SetViewport(800, 600)
	if got := a.Room().Camera.Aspect(); got != 800.0/600 {
		t.Errorf("expected aspect 4:3, got %v", got)
	}

	base := a.Room().PlayButton.Transform.Position.Y
	quarter := time.UnixMilli(314) // sin(314 * 0.005) is close to 1
	a.Frame(quarter)
	if d := a.Room().PlayButton.Transform.Position.Y - base; d < 0.049 || d > 0.051 {
		t.Errorf("expected the play button near the top of its bob, offset %v", d)
	}
	if drawer.draws != 1 || drawer.graph != a.Room().Graph {
		t.Errorf("expected one draw of the room graph, got %d", drawer.draws)
	}
	if drawer.background != scene.Hex(0xf0f0f0) {
		t.Errorf("expected room background, got %v", drawer.background)
	}
	if a.loop.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", a.loop.Frames())
	}
}
