package room

import (
	"time"

	"github.com/Faultbox/creaoverse/internal/engine/camera"
	"github.com/Faultbox/creaoverse/internal/engine/scene"
)

// Drawer renders a graph through a camera.
type Drawer interface {
	Draw(g *scene.Graph, cam *camera.OrbitCamera, background scene.Color)
}

// Loop runs the per-frame work for one room. Mutations may happen at any
// point between frames; each frame reads whatever state the graph holds.
type Loop struct {
	Room      *Room
	State     *ControlState
	Router    *Router
	Posters   *PosterLoader
	Colorizer *Colorizer
	Drawer    Drawer

	frames uint64
}

// Frame advances controls and animation to wall-clock time now and draws.
func (l *Loop) Frame(now time.Time) {
	r := l.Room
	r.Camera.Update()
	r.Bob(float64(now.UnixMilli()))

	if l.Posters != nil {
		l.Posters.Drain(r)
	}
	if l.Router != nil {
		l.Router.SyncPlayback()
	}
	if l.Colorizer != nil {
		l.Colorizer.Update(l.State.Playing)
	}
	if l.Drawer != nil {
		l.Drawer.Draw(r.Graph, r.Camera, r.Background())
	}
	l.frames++
}

// Frames returns the number of frames run.
func (l *Loop) Frames() uint64 { return l.frames }
