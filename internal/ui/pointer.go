package ui

// clickSlop is how far, in pixels, the pointer may travel between press
// and release for the gesture to still count as a click.
const clickSlop = 4

// pointer turns raw mouse samples over the scene viewport into orbit drags
// and clicks. A press must start over the viewport; once pressed, the
// gesture continues outside it until release.
type pointer struct {
	held    bool // raw button state of the previous sample
	down    bool // a gesture is in progress
	dragged bool
	startX  float32
	startY  float32
	lastX   float32
	lastY   float32
}

// gesture is the result of one sample.
type gesture struct {
	DX, DY float32 // movement since the previous sample while pressed
	Click  bool    // released without dragging
	X, Y   float32 // release position for clicks
}

// update consumes a sample. x and y are relative to the viewport.
func (p *pointer) update(pressed, hovered bool, x, y float32) gesture {
	var g gesture
	pressEdge := pressed && !p.held
	p.held = pressed
	switch {
	case pressEdge:
		if hovered {
			p.down, p.dragged = true, false
			p.startX, p.startY = x, y
		}
	case pressed && p.down:
		g.DX, g.DY = x-p.lastX, y-p.lastY
		if abs(x-p.startX) > clickSlop || abs(y-p.startY) > clickSlop {
			p.dragged = true
		}
	case !pressed && p.down:
		p.down = false
		if !p.dragged && hovered {
			g.Click, g.X, g.Y = true, x, y
		}
	}
	p.lastX, p.lastY = x, y
	return g
}

// active reports whether a press is in progress.
func (p *pointer) active() bool { return p.down }

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
