package main

import (
	"math"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/vitrine/pkg/viewer"
)

const (
	keyRotateStep = math.Pi / 36 // 5 degrees per key press
	dollyStep     = 0.1          // log-radius per wheel notch or key press
)

type action int

const (
	actionNone action = iota
	actionQuit
	actionToggleHUD
)

// input maps terminal events to viewer operations. It tracks the mouse
// drag between events.
type input struct {
	dragging     bool
	lastX, lastY int
}

func (in *input) handle(ev uv.Event, v *viewer.Viewer) action {
	orbit := v.Controls()

	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("esc", "ctrl+c"):
			return actionQuit
		case ev.MatchString("?", "shift+/"):
			return actionToggleHUD
		case ev.MatchString("x"):
			v.ToggleWireframe(!v.Wireframe())
		case ev.MatchString("tab", "n"):
			if p := v.Panel(); p != nil {
				p.Cycle(1)
			}
		case ev.MatchString("shift+tab", "p"):
			if p := v.Panel(); p != nil {
				p.Cycle(-1)
			}
		case ev.MatchString("r"):
			if orbit != nil {
				orbit.Stop()
			}
			if cur := v.Current(); cur != nil {
				v.LoadModel(cur.Filename)
			}
		}
		if orbit == nil {
			return actionNone
		}
		switch {
		case ev.MatchString("w", "up"):
			orbit.Rotate(0, keyRotateStep)
		case ev.MatchString("s", "down"):
			orbit.Rotate(0, -keyRotateStep)
		case ev.MatchString("a", "left"):
			orbit.Rotate(keyRotateStep, 0)
		case ev.MatchString("d", "right"):
			orbit.Rotate(-keyRotateStep, 0)
		case ev.MatchString("="), ev.Text == "+":
			orbit.Dolly(-dollyStep)
		case ev.MatchString("-", "_"):
			orbit.Dolly(dollyStep)
		}

	case uv.MouseClickEvent:
		in.dragging = true
		in.lastX, in.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		in.dragging = false

	case uv.MouseMotionEvent:
		if !in.dragging || orbit == nil {
			return actionNone
		}
		dx, dy := ev.X-in.lastX, ev.Y-in.lastY
		in.lastX, in.lastY = ev.X, ev.Y

		// A full drag across the viewport height is one turn. Rows are
		// two pixels tall.
		_, h := v.Size()
		if h <= 0 {
			return actionNone
		}
		turn := 2 * math.Pi / float64(h)
		orbit.Rotate(turn*float64(dx), turn*float64(2*dy))

	case uv.MouseWheelEvent:
		if orbit == nil {
			return actionNone
		}
		switch ev.Button {
		case uv.MouseWheelUp:
			orbit.Dolly(-dollyStep)
		case uv.MouseWheelDown:
			orbit.Dolly(dollyStep)
		}
	}
	return actionNone
}
