package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap/zapcore"

	"github.com/taigrr/vitrine/pkg/models"
	"github.com/taigrr/vitrine/pkg/viewer"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5f5f87")).
			Foreground(lipgloss.Color("#e4e4e4")).
			Background(lipgloss.Color("#1c1c1c")).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#000000"))
	fpsStyle = statusStyle.
			Foreground(lipgloss.Color("#5fff87"))
	errorStyle = statusStyle.
			Foreground(lipgloss.Color("#ff5f5f")).
			Bold(true)
)

// HUD draws the settings panel and, when enabled, a status line with the
// frame rate, the current model and the last load error.
type HUD struct {
	show bool

	fps       float64
	fpsFrames int
	fpsTime   time.Time

	model     string
	triangles int

	mu      sync.Mutex
	lastErr string
}

func newHUD(now time.Time) *HUD {
	return &HUD{fpsTime: now}
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *HUD) UpdateFPS(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// ModelLoaded records the installed model and clears the last error.
func (h *HUD) ModelLoaded(m *models.Model) {
	h.model = m.Name
	_, _, h.triangles = m.Root.Stats()
	h.mu.Lock()
	h.lastErr = ""
	h.mu.Unlock()
}

// Hook captures error entries for the status line. Install it with
// zap.Hooks.
func (h *HUD) Hook(e zapcore.Entry) error {
	if e.Level >= zapcore.ErrorLevel {
		h.mu.Lock()
		h.lastErr = e.Message
		h.mu.Unlock()
	}
	return nil
}

func (h *HUD) lastError() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErr
}

// Status returns the text of the status line.
func (h *HUD) Status(v *viewer.Viewer) string {
	w, ht := v.Size()
	wire := "[ ]"
	if v.Wireframe() {
		wire = "[x]"
	}
	model := h.model
	if model == "" {
		model = "loading..."
	}
	return fmt.Sprintf(" %s  %d tris  %s %dx%d  %s wireframe ",
		model, h.triangles, v.Mode(), w, ht, wire)
}

// Draw paints the overlay onto scr. container is the area the viewer
// renders into; area is the whole screen.
func (h *HUD) Draw(scr uv.Screen, area, container uv.Rectangle, v *viewer.Viewer) {
	if p := v.Panel(); p != nil {
		box := panelStyle.Render(strings.Join(p.Lines(), "\n"))
		bw, bh := lipgloss.Width(box), lipgloss.Height(box)
		r := uv.Rect(container.Max.X-bw, container.Min.Y, bw, bh).Intersect(area)
		if !r.Empty() {
			uv.NewStyledString(box).Draw(scr, r)
		}
	}

	if !h.show || area.Dy() == 0 {
		return
	}

	line := fpsStyle.Render(fmt.Sprintf(" %.0f FPS ", h.fps)) + statusStyle.Render(h.Status(v))
	if err := h.lastError(); err != "" {
		line += errorStyle.Render(" " + err + " ")
	}
	uv.NewStyledString(line).Draw(scr, uv.Rect(area.Min.X, area.Max.Y-1, area.Dx(), 1))
}
