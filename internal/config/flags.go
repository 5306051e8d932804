package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Flag names shared by the commands.
const (
	FlagConfig    = "config"
	FlagModelsDir = "models-dir"
	FlagModel     = "model"
	FlagBG        = "background"
	FlagWidth     = "width"
	FlagHeight    = "height"
	FlagAmbient   = "ambient"
	FlagNoControl = "no-controls"
	FlagNoPanel   = "no-panel"
	FlagFPS       = "fps"
	FlagWatch     = "watch"
	FlagLogLevel  = "log-level"
	FlagLogFile   = "log-file"
	FlagDebug     = "debug"
)

// Flags holds command-line values. Apply copies only the ones the user set.
type Flags struct {
	ConfigPath string
	ModelsDir  string
	Models     []string
	Background string
	Width      int
	Height     int
	Ambient    float64
	NoControls bool
	NoPanel    bool
	FPS        int
	Watch      bool
	LogLevel   string
	LogFile    string
	Debug      bool
}

// Apply overrides cfg with every flag for which changed returns true.
// Pass a cobra command's Flags().Changed.
func (f *Flags) Apply(cfg *Config, changed func(name string) bool) error {
	if changed(FlagModelsDir) {
		cfg.Viewer.ModelsDirectory = f.ModelsDir
	}
	if changed(FlagModel) {
		cfg.Viewer.Models = f.Models
	}
	if changed(FlagBG) {
		c, err := ParseColor(f.Background)
		if err != nil {
			return fmt.Errorf("--%s: %w", FlagBG, err)
		}
		cfg.Viewer.BackgroundColor = c
	}
	if changed(FlagWidth) {
		cfg.Viewer.Width = f.Width
	}
	if changed(FlagHeight) {
		cfg.Viewer.Height = f.Height
	}
	if changed(FlagAmbient) {
		cfg.Viewer.AmbientIntensity = f.Ambient
	}
	if changed(FlagNoControl) {
		cfg.Viewer.EnableControls = !f.NoControls
	}
	if changed(FlagNoPanel) {
		cfg.Viewer.ShowGUI = !f.NoPanel
	}
	if changed(FlagFPS) {
		cfg.Render.FPS = f.FPS
	}
	if changed(FlagWatch) {
		cfg.Render.Watch = f.Watch
	}
	if changed(FlagLogLevel) {
		cfg.Logging.Level = f.LogLevel
	}
	if changed(FlagLogFile) {
		cfg.Logging.File = f.LogFile
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	return nil
}

// ParseColor parses a 24-bit color written as #rrggbb, 0xrrggbb or rrggbb.
func ParseColor(s string) (uint32, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "#"), "0x")
	if len(h) != 6 {
		return 0, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}
