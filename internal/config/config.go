// Package config loads vitrine settings. Values are layered, lowest
// priority first: Default, a YAML or TOML file, then command-line flags.
package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/taigrr/vitrine/pkg/viewer"
)

// Config holds all settings.
type Config struct {
	Viewer  ViewerSettings  `yaml:"viewer" toml:"viewer"`
	Render  RenderSettings  `yaml:"render" toml:"render"`
	Logging LoggingSettings `yaml:"logging" toml:"logging"`
}

// ViewerSettings mirror viewer.Config.
type ViewerSettings struct {
	ContainerID      string   `yaml:"container_id" toml:"container_id"`
	ModelsDirectory  string   `yaml:"models_directory" toml:"models_directory"`
	Models           []string `yaml:"models" toml:"models"`
	BackgroundColor  uint32   `yaml:"background_color" toml:"background_color"`
	EnableControls   bool     `yaml:"enable_controls" toml:"enable_controls"`
	ShowGUI          bool     `yaml:"show_gui" toml:"show_gui"`
	AmbientIntensity float64  `yaml:"ambient_intensity" toml:"ambient_intensity"`
	Width            int      `yaml:"width" toml:"width"`
	Height           int      `yaml:"height" toml:"height"`
}

// RenderSettings control the terminal loop and snapshots.
type RenderSettings struct {
	FPS   int  `yaml:"fps" toml:"fps"`
	Watch bool `yaml:"watch" toml:"watch"`

	SnapshotWidth  int `yaml:"snapshot_width" toml:"snapshot_width"`
	SnapshotHeight int `yaml:"snapshot_height" toml:"snapshot_height"`
}

// LoggingSettings select the log level and file.
type LoggingSettings struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

// Default returns the built-in settings.
func Default() *Config {
	vc := viewer.DefaultConfig()
	return &Config{
		Viewer: ViewerSettings{
			ContainerID:     vc.ContainerID,
			ModelsDirectory: vc.ModelsDirectory,
			BackgroundColor: vc.BackgroundColor,
			EnableControls:  vc.EnableControls,
			ShowGUI:         vc.ShowGUI,
		},
		Render: RenderSettings{
			FPS:            60,
			SnapshotWidth:  800,
			SnapshotHeight: 600,
		},
		Logging: LoggingSettings{
			Level: "info",
			File:  "vitrine.log",
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Render.FPS <= 0 {
		return fmt.Errorf("render.fps must be positive, got %d", c.Render.FPS)
	}
	if c.Viewer.Width < 0 || c.Viewer.Height < 0 {
		return fmt.Errorf("viewer size must not be negative, got %dx%d", c.Viewer.Width, c.Viewer.Height)
	}
	if c.Viewer.BackgroundColor > 0xffffff {
		return fmt.Errorf("viewer.background_color %#x is not a 24-bit color", c.Viewer.BackgroundColor)
	}
	if c.Viewer.AmbientIntensity < 0 {
		return fmt.Errorf("viewer.ambient_intensity must not be negative, got %v", c.Viewer.AmbientIntensity)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// ViewerConfig converts the viewer settings. OnModelLoad is left for the
// caller to set.
func (c *Config) ViewerConfig() viewer.Config {
	v := c.Viewer
	return viewer.Config{
		ContainerID:     v.ContainerID,
		ModelsDirectory: v.ModelsDirectory,
		Models:          append([]string(nil), v.Models...),
		BackgroundColor: v.BackgroundColor,
		EnableControls:  v.EnableControls,
		ShowGUI:         v.ShowGUI,
		Lighting:        viewer.LightingConfig{AmbientIntensity: v.AmbientIntensity},
		Width:           v.Width,
		Height:          v.Height,
	}
}
