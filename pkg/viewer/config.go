package viewer

import "github.com/taigrr/vitrine/pkg/models"

// Config is captured once by New and never changes afterward.
// Start from DefaultConfig: the zero value disables controls and the panel.
type Config struct {
	// ContainerID names the mount point resolved through the Document.
	ContainerID string
	// ModelsDirectory is prefixed to every filename passed to LoadModel.
	// It may be a local directory or an http(s) URL.
	ModelsDirectory string
	// Models lists the selectable filenames. The first one loads on start.
	Models []string

	BackgroundColor uint32
	EnableControls  bool
	ShowGUI         bool
	Lighting        LightingConfig

	// OnModelLoad is called with the decoded asset after it is installed.
	OnModelLoad func(*models.Model)

	// Width and Height fix the output size when both are non-zero.
	// Otherwise the viewer follows the container.
	Width  int
	Height int
}

// LightingConfig tunes the light rig.
type LightingConfig struct {
	// AmbientIntensity of the ambient light. Zero selects the default.
	AmbientIntensity float64
}

const (
	DefaultContainerID      = "my-model-viewer"
	DefaultModelsDirectory  = "/models/"
	DefaultBackgroundColor  = 0xffffff
	DefaultAmbientIntensity = 0.5
)

// DefaultConfig returns the configuration used when no option is given.
func DefaultConfig() Config {
	return Config{
		ContainerID:     DefaultContainerID,
		ModelsDirectory: DefaultModelsDirectory,
		BackgroundColor: DefaultBackgroundColor,
		EnableControls:  true,
		ShowGUI:         true,
	}
}

// fixed reports whether an explicit size was given.
func (c Config) fixed() bool {
	return c.Width != 0 && c.Height != 0
}

func (c Config) ambientIntensity() float64 {
	if c.Lighting.AmbientIntensity == 0 {
		return DefaultAmbientIntensity
	}
	return c.Lighting.AmbientIntensity
}
