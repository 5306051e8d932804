// vitrine - 3D model viewer for glTF and GLB files, hosted in the terminal.
//
// Controls:
//
//	Mouse drag  - Orbit the camera around the model
//	Scroll      - Zoom in/out
//	W/S/A/D     - Orbit up/down/left/right
//	+/-         - Zoom in/out
//	Tab / N, P  - Next / previous model
//	X           - Toggle wireframe
//	R           - Reload and reframe the current model
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/vitrine/internal/config"
	"github.com/taigrr/vitrine/internal/logger"
	"github.com/taigrr/vitrine/pkg/viewer"
)

var version = "dev"

const controlsHelp = `Controls:
  Mouse drag  - Orbit the camera
  Scroll      - Zoom in/out
  W/S/A/D     - Orbit up/down/left/right
  +/-         - Zoom in/out
  Tab / N, P  - Next / previous model
  X           - Toggle wireframe
  R           - Reload and reframe the current model
  ?           - Toggle HUD overlay
  Esc         - Quit`

func main() {
	err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags config.Flags

	cmd := &cobra.Command{
		Use:   "vitrine [model.glb ...]",
		Short: "View glTF models in your terminal",
		Long: "vitrine renders glTF and GLB models in the terminal with orbit controls,\n" +
			"a model picker and a wireframe toggle.\n\n" + controlsHelp,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &flags, args)
			if err != nil {
				return err
			}
			if len(cfg.Viewer.Models) == 0 {
				return errors.New("no models: pass model files or set viewer.models in the config file")
			}
			// The viewer owns the screen, so only the log file is written.
			if err := logger.Init(cfg.Logging.Level, cfg.Logging.File, false); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync()
			return runViewer(cmd.Context(), cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.ConfigPath, config.FlagConfig, "", "Config file (YAML or TOML)")
	pf.StringVar(&flags.Background, config.FlagBG, "", "Background color (#rrggbb)")
	pf.Float64Var(&flags.Ambient, config.FlagAmbient, viewer.DefaultAmbientIntensity, "Ambient light intensity")
	pf.IntVar(&flags.Width, config.FlagWidth, 0, "Fixed output width in pixels")
	pf.IntVar(&flags.Height, config.FlagHeight, 0, "Fixed output height in pixels")
	pf.StringVar(&flags.LogLevel, config.FlagLogLevel, "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.LogFile, config.FlagLogFile, "", "Log file path")
	pf.BoolVar(&flags.Debug, config.FlagDebug, false, "Log at debug level")

	f := cmd.Flags()
	f.StringVar(&flags.ModelsDir, config.FlagModelsDir, "", "Directory or http(s) URL the models are read from")
	f.StringSliceVar(&flags.Models, config.FlagModel, nil, "Model file names inside the models directory")
	f.BoolVar(&flags.NoControls, config.FlagNoControl, false, "Disable orbit controls")
	f.BoolVar(&flags.NoPanel, config.FlagNoPanel, false, "Hide the settings panel")
	f.IntVar(&flags.FPS, config.FlagFPS, 60, "Target FPS")
	f.BoolVar(&flags.Watch, config.FlagWatch, false, "Reload the current model when its file changes")

	cmd.AddCommand(newSnapshotCmd(&flags), newInfoCmd(), newConfigCmd())
	return cmd
}

// resolveConfig layers the config file, the flags and the positional
// model paths, then validates the result.
func resolveConfig(cmd *cobra.Command, flags *config.Flags, args []string) (*config.Config, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := flags.Apply(cfg, cmd.Flags().Changed); err != nil {
		return nil, err
	}
	applyModelArgs(cfg, args)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyModelArgs points the viewer at the directory of the first path and
// lists every path by base name. Paths are expected to share a directory.
func applyModelArgs(cfg *config.Config, args []string) {
	if len(args) == 0 {
		return
	}
	cfg.Viewer.ModelsDirectory = filepath.Dir(args[0])
	cfg.Viewer.Models = make([]string, len(args))
	for i, a := range args {
		cfg.Viewer.Models[i] = filepath.Base(a)
	}
}

func containerID(cfg *config.Config) string {
	return cmp.Or(cfg.Viewer.ContainerID, viewer.DefaultContainerID)
}
