package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/vitrine/internal/config"
	"github.com/taigrr/vitrine/internal/logger"
	"github.com/taigrr/vitrine/pkg/models"
	"github.com/taigrr/vitrine/pkg/render"
	"github.com/taigrr/vitrine/pkg/viewer"
)

func newSnapshotCmd(flags *config.Flags) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "snapshot <model.glb>",
		Short: "Render one frame of a model to a PNG file",
		Long: "Load a model, frame it the way the interactive viewer does and write\n" +
			"a single rendered frame as PNG. --width and --height set the image size.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags, args)
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Logging.Level, "", true); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync()
			return runSnapshot(cmd.Context(), cfg, out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "snapshot.png", "Output PNG path")
	return cmd
}

// snapshotSize returns the image size: the explicit viewer size where set,
// otherwise the configured snapshot size.
func snapshotSize(cfg *config.Config) (width, height int) {
	width, height = cfg.Render.SnapshotWidth, cfg.Render.SnapshotHeight
	if cfg.Viewer.Width > 0 {
		width = cfg.Viewer.Width
	}
	if cfg.Viewer.Height > 0 {
		height = cfg.Viewer.Height
	}
	return width, height
}

func runSnapshot(ctx context.Context, cfg *config.Config, out string) error {
	log := logger.Named("snapshot")
	w, h := snapshotSize(cfg)

	container := viewer.NewStaticContainer(containerID(cfg), w, h)
	sr := render.NewSceneRenderer(w, h)

	vcfg := cfg.ViewerConfig()
	vcfg.ShowGUI = false

	v, err := viewer.New(viewer.NewStaticDocument(container), vcfg,
		viewer.WithLogger(logger.Named("viewer")),
		viewer.WithRenderer(sr),
	)
	if err != nil {
		return err
	}
	defer v.Close()

	if err := v.WaitIdle(ctx); err != nil {
		return fmt.Errorf("wait for model: %w", err)
	}
	if v.Current() == nil {
		return errors.New("no model was installed, see the log for the load error")
	}
	v.Advance(0)

	if err := sr.Framebuffer().SavePNG(out); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	log.Info("snapshot written",
		zap.String("model", v.Current().Filename),
		zap.String("path", out),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("triangles", sr.Stats.Triangles),
	)
	return nil
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <model.glb>",
		Short: "Display model information",
		Long:  "Display node, mesh, vertex and triangle counts, the bounding box and the animation clips of a glTF or GLB model.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := models.NewGLTFLoader().Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load model: %w", err)
			}
			printInfo(cmd.OutOrStdout(), m)
			return nil
		},
	}
}

func printInfo(w io.Writer, m *models.Model) {
	meshes, vertices, triangles := m.Root.Stats()
	nodes := 0
	m.Root.Traverse(func(*models.Node) { nodes++ })

	fmt.Fprintf(w, "File:       %s\n", filepath.Base(m.Path))
	fmt.Fprintf(w, "Name:       %s\n", m.Name)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Nodes:      %d\n", nodes)
	fmt.Fprintf(w, "Meshes:     %d\n", meshes)
	fmt.Fprintf(w, "Vertices:   %d\n", vertices)
	fmt.Fprintf(w, "Triangles:  %d\n", triangles)

	if b := m.Root.Bounds(); !b.IsEmpty() {
		size, center := b.Size(), b.Center()
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Bounds Min: (%.3f, %.3f, %.3f)\n", b.Min.X, b.Min.Y, b.Min.Z)
		fmt.Fprintf(w, "Bounds Max: (%.3f, %.3f, %.3f)\n", b.Max.X, b.Max.Y, b.Max.Z)
		fmt.Fprintf(w, "Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
		fmt.Fprintf(w, "Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)
	}

	if len(m.Clips) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Animations: %d\n", len(m.Clips))
		for _, c := range m.Clips {
			fmt.Fprintf(w, "  %-20s %6.2fs  %d tracks\n", c.Name, c.Duration, len(c.Tracks))
		}
	}
}
