package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/taigrr/vitrine/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		path  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Long: "Write the default configuration to --path, or config.yaml in the\n" +
			"user config directory. The file extension picks YAML or TOML.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = filepath.Join(config.ConfigDir(), "config.yaml")
			}
			return writeDefaultConfig(cmd.OutOrStdout(), path, force)
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "Destination file (.yaml, .yml or .toml)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

// writeDefaultConfig saves the defaults to path. An existing file is kept
// unless force is set.
func writeDefaultConfig(w io.Writer, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if err := config.Default().SaveTo(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(w, "wrote %s\n", path)
	return nil
}
