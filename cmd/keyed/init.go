package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/keyed/internal/config"
	"github.com/vango-dev/keyed/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		dir    string
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Example: `  keyed init
  keyed init --format=yaml --dir=./deploy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := config.JSONFileName
			switch format {
			case "json":
			case "yaml":
				name = config.YAMLFileName
			default:
				return errors.New("E301").WithDetailf("unknown format %q", format).
					WithSuggestion("Use --format=json or --format=yaml")
			}

			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New("E301").WithDetail(path + " already exists").
					WithSuggestion("Pass --force to overwrite it")
			}

			cfg := config.New()
			cfg.Board.Seed = []string{"alpha", "beta", "gamma"}
			if err := cfg.SaveTo(path); err != nil {
				return err
			}

			success(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to write into")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "File format: json or yaml")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
