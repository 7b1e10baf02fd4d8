package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/keyed/internal/config"
	"github.com/vango-dev/keyed/internal/errors"
	"github.com/vango-dev/keyed/pkg/live"
)

func serveCmd() *cobra.Command {
	var (
		dir  string
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live keyed board",
		Long: `Serve a live board backed by a keyed list.

Configuration is read from keyed.json or keyed.yaml in --dir; without one
the defaults are used. KEYED_HOST, KEYED_PORT and KEYED_LOG_LEVEL override
the file, and flags override both.

Examples:
  keyed serve
  keyed serve --port=8080
  keyed serve --dir=./deploy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(dir, os.Getenv)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := cfg.Logger(cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(cmd.OutOrStdout(), "Serving %s on http://%s", cfg.Name, cfg.Address())
			return live.NewServer(cfg, logger).Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory containing keyed.json or keyed.yaml")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")

	return cmd
}

// loadConfig loads the configuration in dir, falling back to defaults when
// there is none, and applies the environment.
func loadConfig(dir string, getenv func(string) string) (*config.Config, error) {
	cfg, err := config.Load(dir)
	if errors.HasCode(err, "E302") {
		cfg, err = config.New(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}
