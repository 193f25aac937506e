package cmd

import (
	"log/slog"

	"github.com/grafana/resolveref/cli/internal/config"
	"github.com/grafana/resolveref/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		listen     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve ref resolution over HTTP",
		Long: `Serve ref resolution over HTTP until interrupted.

  GET /resolve?owner=<owner>&repo=<repo>[&ref=<ref>]
  GET /healthz

A request may carry its own token in an "Authorization: token <t>" or
"Authorization: Bearer <t>" header; otherwise the --token flag or
RESOLVEREF_TOKEN/GITHUB_TOKEN is used.

Settings are read from --config (YAML with listen, baseURL, userAgent and
timeout keys). Flags given on the command line override the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}

			flags := cmd.Flags()
			if flags.Changed("listen") {
				cfg.Listen = listen
			}
			if flags.Changed("base-url") || cfg.BaseURL == "" {
				cfg.BaseURL = baseURL
			}
			if flags.Changed("timeout") || cfg.Timeout == 0 {
				cfg.Timeout = timeout
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(slog.LevelInfo)
			r, err := newResolver(logger, cfg.BaseURL, cfg.UserAgent, cfg.Timeout)
			if err != nil {
				return err
			}

			srv, err := server.New(server.Config{
				Address: cfg.Listen,
				Handler: server.NewHandler(r,
					server.WithDefaultToken(authConfig().Token),
					server.WithLogger(logger),
				),
				Logger: logger,
			})
			if err != nil {
				return err
			}

			if err := srv.Serve(cmd.Context()); err != nil {
				return &exitError{code: ExitFailure, err: err}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&listen, "listen", config.DefaultListen, "Listen address")

	return cmd
}
