package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/atelier/internal/config"
	"github.com/jmylchreest/atelier/internal/server"
	"github.com/jmylchreest/atelier/internal/version"
)

func newServeCmd(global *globalOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API.

Routes:
  GET  /health
  POST /api/ai/analyze-design    {"imageUrl": "..."}
  POST /api/ai/find-matches      {"imageUrl": "...", "designAttributes": {...}, "criteria": {...}}
  GET  /api/ai/color-analysis?imageUrl=...

Configuration is read from --config (or ./atelier.yaml, /etc/atelier/atelier.yaml)
and ATELIER_* environment variables, e.g. ATELIER_SERVER_PORT=9090.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			logger := serverLogger(cfg, global.verbose, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides server.port)")

	return cmd
}

// serverLogger logs at the configured level, or debug with --verbose.
func serverLogger(cfg *config.Config, verbose bool, out io.Writer) hclog.Logger {
	level := hclog.LevelFromString(cfg.Log.Level)
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "atelier",
		Output: out,
		Level:  level,
	})
}

func runServer(ctx context.Context, cfg *config.Config, logger hclog.Logger) error {
	logger.Info("starting atelier", "version", version.Short(),
		"catalog", cfg.Catalog.Source, "cache", cfg.Cache.Type,
		"classifier", cfg.Classifier.Type, "algorithm", cfg.Extraction.Algorithm)

	svc, release, err := newService(ctx, cfg, true, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(context.Background()); err != nil {
			logger.Warn("failed to release resources", "error", err)
		}
	}()

	handler := server.NewHandler(svc, logger.Named("http"))
	router := server.SetupRouter(cfg.Server, handler, logger.Named("http"))

	return server.Run(ctx, cfg.Server, router, logger)
}
