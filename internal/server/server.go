// Package server exposes the matching engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/atelier/internal/config"
)

const shutdownTimeout = 10 * time.Second

// SetupRouter creates and configures the gin router.
func SetupRouter(cfg config.ServerConfig, handler *Handler, logger hclog.Logger) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	router := gin.New()

	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", handler.HealthCheck)

	ai := router.Group("/api/ai")
	{
		ai.POST("/analyze-design", handler.AnalyzeDesign)
		ai.POST("/find-matches", handler.FindMatches)
		ai.GET("/color-analysis", handler.ColorAnalysis)
	}

	return router
}

// Run serves router on the configured port until ctx is cancelled, then
// shuts down gracefully.
func Run(ctx context.Context, cfg config.ServerConfig, router http.Handler, logger hclog.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
