package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/koios/plotbox/internal/encoder"
	"github.com/koios/plotbox/internal/handlers"
	"github.com/koios/plotbox/internal/plugin"
	"github.com/koios/plotbox/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand(opts *options) *cobra.Command {
	var (
		port        int
		pluginsPath string
		workers     int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the plot gallery over HTTP and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if port > 0 {
				cfg.Server.Port = port
			}
			if pluginsPath != "" {
				cfg.Plugins.Path = pluginsPath
			}
			if workers > 0 {
				cfg.Encoder.Workers = workers
			}

			plugins := models.NewPluginRegistry(plugin.Plugin())
			if cfg.Plugins.Path != "" {
				if err := plugins.LoadPlugins(cfg.Plugins.Path); err != nil {
					logger.Error("Failed to load plugins", zap.Error(err))
				}
				for name, err := range plugins.Skipped() {
					logger.Warn("Skipped plugin", zap.String("dir", name), zap.Error(err))
				}
			}

			g := newGallery(cfg, logger)
			pool := encoder.NewPool(cfg.Encoder.Workers, g.Encoder(), logger)
			pool.Start()
			defer pool.Stop()
			g.WithPool(pool)

			mux := http.NewServeMux()
			handlers.NewPlotHandler(g, plugins, logger).RegisterRoutes(mux)

			httpServer := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:      mux,
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server",
					zap.Int("port", cfg.Server.Port),
					zap.Int("plugins", len(plugins.List())))
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			// Wait for interrupt signal to gracefully shutdown
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				logger.Error("HTTP server failed", zap.Error(err))
				return err
			case <-quit:
			}

			logger.Info("Shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown failed", zap.Error(err))
				return err
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides SERVER_PORT)")
	cmd.Flags().StringVar(&pluginsPath, "plugins-path", "", "directory of extra plugin manifests (overrides PLUGINS_PATH)")
	cmd.Flags().IntVar(&workers, "workers", 0, "encoder workers (overrides ENCODER_WORKERS)")

	return cmd
}
