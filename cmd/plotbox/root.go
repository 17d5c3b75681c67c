package main

import (
	"github.com/koios/plotbox/internal/config"
	"github.com/koios/plotbox/internal/encoder"
	"github.com/koios/plotbox/internal/figure"
	"github.com/koios/plotbox/internal/gallery"
	"github.com/koios/plotbox/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options are flag overrides applied on top of the environment config
type options struct {
	logLevel string
	dpi      int
}

func newRootCommand(version string) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "plotbox",
		Short: "Embed PNG plots in reactive UI boxes",
		Long: `plotbox renders plots to PNG, wraps them in UI boxes for the
matplotlib client plugin, and serves a demo gallery over WebSocket.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().IntVar(&opts.dpi, "dpi", 0, "figure resolution (overrides FIGURE_DPI)")

	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newPluginCommand())
	rootCmd.AddCommand(newRenderCommand(opts))

	return rootCmd
}

// load reads the environment config and applies flag overrides
func (o *options) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.dpi > 0 {
		cfg.Figure.DPI = o.dpi
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newGallery(cfg *config.Config, logger *zap.Logger) *gallery.Gallery {
	size := cfg.Figure.Size()
	enc := encoder.New(logger, figure.NewRegistry(size))
	return gallery.New(enc, size, logger)
}
