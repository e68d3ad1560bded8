package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/sabdamanthan/internal/config"
	"github.com/turtacn/sabdamanthan/internal/inference"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/sabdamanthan/internal/interfaces/http"
	"github.com/turtacn/sabdamanthan/internal/interfaces/http/handlers"
	"github.com/turtacn/sabdamanthan/internal/interfaces/http/middleware"
	"github.com/turtacn/sabdamanthan/internal/panel"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

type serveOptions struct {
	host string
	port int
}

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo page and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := *cliCtx.Config
			if opts.host != "" {
				cfg.Server.Host = opts.host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = opts.port
			}
			if cmd.Flags().Changed("lang") {
				cfg.UI.DefaultLocale = string(cliCtx.Locale)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, &cfg, cliCtx.Verbose)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port (overrides server.port)")
	return cmd
}

// runServe wires the web shell for cfg and runs it until ctx is done.
func runServe(ctx context.Context, cfg *config.Config, verbose bool) error {
	logCfg := cfg.Log
	if verbose {
		logCfg.Level = logging.LevelDebug
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync(logger) }()

	var (
		metrics   = prometheus.NewNoopAppMetrics()
		collector prometheus.MetricsCollector
	)
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return err
		}
		metrics = prometheus.NewAppMetrics(collector)
	}

	base, cache, closeCache, err := buildPredictor(ctx, cfg, metrics, logger)
	if err != nil {
		return err
	}
	defer closeCache()
	predictor := inference.NewSwitch(base)

	opts := panelOptions(cfg, metrics, logger)
	store := panel.NewStore(predictor, opts, cfg.UI.SessionTTL, nlp.ParseLocale(cfg.UI.DefaultLocale))
	pages, err := handlers.NewPageHandler(store, logger.Named("pages"))
	if err != nil {
		return err
	}

	checkers := []handlers.HealthChecker{handlers.NewChecker("inference", predictor.Ping)}
	if cache != nil {
		checkers = append(checkers, handlers.NewChecker("cache", cache.Ping))
	}
	cors := middleware.NewCORSMiddleware(middleware.DefaultCORSConfig(cfg.UI.CORSOrigins))

	router := httpserver.NewRouter(httpserver.RouterConfig{
		PageHandler:      pages,
		APIHandler:       handlers.NewAPIHandler(predictor, opts, logger.Named("api")),
		HealthHandler:    handlers.NewHealthHandler(Version, checkers...),
		CORSMiddleware:   cors,
		Logging:          middleware.DefaultLoggingConfig(),
		Logger:           logger.Named("access"),
		Metrics:          metrics,
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
		MaxBodySize:      cfg.Server.MaxBodySize,
	})
	server := httpserver.NewServer(cfg.Server, router, logger)

	if cfg.Source != "" {
		current := cfg.Inference
		err := config.Watch(cfg.Source, logger.Named("config"), func(next *config.Config) {
			if err := logging.SetLevel(logger, next.Log.Level); err != nil {
				logger.Warn("log level not changed", logging.Err(err))
			}
			cors.SetAllowedOrigins(next.UI.CORSOrigins)
			if next.Inference == current {
				return
			}
			p, err := inference.Build(next.Inference, cache, next.Cache.TTL, metrics, logger)
			if err != nil {
				logger.Warn("inference settings not applied", logging.Err(err))
				return
			}
			predictor.Set(p)
			current = next.Inference
			logger.Info("inference backend switched",
				logging.String("base_url", next.Inference.BaseURL),
				logging.Bool("mock", next.Inference.Mock))
		})
		if err != nil {
			logger.Warn("config watch disabled", logging.Err(err))
		}
	}

	logger.Info("starting sabdamanthan",
		logging.String("version", Version),
		logging.String("addr", cfg.Server.Addr()),
		logging.Bool("mock", cfg.Inference.Mock),
		logging.Bool("cache", cache != nil),
		logging.Bool("metrics", cfg.Metrics.Enabled))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx) })
	g.Go(func() error { return store.Run(gctx) })
	return g.Wait()
}
