package cli

import (
	"context"

	"github.com/turtacn/sabdamanthan/internal/config"
	"github.com/turtacn/sabdamanthan/internal/inference"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/database/redis"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/sabdamanthan/internal/panel"
)

func panelOptions(cfg *config.Config, m *prometheus.AppMetrics, log logging.Logger) panel.Options {
	if m == nil {
		m = prometheus.NewNoopAppMetrics()
	}
	return panel.Options{
		MaskToken:          cfg.Inference.MaskToken,
		ContinuationPrefix: cfg.Inference.ContinuationPrefix,
		Metrics:            m,
		Logger:             log,
	}
}

// openCache connects the prediction cache when it is enabled.  The returned
// close function is never nil.
func openCache(ctx context.Context, cfg config.CacheConfig, log logging.Logger) (redis.Cache, func(), error) {
	if !cfg.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(ctx, redis.Config{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	}, log.Named("redis"))
	if err != nil {
		return nil, func() {}, err
	}
	cache := redis.NewRedisCache(client, log.Named("cache"),
		redis.WithPrefix(cfg.Prefix),
		redis.WithDefaultTTL(cfg.TTL),
	)
	return cache, func() { _ = client.Close() }, nil
}

// buildPredictor assembles the predictor stack for cfg.  An unreachable
// cache is logged and skipped so that predictions still work without it.
func buildPredictor(ctx context.Context, cfg *config.Config, m *prometheus.AppMetrics, log logging.Logger) (inference.Predictor, redis.Cache, func(), error) {
	if m == nil {
		m = prometheus.NewNoopAppMetrics()
	}
	cache, closeCache, err := openCache(ctx, cfg.Cache, log)
	if err != nil {
		log.Warn("prediction cache unavailable, continuing without it",
			logging.String("addr", cfg.Cache.Addr), logging.Err(err))
		cache = nil
	}
	p, err := inference.Build(cfg.Inference, cache, cfg.Cache.TTL, m, log)
	if err != nil {
		closeCache()
		return nil, nil, func() {}, err
	}
	return p, cache, closeCache, nil
}

// predictor returns the injected predictor or builds one from the config.
func (c *CLIContext) predictor(ctx context.Context) (inference.Predictor, func(), error) {
	if c.Predictor != nil {
		return c.Predictor, func() {}, nil
	}
	p, _, closeFn, err := buildPredictor(ctx, c.Config, c.PanelOptions.Metrics, c.Logger)
	return p, closeFn, err
}
