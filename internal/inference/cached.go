package inference

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/turtacn/sabdamanthan/internal/config"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/database/redis"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/sabdamanthan/internal/nepali"
	"github.com/turtacn/sabdamanthan/pkg/errors"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// Cached memoizes a Predictor in Redis.  The cache is an optimization only:
// when Redis misbehaves the call goes straight to the wrapped predictor.
type Cached struct {
	next    Predictor
	backend string
	cache   redis.Cache
	ttl     time.Duration
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewCached wraps next.  backend names the predictor behind next so that
// entries written by one backend are never served for another.  A zero ttl
// uses the cache's default.
func NewCached(next Predictor, backend string, cache redis.Cache, ttl time.Duration, log logging.Logger, m *prometheus.AppMetrics) *Cached {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if m == nil {
		m = prometheus.NewNoopAppMetrics()
	}
	return &Cached{next: next, backend: backend, cache: cache, ttl: ttl, logger: log, metrics: m}
}

// CacheKey is the key, before the cache prefix, under which backend's result
// of task for text is stored.
func CacheKey(backend string, task nlp.Task, text string) string {
	sum := sha256.Sum256([]byte(nepali.Normalize(text)))
	return backend + ":" + string(task) + ":" + hex.EncodeToString(sum[:])
}

// BackendID identifies the predictor cfg selects: "mock" for the simulated
// backend, otherwise "http-" and a short digest of the base URL.
func BackendID(cfg config.InferenceConfig) string {
	if cfg.Mock {
		return "mock"
	}
	sum := sha256.Sum256([]byte(strings.TrimSuffix(cfg.BaseURL, "/")))
	return "http-" + hex.EncodeToString(sum[:6])
}

func (c *Cached) FillMask(ctx context.Context, maskedText string) (*nlp.FillResult, error) {
	var out nlp.FillResult
	err := c.load(ctx, nlp.TaskFillMask, maskedText, &out, func(ctx context.Context) (interface{}, error) {
		return c.next.FillMask(ctx, maskedText)
	})
	if err == errDegraded {
		return c.next.FillMask(ctx, maskedText)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Cached) NER(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error) {
	return c.spans(ctx, nlp.TaskNER, text, c.next.NER)
}

func (c *Cached) POS(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error) {
	return c.spans(ctx, nlp.TaskPOS, text, c.next.POS)
}

// Unwrap returns the wrapped predictor.
func (c *Cached) Unwrap() Predictor { return c.next }

// Ping checks the wrapped predictor.  Cache health is reported separately.
func (c *Cached) Ping(ctx context.Context) error { return c.next.Ping(ctx) }

type spanFunc func(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error)

func (c *Cached) spans(ctx context.Context, task nlp.Task, text string, call spanFunc) ([]nlp.AnnotatedSpan, error) {
	var out []nlp.AnnotatedSpan
	err := c.load(ctx, task, text, &out, func(ctx context.Context) (interface{}, error) {
		return call(ctx, text)
	})
	if err == errDegraded {
		return call(ctx, text)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

var errDegraded = errors.New(errors.ErrCodeCacheError, "cache unavailable")

// load fills dest from the cache or from loader.  It returns errDegraded when
// the failure lies with the cache rather than the predictor.
func (c *Cached) load(ctx context.Context, task nlp.Task, text string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	loaded := false
	err := c.cache.GetOrSet(ctx, CacheKey(c.backend, task, text), dest, c.ttl, func(ctx context.Context) (interface{}, error) {
		loaded = true
		return loader(ctx)
	})
	if err == nil {
		c.metrics.RecordCache(string(task), !loaded)
		return nil
	}
	if isCacheFault(err) {
		c.logger.Warn("prediction cache degraded, calling predictor directly",
			logging.Task(string(task)), logging.Err(err))
		return errDegraded
	}
	return err
}

func isCacheFault(err error) bool {
	return errors.IsCode(err, errors.ErrCodeCacheError) || errors.IsCode(err, errors.ErrCodeSerialization)
}
