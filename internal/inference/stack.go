package inference

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/turtacn/sabdamanthan/internal/config"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/database/redis"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// Build assembles the predictor described by cfg: the HTTP client or the
// mock, then the cache when cache is non-nil, then instrumentation.
func Build(cfg config.InferenceConfig, cache redis.Cache, cacheTTL time.Duration, m *prometheus.AppMetrics, log logging.Logger) (Predictor, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	log = log.Named("inference")

	var base Predictor
	if cfg.Mock {
		log.Info("using simulated inference backend")
		base = NewMock(WithMockMaskToken(cfg.MaskToken))
	} else {
		c, err := NewClient(cfg.BaseURL, WithTimeout(cfg.Timeout), WithLogger(log))
		if err != nil {
			return nil, err
		}
		base = c
	}

	if cache != nil {
		base = NewCached(base, BackendID(cfg), cache, cacheTTL, log, m)
	}
	return NewInstrumented(base, m, log), nil
}

// Switch is a Predictor whose implementation can be replaced while requests
// are in flight.  Calls already started finish on the old predictor.
type Switch struct {
	current atomic.Pointer[predictorBox]
}

type predictorBox struct{ p Predictor }

// NewSwitch returns a Switch serving p.
func NewSwitch(p Predictor) *Switch {
	s := &Switch{}
	s.Set(p)
	return s
}

// Set replaces the active predictor.
func (s *Switch) Set(p Predictor) { s.current.Store(&predictorBox{p: p}) }

// Get returns the active predictor.
func (s *Switch) Get() Predictor { return s.current.Load().p }

// Unwrap returns the active predictor.
func (s *Switch) Unwrap() Predictor { return s.Get() }

func (s *Switch) FillMask(ctx context.Context, maskedText string) (*nlp.FillResult, error) {
	return s.Get().FillMask(ctx, maskedText)
}

func (s *Switch) NER(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error) {
	return s.Get().NER(ctx, text)
}

func (s *Switch) POS(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error) {
	return s.Get().POS(ctx, text)
}

func (s *Switch) Ping(ctx context.Context) error { return s.Get().Ping(ctx) }
