package inference

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/sabdamanthan/pkg/errors"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// Instrumented records the count, outcome and latency of every call.
type Instrumented struct {
	next    Predictor
	metrics *prometheus.AppMetrics
	logger  logging.Logger
}

// NewInstrumented wraps next.
func NewInstrumented(next Predictor, m *prometheus.AppMetrics, log logging.Logger) *Instrumented {
	if m == nil {
		m = prometheus.NewNoopAppMetrics()
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Instrumented{next: next, metrics: m, logger: log}
}

// Unwrap returns the wrapped predictor.
func (p *Instrumented) Unwrap() Predictor { return p.next }

func (p *Instrumented) FillMask(ctx context.Context, maskedText string) (*nlp.FillResult, error) {
	start := time.Now()
	res, err := p.next.FillMask(ctx, maskedText)
	p.observe(nlp.TaskFillMask, start, err)
	return res, err
}

func (p *Instrumented) NER(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error) {
	start := time.Now()
	spans, err := p.next.NER(ctx, text)
	p.observe(nlp.TaskNER, start, err)
	return spans, err
}

func (p *Instrumented) POS(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error) {
	start := time.Now()
	spans, err := p.next.POS(ctx, text)
	p.observe(nlp.TaskPOS, start, err)
	return spans, err
}

func (p *Instrumented) Ping(ctx context.Context) error { return p.next.Ping(ctx) }

func (p *Instrumented) observe(task nlp.Task, start time.Time, err error) {
	d := time.Since(start)
	outcome := Outcome(err)
	p.metrics.RecordInference(string(task), outcome, d)
	if err != nil {
		p.logger.Info("inference call failed",
			logging.Task(string(task)),
			logging.String("outcome", outcome),
			logging.Duration("duration", d),
			logging.Err(err))
	}
}

// Outcome classifies err into a metric label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return prometheus.OutcomeOK
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return prometheus.OutcomeCanceled
	case errors.IsTransport(err):
		return prometheus.OutcomeTransport
	case errors.IsFormat(err):
		return prometheus.OutcomeFormat
	}
	return prometheus.OutcomeError
}
