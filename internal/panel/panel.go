// Package panel holds the per-session state of the three forms: the last
// input, its highlighted result, the candidate selection and the error shown
// to the user.
package panel

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/turtacn/sabdamanthan/internal/highlight"
	"github.com/turtacn/sabdamanthan/internal/inference"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/sabdamanthan/internal/labels"
	"github.com/turtacn/sabdamanthan/internal/nepali"
	"github.com/turtacn/sabdamanthan/pkg/errors"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// ErrBusy rejects a submission while the same panel has one in flight.
var ErrBusy = &errors.AppError{Code: errors.ErrCodeBusy, Message: "a request is already in progress", Key: labels.KeyBusy}

// Options are shared by every panel of a workspace.
type Options struct {
	// MaskToken replaces blanks before a fill-mask request.
	MaskToken string
	// ContinuationPrefix marks sub-word pieces; empty disables merging.
	ContinuationPrefix string
	Metrics            *prometheus.AppMetrics
	Logger             logging.Logger
}

func (o Options) withDefaults() Options {
	if o.MaskToken == "" {
		o.MaskToken = nepali.DefaultMaskToken
	}
	if o.Metrics == nil {
		o.Metrics = prometheus.NewNoopAppMetrics()
	}
	if o.Logger == nil {
		o.Logger = logging.NewNopLogger()
	}
	return o
}

// Panel is one form.  At most one submission runs at a time; a second one
// is rejected with ErrBusy and never queued.
type Panel struct {
	task      nlp.Task
	predictor inference.Predictor
	opts      Options
	isCont    highlight.ContinuationFunc
	strip     func(string) string

	busy atomic.Bool

	mu        sync.RWMutex
	input     string
	text      string
	segments  []highlight.Segment
	dropped   int
	selection *highlight.Selection
	completed []highlight.Token
	err       error
	processed bool
}

// New returns an empty panel for task.
func New(task nlp.Task, predictor inference.Predictor, opts Options) *Panel {
	opts = opts.withDefaults()
	return &Panel{
		task:      task,
		predictor: predictor,
		opts:      opts,
		isCont:    highlight.PrefixContinuation(opts.ContinuationPrefix),
		strip:     highlight.StripPrefix(opts.ContinuationPrefix),
	}
}

// Task returns the panel's task.
func (p *Panel) Task() nlp.Task { return p.task }

// Busy reports whether a submission is in flight.
func (p *Panel) Busy() bool { return p.busy.Load() }

// Submit validates input, runs the prediction and stores the result.  The
// returned error is also kept for display.  A validation failure clears the
// previous result.
func (p *Panel) Submit(ctx context.Context, input string) error {
	if !p.busy.CompareAndSwap(false, true) {
		p.opts.Metrics.RecordBusy(string(p.task))
		return ErrBusy
	}
	defer p.busy.Store(false)

	text := nepali.Normalize(input)
	p.mu.Lock()
	p.input = input
	p.mu.Unlock()

	if err := nepali.Validate(p.task, text); err != nil {
		reason := "unknown"
		if ae, ok := errors.As(err); ok {
			reason = ae.Key
		}
		p.opts.Metrics.RecordValidationRejection(string(p.task), reason)
		p.fail(err)
		return err
	}

	var err error
	if p.task == nlp.TaskFillMask {
		err = p.submitFill(ctx, text)
	} else {
		err = p.submitSpans(ctx, text)
	}
	if err != nil {
		p.fail(err)
	}
	return err
}

func (p *Panel) submitFill(ctx context.Context, text string) error {
	res, err := p.predictor.FillMask(ctx, nepali.PrepareMaskWith(text, p.opts.MaskToken))
	if err != nil {
		return err
	}

	sel := highlight.NewSelection(res.Candidates)
	var completed []highlight.Token
	switch {
	case res.Completed != "":
		completed = highlight.MarkFilled(text, nepali.Blank,
			highlight.CompletedSentence(res.Completed, "", "", p.isCont, p.strip))
	case len(sel.Candidates()) > 0:
		completed = highlight.CompletedSentence(text, nepali.Blank, sel.SelectedWord(), p.isCont, p.strip)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.text = text
	p.segments = nil
	p.dropped = 0
	p.selection = sel
	p.completed = completed
	p.err = nil
	p.processed = true
	return nil
}

func (p *Panel) submitSpans(ctx context.Context, text string) error {
	// Simulated annotations are produced word by word, not in one pass over
	// the input, so they are placed by position instead of by scan order.
	reconcile := highlight.ReconcileWithStats
	if inference.Simulated(p.predictor) {
		reconcile = highlight.ReconcileSortedWithStats
	}
	spans, err := inference.Spans(ctx, p.predictor, p.task, text)
	if err != nil {
		return err
	}
	spans = highlight.MergeSpans(spans, p.isCont, p.strip)
	segs, stats := reconcile(text, spans)
	if stats.Dropped > 0 {
		p.opts.Metrics.RecordDropped(string(p.task), stats.Dropped)
		p.opts.Logger.Debug("annotations not found in input",
			logging.Task(string(p.task)), logging.Int("dropped", stats.Dropped), logging.Int("matched", stats.Matched))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.text = text
	p.segments = segs
	p.dropped = stats.Dropped
	p.selection = nil
	p.completed = nil
	p.err = nil
	p.processed = true
	return nil
}

func (p *Panel) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.text = ""
	p.segments = nil
	p.dropped = 0
	p.selection = nil
	p.completed = nil
	p.err = err
	p.processed = false
}

// Select makes word the filling of the blank and recomputes the completed
// sentence.  It only applies to the fill-mask panel.
func (p *Panel) Select(word string) error {
	if p.task != nlp.TaskFillMask {
		return errors.InvalidParam(fmt.Sprintf("panel %s has no candidates", p.task))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.selection.Select(word); err != nil {
		return errors.NewValidation(labels.KeyUnknownCandidate, err.Error())
	}
	p.completed = highlight.CompletedSentence(p.text, nepali.Blank, word, p.isCont, p.strip)
	return nil
}

// Reset clears input, result and error.
func (p *Panel) Reset() {
	p.fail(nil)
	p.mu.Lock()
	p.input = ""
	p.mu.Unlock()
}
