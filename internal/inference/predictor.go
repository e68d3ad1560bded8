// Package inference talks to the model service that backs the three panels.
// The HTTP Client is the production implementation; Mock reproduces the
// simulated backend for demos, and Cached and Instrumented decorate either.
package inference

import (
	"context"
	"fmt"

	"github.com/turtacn/sabdamanthan/pkg/errors"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// Endpoint paths relative to the base URL.
const (
	PathFillMask = "/fill-mask"
	PathNER      = "/ner"
	PathPOS      = "/pos"
)

// Predictor runs the three inference tasks.  Inputs are expected to be
// validated and normalized; fill-mask input has its blanks replaced with the
// mask token.
type Predictor interface {
	FillMask(ctx context.Context, maskedText string) (*nlp.FillResult, error)
	NER(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error)
	POS(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error)
	Ping(ctx context.Context) error
}

// Spans dispatches an annotation task to p.
func Spans(ctx context.Context, p Predictor, task nlp.Task, text string) ([]nlp.AnnotatedSpan, error) {
	switch task {
	case nlp.TaskNER:
		return p.NER(ctx, text)
	case nlp.TaskPOS:
		return p.POS(ctx, text)
	}
	return nil, errors.InvalidParam(fmt.Sprintf("task %q does not produce spans", task))
}

// Simulated reports whether p is, or decorates, the Mock backend.  Decorators
// expose what they wrap through an Unwrap method.
func Simulated(p Predictor) bool {
	for p != nil {
		switch v := p.(type) {
		case *Mock:
			return true
		case interface{ Unwrap() Predictor }:
			p = v.Unwrap()
		default:
			return false
		}
	}
	return false
}
