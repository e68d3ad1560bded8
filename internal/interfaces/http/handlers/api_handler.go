package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/turtacn/sabdamanthan/internal/highlight"
	"github.com/turtacn/sabdamanthan/internal/inference"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sabdamanthan/internal/labels"
	"github.com/turtacn/sabdamanthan/internal/panel"
	"github.com/turtacn/sabdamanthan/pkg/errors"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// APIHandler exposes the panels as a stateless JSON API.  Each request runs
// on a fresh panel, so concurrent API calls never reject each other.
type APIHandler struct {
	predictor inference.Predictor
	opts      panel.Options
	logger    logging.Logger
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(predictor inference.Predictor, opts panel.Options, logger logging.Logger) *APIHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &APIHandler{predictor: predictor, opts: opts, logger: logger}
}

// PredictRequest is the body of POST /api/v1/{task}.
type PredictRequest struct {
	Text string `json:"text"`
	// Pick overrides the selected fill-mask candidate.
	Pick string `json:"pick,omitempty"`
}

// PredictResponse is the result of one panel submission.
type PredictResponse struct {
	Task       nlp.Task              `json:"task"`
	Segments   []panel.SegmentView   `json:"segments,omitempty"`
	UsedTags   []panel.LegendEntry   `json:"used_tags,omitempty"`
	Dropped    int                   `json:"dropped,omitempty"`
	Candidates []panel.CandidateView `json:"candidates,omitempty"`
	Selected   string                `json:"selected,omitempty"`
	Completed  []highlight.Token     `json:"completed,omitempty"`
}

// TagsResponse is the legend of one task.
type TagsResponse struct {
	Task nlp.Task            `json:"task"`
	Tags []panel.LegendEntry `json:"tags"`
}

// Predict handles POST /api/v1/{task}.
func (h *APIHandler) Predict(w http.ResponseWriter, r *http.Request) {
	locale := requestLocale(r)
	task, err := taskParam(r)
	if err != nil {
		writeAppError(w, "", err, locale)
		return
	}

	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, task, errors.InvalidParam("invalid request body"), locale)
		return
	}

	p := panel.New(task, h.predictor, h.opts)
	if err := p.Submit(r.Context(), req.Text); err != nil {
		if !errors.IsValidation(err) {
			h.logger.Warn("prediction failed", logging.Task(string(task)), logging.Err(err))
		}
		writeAppError(w, task, err, locale)
		return
	}
	if req.Pick != "" {
		if err := p.Select(req.Pick); err != nil {
			writeAppError(w, task, err, locale)
			return
		}
	}

	v := p.View(locale)
	writeJSON(w, http.StatusOK, PredictResponse{
		Task:       task,
		Segments:   v.Segments,
		UsedTags:   v.UsedTags,
		Dropped:    v.Dropped,
		Candidates: v.Candidates,
		Selected:   v.Selected,
		Completed:  v.Completed,
	})
}

// Tags handles GET /api/v1/tags/{task}.
func (h *APIHandler) Tags(w http.ResponseWriter, r *http.Request) {
	locale := requestLocale(r)
	task, err := taskParam(r)
	if err != nil || task == nlp.TaskFillMask {
		writeAppError(w, task, errors.NotFound("no tag set for task"), locale)
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{
		Task: task,
		Tags: panel.LegendEntries(labels.Legend(task), locale),
	})
}
