package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/sabdamanthan/internal/labels"
	"github.com/turtacn/sabdamanthan/pkg/errors"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeAppError reports err with the status its code maps to and a message
// localized for task's panel.  Internal errors are masked.
func writeAppError(w http.ResponseWriter, task nlp.Task, err error, locale nlp.Locale) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if status == http.StatusInternalServerError {
		writeJSON(w, status, ErrorResponse{
			Code:    errors.ErrCodeInternal.String(),
			Message: "internal server error",
		})
		return
	}
	writeJSON(w, status, ErrorResponse{
		Code:    code.String(),
		Message: labels.Localize(task, err, locale),
	})
}

// taskParam resolves the {task} URL parameter.
func taskParam(r *http.Request) (nlp.Task, error) {
	task, err := nlp.ParseTask(chi.URLParam(r, "task"))
	if err != nil {
		return "", errors.NotFound(err.Error())
	}
	return task, nil
}

// requestLocale picks the locale of a request that carries no session:
// an explicit lang query value first, then Accept-Language.
func requestLocale(r *http.Request) nlp.Locale {
	return labels.NegotiateLocale(r.Header.Get("Accept-Language"), r.URL.Query().Get("lang"))
}
