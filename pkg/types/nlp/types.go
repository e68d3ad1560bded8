// Package nlp holds the wire and domain types shared by the inference client,
// the highlighter and the presentation shells.
package nlp

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Task identifies one of the three inference panels.
type Task string

const (
	TaskFillMask Task = "fill-mask"
	TaskNER      Task = "ner"
	TaskPOS      Task = "pos"
)

// Tasks lists every task in tab order.
var Tasks = []Task{TaskFillMask, TaskNER, TaskPOS}

// IsValid reports whether t is a known task.
func (t Task) IsValid() bool {
	switch t {
	case TaskFillMask, TaskNER, TaskPOS:
		return true
	}
	return false
}

// ParseTask converts a user-supplied name into a Task.  "fill-blank" and
// "fill_mask" are accepted as aliases of fill-mask.
func ParseTask(s string) (Task, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fill-mask", "fill_mask", "fill-blank", "fillmask", "mask":
		return TaskFillMask, nil
	case "ner":
		return TaskNER, nil
	case "pos":
		return TaskPOS, nil
	}
	return "", fmt.Errorf("unknown task %q", s)
}

// Locale selects the UI language.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleNepali  Locale = "ne"
)

// ParseLocale returns the locale named by s, or English for anything else.
func ParseLocale(s string) Locale {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "ne") {
		return LocaleNepali
	}
	return LocaleEnglish
}

// Toggle returns the other locale.
func (l Locale) Toggle() Locale {
	if l == LocaleNepali {
		return LocaleEnglish
	}
	return LocaleNepali
}

// AnnotatedSpan is a substring of the original input plus a categorical label
// (entity type, POS tag, or candidate replacement word).  No offsets are
// supplied by the inference service.
type AnnotatedSpan struct {
	Text     string `json:"text"`
	Category string `json:"type"`
}

// Candidate is a ranked word proposed to fill a blank.
type Candidate struct {
	Word        string  `json:"word"`
	Probability float64 `json:"probability"`
}

// MarshalJSON encodes the candidate as the [word, probability] pair used on
// the wire.
func (c Candidate) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{c.Word, c.Probability})
}

// UnmarshalJSON decodes a [word, probability] pair.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("candidate: expected [word, probability], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &c.Word); err != nil {
		return fmt.Errorf("candidate word: %w", err)
	}
	if err := json.Unmarshal(pair[1], &c.Probability); err != nil {
		return fmt.Errorf("candidate probability: %w", err)
	}
	return nil
}

// FillResult is the decoded response of the fill-mask endpoint.  A request
// with a single blank yields ranked candidates; a request with several blanks
// yields only the server-completed sentence.
type FillResult struct {
	Candidates []Candidate `json:"candidates"`
	Completed  string      `json:"completed,omitempty"`
}
