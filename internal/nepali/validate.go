package nepali

import (
	"strings"

	"github.com/turtacn/sabdamanthan/pkg/errors"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// Message keys carried by validation errors.  The labels package maps them
// to localized strings.
const (
	KeyEmptyInput   = "empty_input"
	KeyMissingBlank = "missing_blank"
	KeyNotNepali    = "not_nepali"
)

// Validate checks s for task.  Checks run in a fixed order: empty input,
// then (fill-mask only) a missing blank, then non-Devanagari text.  s is
// expected to be normalized already.
func Validate(task nlp.Task, s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.NewValidation(KeyEmptyInput, "input is empty")
	}
	if task == nlp.TaskFillMask && !strings.Contains(s, Blank) {
		return errors.NewValidation(KeyMissingBlank, "input has no blank marker")
	}
	if !IsNepaliText(s) {
		return errors.NewValidation(KeyNotNepali, "input is not Nepali text")
	}
	return nil
}

// PrepareMask replaces every run of blank markers with the default mask token.
func PrepareMask(s string) string {
	return PrepareMaskWith(s, DefaultMaskToken)
}

// PrepareMaskWith replaces every run of blank markers with token.
func PrepareMaskWith(s, token string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inRun := false
	for _, r := range s {
		if r == '_' {
			if !inRun {
				sb.WriteString(token)
				inRun = true
			}
			continue
		}
		inRun = false
		sb.WriteRune(r)
	}
	return sb.String()
}
