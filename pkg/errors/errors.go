// Package errors provides the unified error type and factory functions for
// Sabdamanthan.  Every layer (input gate, inference client, panels, HTTP and
// CLI shells) uses AppError as the single carrier for structured error
// information, so that a failure can be classified, localized and mapped to an
// HTTP status without string matching.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and the factory function).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		// Trim standard-library noise to keep traces readable.
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout Sabdamanthan.
// It satisfies the standard error interface and supports error wrapping so
// that errors.Is / errors.As / errors.Unwrap work across all layers.
//
// Usage:
//
//	return errors.NewValidation("empty_input", "input text is empty")
//	return errors.NewTransport(resp.StatusCode, nil)
//	return errors.Wrap(err, errors.ErrCodeCacheError, "failed to read cache")
type AppError struct {
	// Code is the typed error code that identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error.
	Message string

	// Detail carries supplementary context that aids debugging.
	Detail string

	// Key is the message key used to localize the error for display.  It is
	// set for validation failures and empty otherwise.
	Key string

	// Status is the upstream HTTP status for transport failures, 0 when the
	// request never produced a response.
	Status int

	// Cause is the underlying error, enabling errors.Is / errors.As traversal.
	Cause error

	// Stack contains the call-stack captured at the point of creation.  It is
	// not part of Error() output.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>"; the detail segment is omitted when
// empty, and the cause is appended when present.
func (e *AppError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Code.String(), e.Message)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// It is safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Primary factory functions
// ─────────────────────────────────────────────────────────────────────────────

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.
// If err is nil, Wrap returns nil so it can be used inline.
//
// When err is already an *AppError and code is CodeUnknown the original code is
// preserved.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// NewValidation constructs a validation failure identified by a message key.
// Validation failures are detected locally and never reach the network.
func NewValidation(key, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Key:     key,
		Stack:   captureStack(1),
	}
}

// NewTransport constructs a transport failure.  A positive status records a
// non-2xx response; cause records a network failure.
func NewTransport(status int, cause error) *AppError {
	msg := "network error"
	if status > 0 {
		msg = fmt.Sprintf("HTTP error! Status: %d", status)
	}
	return &AppError{
		Code:    ErrCodeTransport,
		Message: msg,
		Status:  status,
		Cause:   cause,
		Stack:   captureStack(1),
	}
}

// NewFormat constructs a format failure for a response body whose shape did
// not match the endpoint contract.
func NewFormat(detail string) *AppError {
	return &AppError{
		Code:    ErrCodeFormat,
		Message: "unexpected response format",
		Detail:  detail,
		Stack:   captureStack(1),
	}
}

// NotFound constructs a CodeNotFound AppError.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
		Stack:   captureStack(1),
	}
}

// InvalidParam constructs a CodeInvalidParam AppError.
func InvalidParam(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidParam,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Internal constructs a CodeInternal AppError.
func Internal(message string) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error-chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsValidation reports whether err is a locally detected validation failure.
func IsValidation(err error) bool { return IsCode(err, ErrCodeValidation) }

// IsTransport reports whether err is a network or non-2xx failure.
func IsTransport(err error) bool { return IsCode(err, ErrCodeTransport) }

// IsFormat reports whether err is an unexpected response shape.
func IsFormat(err error) bool { return IsCode(err, ErrCodeFormat) }

// IsBusy reports whether err rejected a submission on a busy form.
func IsBusy(err error) bool { return IsCode(err, ErrCodeBusy) }

// IsNotFound reports whether any error in err's chain carries CodeNotFound.
func IsNotFound(err error) bool { return IsCode(err, CodeNotFound) }

// GetCode extracts the ErrorCode from the first *AppError found in err's chain.
// If no *AppError is present, CodeUnknown is returned.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// As returns the first *AppError in err's chain.
func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// HTTPStatus returns the HTTP status an error should be reported with.
func HTTPStatus(err error) int {
	return HTTPStatusForCode(GetCode(err))
}
