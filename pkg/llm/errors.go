package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies LLM failures.
type ErrorType string

const (
	ErrTypeAuth       ErrorType = "auth"
	ErrTypeRateLimit  ErrorType = "rate_limit"
	ErrTypeTimeout    ErrorType = "timeout"
	ErrTypeConnection ErrorType = "connection"
	ErrTypeServer     ErrorType = "server"
	ErrTypeUnknown    ErrorType = "unknown"
)

// Error is a structured LLM error with classification.
type Error struct {
	Type      ErrorType
	Message   string
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether the operation can be retried.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// ClassifyError categorizes an error into a structured Error. Already
// classified errors pass through unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	lower := strings.ToLower(err.Error())

	switch {
	case strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key") || strings.Contains(lower, "403"):
		return &Error{Type: ErrTypeAuth, Message: "authentication failed", Retryable: false, Cause: err}

	case strings.Contains(lower, "429") || strings.Contains(lower, "rate limit"):
		return &Error{Type: ErrTypeRateLimit, Message: "rate limited", Retryable: true, Cause: err}

	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		return &Error{Type: ErrTypeTimeout, Message: "request timed out", Retryable: true, Cause: err}

	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "connection reset"):
		return &Error{Type: ErrTypeConnection, Message: "endpoint unreachable", Retryable: true, Cause: err}

	case strings.Contains(lower, "500") || strings.Contains(lower, "502") ||
		strings.Contains(lower, "503") || strings.Contains(lower, "504"):
		return &Error{Type: ErrTypeServer, Message: "server error", Retryable: true, Cause: err}

	default:
		return &Error{Type: ErrTypeUnknown, Message: "request failed", Retryable: false, Cause: err}
	}
}

// IsRetryableError reports whether err is a transient failure worth
// retrying.
func IsRetryableError(err error) bool {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Retryable
	}
	return false
}
