// Package apperrors defines the error taxonomy shared across services.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrIndexEmpty   = errors.New("vector index is empty; run a rebuild first")
	ErrEmptyResult  = errors.New("query returned no rows")
	ErrTimeout      = errors.New("operation timed out")
	ErrSimilarityOutOfRange = errors.New("similarity outside [0,1]; embedding metric is not bounded cosine distance")
)

// DataAccessError wraps failures reaching the relational or vector store.
type DataAccessError struct {
	Store string // "postgres" or "qdrant"
	Op    string
	Err   error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access (%s, %s): %v", e.Store, e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// NewDataAccessError wraps err with store and operation context.
func NewDataAccessError(store, op string, err error) *DataAccessError {
	return &DataAccessError{Store: store, Op: op, Err: err}
}

// GenerationError wraps failures from the completion model. The underlying
// message is surfaced verbatim to the caller.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// RejectionCategory classifies why a candidate SQL query was refused.
type RejectionCategory string

const (
	RejectionSecurity    RejectionCategory = "security"
	RejectionOutOfDomain RejectionCategory = "out_of_domain"
	RejectionMalformed   RejectionCategory = "malformed"
)

// RejectionError is a user-facing refusal of a candidate SQL query.
// The category is chosen by the first matching sanitizer rule and is
// never coerced into a different one downstream.
type RejectionError struct {
	Category RejectionCategory
	Message  string
}

func (e *RejectionError) Error() string { return e.Message }

// AsRejection returns the RejectionError in err's chain, if any.
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
