package contract

import (
	"context"
	"errors"
)

var (
	ErrModelInvoke      = errors.New("model invoke failed")
	ErrSchemaViolation  = errors.New("output violates schema")
	ErrPromptMissing    = errors.New("required prompt is missing")
	ErrValidation       = errors.New("validation failed")
	ErrToolFailed       = errors.New("tool call failed")
	ErrToolTimeout      = errors.New("tool call timed out")
	ErrRoutingAmbiguous = errors.New("request intent is ambiguous")
	ErrUnknownPipeline  = errors.New("unknown pipeline")
	ErrCancelled        = errors.New("run cancelled")
)

// ErrorKind is the caller-facing classification of a failed run.
type ErrorKind string

const (
	KindToolError        ErrorKind = "tool_error"
	KindTimeout          ErrorKind = "timeout"
	KindSchemaViolation  ErrorKind = "schema_violation"
	KindRoutingAmbiguity ErrorKind = "routing_ambiguity"
	KindInvalidRequest   ErrorKind = "invalid_request"
	KindCancelled        ErrorKind = "cancelled"
	KindUnknownPipeline  ErrorKind = "unknown_pipeline"
	KindInternal         ErrorKind = "internal"
)

// KindOf maps an error chain to its ErrorKind. Timeouts are checked before
// generic tool failures because a timeout error matches both.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrToolTimeout):
		return KindTimeout
	case errors.Is(err, ErrToolFailed):
		return KindToolError
	case errors.Is(err, ErrSchemaViolation):
		return KindSchemaViolation
	case errors.Is(err, ErrRoutingAmbiguous):
		return KindRoutingAmbiguity
	case errors.Is(err, ErrUnknownPipeline):
		return KindUnknownPipeline
	case errors.Is(err, ErrValidation):
		return KindInvalidRequest
	case errors.Is(err, ErrCancelled),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	default:
		return KindInternal
	}
}
