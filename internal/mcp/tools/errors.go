package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/schemacheck/internal/checker"
	"github.com/usestring/schemacheck/pkg/jsonschema"
)

// Error codes for MCP tool responses.
const (
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeSchemaError     = "SCHEMA_ERROR"
	ErrCodeResolutionError = "RESOLUTION_ERROR"
	ErrCodeTimeout         = "TIMEOUT"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapCheckError converts an error from the validation engine to a coded error.
func WrapCheckError(err error) error {
	if err == nil {
		return nil
	}

	var (
		coded     *CodedError
		schemaErr *jsonschema.SchemaError
		refErr    *jsonschema.RefResolutionError
		typeErr   *jsonschema.UnknownTypeError
	)
	switch {
	case errors.As(err, &coded):
		return coded
	case errors.As(err, &schemaErr):
		coded = &CodedError{
			Code:    ErrCodeSchemaError,
			Message: fmt.Sprintf("schema is invalid at %s: %s", pointer(schemaErr.AbsolutePath()), schemaErr.Message),
			Cause:   err,
		}
	case errors.As(err, &typeErr):
		coded = &CodedError{Code: ErrCodeSchemaError, Message: "schema names an unknown type", Cause: err}
	case errors.As(err, &refErr):
		coded = &CodedError{Code: ErrCodeResolutionError, Message: "a $ref could not be resolved", Cause: err}
	case errors.Is(err, checker.ErrUnknownDraft):
		coded = &CodedError{Code: ErrCodeInvalidInput, Message: "draft must be draft3, draft4, draft6 or draft7", Cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		coded = &CodedError{Code: ErrCodeTimeout, Message: "validation timed out", Cause: err}
	default:
		coded = &CodedError{Code: ErrCodeInternal, Message: err.Error(), Cause: err}
	}

	slog.Warn("validation failed",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
