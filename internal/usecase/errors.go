package usecase

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CodeInvalidTarget        = "INVALID_TARGET"
	CodeConversionNotAllowed = "CONVERSION_NOT_ALLOWED"
	CodeValidation           = "VALIDATION_ERROR"
	CodeBackend              = "BACKEND_ERROR"
)

// DomainError is a refusal by a workflow rule. It never reaches the backend.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps an infrastructure failure (backend, broker, mail).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error { return e.Err }

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func backendError(op string, err error) error {
	return &TechnicalError{Code: CodeBackend, Message: op + " failed", Err: err}
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is returned by the form validators. Order follows the
// form's field order.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Field returns the message of the first error on field, if any.
func (v ValidationErrors) Field(field string) string {
	for _, e := range v {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Message renders err for a modal or a flash line. Validation errors list
// only the messages, backend errors keep the status line.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if ve, ok := AsValidationErrors(err); ok {
		msgs := make([]string, 0, len(ve))
		for _, e := range ve {
			msgs = append(msgs, e.Message)
		}
		return strings.Join(msgs, "; ")
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
