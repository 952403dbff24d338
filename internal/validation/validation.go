package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a validation failure
type Kind string

const (
	// MissingSelection means a required choice was not made
	MissingSelection Kind = "MissingSelection"
	// InvalidField means input was present but malformed
	InvalidField Kind = "InvalidField"
	// InvalidReference means an id does not resolve to a live entity
	InvalidReference Kind = "InvalidReference"
)

// Sentinels for errors.Is matching on kind
var (
	ErrMissingSelection = errors.New("missing selection")
	ErrInvalidField     = errors.New("invalid field")
	ErrInvalidReference = errors.New("invalid reference")
)

// Error is a single field-level failure
type Error struct {
	Kind    Kind   `json:"kind"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match the sentinel for the error's kind
func (e *Error) Unwrap() error {
	switch e.Kind {
	case MissingSelection:
		return ErrMissingSelection
	case InvalidField:
		return ErrInvalidField
	case InvalidReference:
		return ErrInvalidReference
	default:
		return nil
	}
}

// Missing reports a required selection that was not made
func Missing(field, message string) *Error {
	return &Error{Kind: MissingSelection, Field: field, Message: message}
}

// Invalid reports a malformed field value
func Invalid(field, message string) *Error {
	return &Error{Kind: InvalidField, Field: field, Message: message}
}

// Reference reports an id that does not resolve
func Reference(field, message string) *Error {
	return &Error{Kind: InvalidReference, Field: field, Message: message}
}

// Errors collects every failure found in one validation pass
type Errors []*Error

func (es Errors) Error() string {
	msgs := make([]string, 0, len(es))
	for _, e := range es {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors to errors.Is and errors.As
func (es Errors) Unwrap() []error {
	out := make([]error, 0, len(es))
	for _, e := range es {
		out = append(out, e)
	}
	return out
}

// Field returns the first error recorded for field, if any
func (es Errors) Field(field string) (*Error, bool) {
	for _, e := range es {
		if e.Field == field {
			return e, true
		}
	}
	return nil, false
}

// OrNil returns nil for an empty set so callers can return it as error
func (es Errors) OrNil() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

// Collect flattens err into field errors. Errors that are not validation
// errors yield nil.
func Collect(err error) Errors {
	if err == nil {
		return nil
	}
	var es Errors
	if errors.As(err, &es) {
		return es
	}
	var e *Error
	if errors.As(err, &e) {
		return Errors{e}
	}
	return nil
}
