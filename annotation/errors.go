package annotation

import (
	"errors"
	"fmt"
)

// Sentinel errors for every validation failure. All of them are fatal for the
// document (and the batch) being parsed.
var (
	ErrUnsupportedFormat        = errors.New("unsupported format")
	ErrMalformedDocument        = errors.New("malformed document")
	ErrTokenTooLong             = errors.New("token too long")
	ErrSentenceTooLong          = errors.New("sentence too long")
	ErrMalformedMention         = errors.New("malformed mention")
	ErrMalformedRelation        = errors.New("malformed relation")
	ErrDanglingMentionReference = errors.New("dangling mention reference")
	ErrInvalidRelation          = errors.New("invalid relation")
	ErrInvalidMentionSpan       = errors.New("invalid mention span")
	ErrDatasetLengthMismatch    = errors.New("dataset length mismatch")
	ErrUnsupportedFileExtension = errors.New("unsupported file extension")
	ErrTooManyDocuments         = errors.New("too many documents")
)

// ValidationError carries the offending detail of a failure. Kind is one of
// the sentinel errors above and is what errors.Is matches against.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// Errorf builds a ValidationError of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
