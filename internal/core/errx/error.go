package errx

import (
	"errors"
	"fmt"
)

// Kind classifies catalog failures so callers can react without string matching.
type Kind int

const (
	// Unknown is reported for errors that did not pass through this package.
	Unknown Kind = iota
	// InvalidArgument marks rejected field values or record tags.
	InvalidArgument
	// InvalidState marks operations forbidden by the entity's current state.
	InvalidState
	// FormatError marks malformed numeric or date text.
	FormatError
	// IOFailure marks unavailable or failing storage.
	IOFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case InvalidState:
		return "invalid state"
	case FormatError:
		return "format error"
	case IOFailure:
		return "io failure"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with a kind and a human readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error without an underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with fmt.Sprintf formatting of the message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to err. A nil err stays nil.
func Wrap(err error, kind Kind, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
