package imgreformer

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ReformerError is the error type returned by every encoder, decoder and
// stream constructor in this module. Callers should compare against the
// sentinel values below with [errors.Is].
type ReformerError interface {
	error
	WithMessage(message string) ReformerError
	Wrap(err error) ReformerError
}

type baseReformerError string

const rootError = baseReformerError("")

// ErrOutOfRange is returned when a sample index at or past the end of a stream
// is read.
var ErrOutOfRange = rootError.WithMessage("Sample index out of range")

// ErrUnsupportedFormat is returned for a bit width or compression mode (or a
// combination of the two) that has no defined encoding.
var ErrUnsupportedFormat = rootError.WithMessage("Unsupported image format")

// ErrInvalidInput is returned for a malformed sample stream, e.g. a sample that
// doesn't fit in the declared bit width, or malformed encoded data.
var ErrInvalidInput = rootError.WithMessage("Invalid input")

func (e baseReformerError) Error() string {
	return string(e)
}

func (e baseReformerError) WithMessage(message string) ReformerError {
	return customReformerError{
		message:       message,
		originalError: e,
	}
}

func (e baseReformerError) Wrap(err error) ReformerError {
	return customReformerError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customReformerError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customReformerError) Error() string {
	return e.message
}

func (e customReformerError) WithMessage(message string) ReformerError {
	return customReformerError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customReformerError) Wrap(err error) ReformerError {
	return customReformerError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customReformerError) Unwrap() error {
	return e.originalError
}
