package domain

import (
	"errors"
	"fmt"
)

// The error taxonomy of a run. Callers match with errors.Is; the wrapped cause keeps the original message.
var (
	// ErrUnknownModel the display name isn't registered (a configuration error with a fixed model list)
	ErrUnknownModel = errors.New("unknown model")
	// ErrInvalidInputType the payload has the wrong shape for the classifier
	ErrInvalidInputType = errors.New("invalid input type")
	// ErrEmptyInput the payload is present but blank
	ErrEmptyInput = errors.New("empty input")
	// ErrInputDecode the input resource (an image file) is unreadable or corrupt
	ErrInputDecode = errors.New("failed to decode input")
	// ErrInference the underlying pipeline failed
	ErrInference = errors.New("inference failed")
	// ErrBusy a run is already in flight
	ErrBusy = errors.New("a run is already in progress")
)

func wrapError(sentinel, cause error) error {
	if errors.Is(cause, sentinel) {
		return cause
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

func newInvalidInputTypeError(expected string, got any) error {
	return fmt.Errorf("%w: expected %s, got %T", ErrInvalidInputType, expected, got)
}
