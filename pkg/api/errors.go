package api

import (
	"errors"
	"fmt"
)

var (
	// ErrCannotDeleteInitial is returned when a delete targets the flow's
	// entry-point state. Every document must keep its entry point.
	ErrCannotDeleteInitial = errors.New("cannot delete the initial state")

	// ErrNotLoaded is returned by mutation operations while the editor has
	// no document: before the first load, while a load is in flight, or
	// after a failed load.
	ErrNotLoaded = errors.New("no flow loaded")

	// ErrUnknownState is returned when an operation names a state that is
	// not present in the current flow.
	ErrUnknownState = errors.New("unknown state")

	// ErrFieldUnknown is returned by SetField for a field outside the
	// editable set.
	ErrFieldUnknown = errors.New("unknown field")

	// ErrSaveInFlight is returned when Save is called while a previous save
	// has not completed. The remote store is last-write-wins, so two
	// concurrent saves of the same document would race unpredictably.
	ErrSaveInFlight = errors.New("save already in flight")

	// ErrLoadSuperseded is returned to a Load caller whose result arrived
	// after a later Load for a different task had already started. The
	// stale result is discarded.
	ErrLoadSuperseded = errors.New("load superseded by a newer load")
)

// ValidationKind classifies a state-name validation failure.
type ValidationKind string

const (
	ValidationEmptyName     ValidationKind = "empty_name"
	ValidationDuplicateName ValidationKind = "duplicate_name"
	ValidationInvalidFormat ValidationKind = "invalid_format"
)

// ValidationError is a recoverable name-validation failure. It is returned,
// never panicked, so the caller can surface the specific kind and let the
// user correct the input.
type ValidationError struct {
	Kind ValidationKind
	Name string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ValidationEmptyName:
		return "state name must not be empty"
	case ValidationDuplicateName:
		return fmt.Sprintf("state name already in use: %s", e.Name)
	case ValidationInvalidFormat:
		return fmt.Sprintf("invalid state name: %s", e.Name)
	}
	return fmt.Sprintf("invalid state name: %s", e.Name)
}

// AsValidationError returns the *ValidationError in err's chain, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
