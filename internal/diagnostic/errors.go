package diagnostic

import (
	"errors"
	"fmt"
)

// Sentinels for the whole-operation failures. A MirrorError matches the
// sentinel of its code under errors.Is.
var (
	ErrEntityStale         = errors.New("entity changed since the plan was built")
	ErrInvalidAxisForSpace = errors.New("mirror axis is not valid for this space")
)

// MirrorError is a fatal failure that aborts an operation with no mutation.
type MirrorError struct {
	Code    string
	Message string
	// Entity names the bone or object involved, if any.
	Entity string
	Err    error
}

// Error implements error.
func (e *MirrorError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Entity, e.Message)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *MirrorError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel that belongs to the error code.
func (e *MirrorError) Is(target error) bool {
	switch target {
	case ErrEntityStale:
		return e.Code == CodeEntityStale
	case ErrInvalidAxisForSpace:
		return e.Code == CodeInvalidAxis
	default:
		return false
	}
}

// Stale builds an EntityStaleAtApply error.
func Stale(entity string, cause error) *MirrorError {
	msg := "entity changed since the plan was built"
	if cause != nil {
		msg = cause.Error()
	}

	return &MirrorError{Code: CodeEntityStale, Message: msg, Entity: entity, Err: cause}
}

// InvalidAxis builds an InvalidAxisForSpace error.
func InvalidAxis(message string, cause error) *MirrorError {
	return &MirrorError{Code: CodeInvalidAxis, Message: message, Err: cause}
}
