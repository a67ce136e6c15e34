package babeltrace

import (
	"errors"
	"fmt"
)

// Errors returned by the binding. None of them wraps another error.
var (
	ErrContextCreation      = errors.New("failed to create context")
	ErrTraceAdd             = errors.New("failed to add trace")
	ErrInvalidTracePath     = errors.New("invalid trace path")
	ErrUnsupportedFormat    = errors.New("unsupported trace format")
	ErrIteratorCreation     = errors.New("failed to create iterator")
	ErrEventScope           = errors.New("failed to get event scope")
	ErrInvalidValueForField = errors.New("invalid value for field")
	ErrInvalidDefinition    = errors.New("invalid definition")
	ErrInvalidTimestamp     = errors.New("invalid timestamp present")
	ErrStaleView            = errors.New("event or definition used after its iterator advanced")
	ErrClosed               = errors.New("use of closed handle")
)

// TraceRemoveError is returned when the native library refuses to remove a
// trace, usually because the id was never registered.
type TraceRemoveError struct {
	ID TraceHandleID
}

func (e *TraceRemoveError) Error() string {
	return fmt.Sprintf("no trace with id %s exists", e.ID)
}

// UnknownFieldError is returned by the typed event accessors when the named
// field is absent from the resolved scope.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %s", e.Name)
}
