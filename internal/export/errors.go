package export

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when an operation is not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid export transition")

	// ErrUnsafeFields is returned by a strict flow when lint finds issues.
	ErrUnsafeFields = errors.New("export contains fields with separators")

	// ErrArtifactWrite is returned when the export file cannot be written.
	ErrArtifactWrite = errors.New("failed to write export artifact")

	// ErrTransportUnavailable is returned by transports that cannot send.
	ErrTransportUnavailable = errors.New("export transport unavailable")
)

// TransitionError describes a rejected state change.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
