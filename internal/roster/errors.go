package roster

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a rejected operation with a missing required field.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an operation on an unknown id.
	ErrNotFound = errors.New("not found")
)

// Entity names the kind of object an error refers to.
type Entity string

const (
	EntityDevice Entity = "device"
	EntityTask   Entity = "task"
)

// ValidationError indicates a required field was empty. The roster is unchanged.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError indicates an unknown device or task id.
type NotFoundError struct {
	Kind Entity
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
