package core

import "fmt"

// OpenError reports which part of the workspace failed to open.
type OpenError struct {
	Component string
	Err       error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open %s: %v", e.Component, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}
