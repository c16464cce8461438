package core

import (
	"context"
	"time"
)

// Common timeout durations
const (
	TimeoutShort  = 30 * time.Second // opening stores, flushing
	TimeoutMedium = 2 * time.Minute  // transfers
)

// WithShortTimeout creates a context with a 30-second timeout.
func WithShortTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), TimeoutShort)
}

// WithMediumTimeout creates a context with a 2-minute timeout.
func WithMediumTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), TimeoutMedium)
}

// WithTimeoutFrom creates a context with timeout derived from parent context.
func WithTimeoutFrom(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, d)
}
