// Package ctxutil provides context utility functions.
package ctxutil

import (
	"context"
	"errors"
)

// Canceled checks if the context has been canceled or exceeded its deadline.
// Returns the context error if done, nil otherwise. Used at function entry
// points before starting blocking work.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// IsContextError reports whether err stems from context cancellation or a
// deadline. Such errors are never retried.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
