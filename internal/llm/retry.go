package llm

import (
	"errors"
	"time"

	"github.com/mrz1836/agenda/internal/ctxutil"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

// timeSleep is a wrapper for time.After that can be overridden in tests.
//
//nolint:gochecknoglobals // Required for test mocking
var timeSleep = func(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// isRetryable determines whether a classified error should be retried.
// Context, authentication, missing-key and rejected-request errors are final.
// Rate limits, server errors and transport failures are transient.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if ctxutil.IsContextError(err) {
		return false
	}
	if errors.Is(err, agendaerrors.ErrCollaboratorAuth) ||
		errors.Is(err, agendaerrors.ErrAPIKeyMissing) ||
		errors.Is(err, errRequestRejected) {
		return false
	}
	return errors.Is(err, agendaerrors.ErrCollaborator)
}
