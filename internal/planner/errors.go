package planner

import (
	"fmt"

	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

// Error reports a failed planning call. It matches errors.ErrPlanningFailed
// and the underlying cause with errors.Is.
type Error struct {
	// Attempts is the number of collaborator calls made.
	Attempts int
	// Raw is the last reply that failed validation, empty when the
	// collaborator itself failed.
	Raw string
	// Err is the cause.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s after %d attempt(s): %v", agendaerrors.ErrPlanningFailed, e.Attempts, e.Err)
}

// Unwrap exposes both the planning sentinel and the cause.
func (e *Error) Unwrap() []error {
	return []error{agendaerrors.ErrPlanningFailed, e.Err}
}
