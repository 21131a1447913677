package edit

import (
	"fmt"

	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

// Error reports a proposal that could not be interpreted. It matches
// errors.ErrInterpretationFailed and the underlying cause with errors.Is.
type Error struct {
	// Field is the offending field name, empty when the whole reply was bad.
	Field string
	// Raw is the collaborator reply, empty when the collaborator failed.
	Raw string
	// Err is the cause.
	Err error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %v", agendaerrors.ErrInterpretationFailed, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", agendaerrors.ErrInterpretationFailed, e.Err)
}

// Unwrap exposes both the interpretation sentinel and the cause.
func (e *Error) Unwrap() []error {
	return []error{agendaerrors.ErrInterpretationFailed, e.Err}
}
