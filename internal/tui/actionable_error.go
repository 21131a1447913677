package tui

import (
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

// ActionableError pairs a user-facing message with a suggested next step.
//
// Example:
//
//	out.Error(tui.NewActionableError("No API key found.", "Set OPENAI_API_KEY"))
//	// ✗ No API key found.
//	//   ▸ Try: Set OPENAI_API_KEY
type ActionableError struct {
	// Message is the primary error message.
	Message string

	// Suggestion is the next step for the user; it starts with a verb.
	Suggestion string

	// Cause is the underlying error, if any.
	Cause error
}

// NewActionableError creates an ActionableError.
func NewActionableError(msg, suggestion string) *ActionableError {
	return &ActionableError{Message: msg, Suggestion: suggestion}
}

// FromError builds an ActionableError from the user-facing message and
// action registered for err's sentinel. Errors without a registered message
// keep their own text.
func FromError(err error) *ActionableError {
	if err == nil {
		return nil
	}
	msg, action := agendaerrors.Actionable(err)
	return &ActionableError{Message: msg, Suggestion: action, Cause: err}
}

// Error implements the error interface.
func (e *ActionableError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}
