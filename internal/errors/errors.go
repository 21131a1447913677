// Package errors provides centralized error handling for agenda.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the task lifecycle.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrPlanningFailed indicates the planner could not produce a valid plan,
	// either because the collaborator failed or because its response stayed
	// invalid after the corrective retry.
	ErrPlanningFailed = errors.New("planning failed")

	// ErrAnalysisFailed indicates the clarifying-question analysis failed.
	// Callers degrade to planning without clarifications.
	ErrAnalysisFailed = errors.New("goal analysis failed")

	// ErrInterpretationFailed indicates an edit request could not be turned
	// into a valid field diff.
	ErrInterpretationFailed = errors.New("edit interpretation failed")

	// ErrInvalidState indicates an edit or execution was attempted on a task
	// in the wrong lifecycle state.
	ErrInvalidState = errors.New("invalid task state")

	// ErrExecutionAborted indicates the execution step of a single task was
	// cut short by a collaborator failure. The task is marked failed and the
	// run continues.
	ErrExecutionAborted = errors.New("execution aborted")

	// ErrTaskNotFound indicates no task with the requested id exists in the store.
	ErrTaskNotFound = errors.New("task not found")

	// ErrEmptyPlan indicates a plan with no tasks.
	ErrEmptyPlan = errors.New("plan contains no tasks")

	// ErrInvalidArgument indicates a caller supplied an empty or malformed argument.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Sentinel errors for the language model collaborator.
// The authentication and rate limit errors also match ErrCollaborator, so
// the core can treat every collaborator failure identically.
var (
	// ErrCollaborator indicates the language model request failed.
	ErrCollaborator = errors.New("collaborator request failed")

	// ErrCollaboratorAuth indicates the language model rejected the credentials.
	ErrCollaboratorAuth = fmt.Errorf("%w: authentication rejected", ErrCollaborator)

	// ErrCollaboratorRateLimited indicates the language model throttled the request.
	ErrCollaboratorRateLimited = fmt.Errorf("%w: rate limited", ErrCollaborator)

	// ErrCollaboratorEmptyResponse indicates the language model returned no content.
	ErrCollaboratorEmptyResponse = fmt.Errorf("%w: empty response", ErrCollaborator)

	// ErrAPIKeyMissing indicates no API key could be found in the environment.
	ErrAPIKeyMissing = errors.New("api key not set")

	// ErrMalformedResponse indicates a collaborator response that is not the
	// JSON document the prompt asked for.
	ErrMalformedResponse = errors.New("malformed collaborator response")
)

// Sentinel errors for sessions.
var (
	// ErrSessionNotFound indicates the session id is unknown to the registry.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionBusy indicates a run is in flight and the plan cannot change.
	ErrSessionBusy = errors.New("session is busy")

	// ErrApprovalRequired indicates a confirm-mode plan was run before approval.
	ErrApprovalRequired = errors.New("plan approval required")

	// ErrNoPlan indicates an operation needs a generated plan and none exists.
	ErrNoPlan = errors.New("no plan generated")

	// ErrUserCanceled indicates the user backed out of an interactive flow.
	ErrUserCanceled = errors.New("canceled by user")
)

// Sentinel errors for configuration and storage.
var (
	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidLLM indicates an invalid language model configuration value.
	ErrConfigInvalidLLM = errors.New("invalid llm configuration")

	// ErrConfigInvalidExecution indicates an invalid execution configuration value.
	ErrConfigInvalidExecution = errors.New("invalid execution configuration")

	// ErrConfigInvalidTools indicates an unknown tool name in configuration.
	ErrConfigInvalidTools = errors.New("invalid tools configuration")

	// ErrConfigLoad indicates configuration files could not be read.
	ErrConfigLoad = errors.New("failed to load configuration")

	// ErrPlanFileInvalid indicates a plan file that cannot be restored.
	ErrPlanFileInvalid = errors.New("invalid plan file")

	// ErrPlanLocked indicates another process is running the same plan file.
	ErrPlanLocked = errors.New("plan file is in use")

	// ErrJournal indicates the execution journal could not be read or written.
	ErrJournal = errors.New("journal operation failed")

	// ErrInvalidOutputFormat indicates an unsupported --output value.
	ErrInvalidOutputFormat = errors.New("invalid output format")
)

// ExitCode2Error wraps an error to indicate exit code 2 (invalid input) should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
