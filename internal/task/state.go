// Package task provides task lifecycle management for agenda.
//
// This file implements the task state machine, which enforces the forward-only
// lifecycle and maintains an audit trail of all status changes.
//
// Import rules:
//   - CAN import: internal/constants, internal/domain, internal/errors, internal/clock, std lib
//   - MUST NOT import: internal/llm, internal/planner, internal/cli
package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

// ValidTransitions defines all allowed state transitions in the task lifecycle.
// Format: from_status -> []to_statuses
//
//	Pending → InProgress
//	InProgress → Success, Failed
//
// Success and Failed are terminal.
//
//nolint:gochecknoglobals // Exported for testing and read-only lookup table
var ValidTransitions = map[constants.TaskStatus][]constants.TaskStatus{
	constants.TaskStatusPending:    {constants.TaskStatusInProgress},
	constants.TaskStatusInProgress: {constants.TaskStatusSuccess, constants.TaskStatusFailed},
}

// Narratives stored when the executor reports no narrative of its own, so
// terminal tasks never carry an empty result.
const (
	defaultSuccessNarrative = "Task completed."
	defaultFailureNarrative = "Task failed without a reported reason."
)

// IsValidTransition checks if a transition from one status to another is allowed.
// Returns false for transitions from terminal states or to the same state.
func IsValidTransition(from, to constants.TaskStatus) bool {
	if from == to {
		return false
	}
	for _, target := range ValidTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus returns true for states where no further transitions are allowed.
func IsTerminalStatus(status constants.TaskStatus) bool {
	return status == constants.TaskStatusSuccess || status == constants.TaskStatusFailed
}

// Transition validates and applies a state transition to the task.
// It records the transition in the task's history and updates timestamps.
// The package-level functions stamp wall-clock time; the Store methods use
// the store's clock.
//
// Returns an error if:
//   - ctx is canceled
//   - task is nil
//   - The transition is invalid (returns wrapped ErrInvalidState)
func Transition(ctx context.Context, task *domain.Task, to constants.TaskStatus, reason string) error {
	return transitionAt(ctx, task, to, reason, time.Now().UTC())
}

func transitionAt(ctx context.Context, task *domain.Task, to constants.TaskStatus, reason string, now time.Time) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if task == nil {
		return fmt.Errorf("%w: task is nil", agendaerrors.ErrInvalidState)
	}

	from := task.Status
	if !IsValidTransition(from, to) {
		return fmt.Errorf("%w: task %d cannot transition from %s to %s",
			agendaerrors.ErrInvalidState, task.ID, from, to)
	}

	task.Transitions = append(task.Transitions, domain.Transition{
		FromStatus: from,
		ToStatus:   to,
		Timestamp:  now,
		Reason:     reason,
	})
	task.Status = to
	task.UpdatedAt = now

	if IsTerminalStatus(to) {
		task.CompletedAt = &now
	}

	return nil
}

// BeginExecution moves a pending task to in progress.
func BeginExecution(ctx context.Context, task *domain.Task) error {
	return Transition(ctx, task, constants.TaskStatusInProgress, "execution started")
}

// Complete moves an in-progress task to the terminal status carried by the
// outcome and stores its narrative, actions and tools.
func Complete(ctx context.Context, task *domain.Task, outcome domain.Outcome) error {
	return completeAt(ctx, task, outcome, time.Now().UTC())
}

func completeAt(ctx context.Context, task *domain.Task, outcome domain.Outcome, now time.Time) error {
	if task == nil {
		return fmt.Errorf("%w: task is nil", agendaerrors.ErrInvalidState)
	}
	if task.Status != constants.TaskStatusInProgress {
		return fmt.Errorf("%w: task %d is %s, not in progress",
			agendaerrors.ErrInvalidState, task.ID, task.Status)
	}

	narrative := strings.TrimSpace(outcome.Narrative)
	if narrative == "" {
		narrative = defaultFailureNarrative
		if outcome.Success {
			narrative = defaultSuccessNarrative
		}
	}

	if err := transitionAt(ctx, task, outcome.Status(), "execution finished", now); err != nil {
		return err
	}
	task.Result = narrative
	task.Actions = append([]string(nil), outcome.Actions...)
	task.ToolsUsed = append([]string(nil), outcome.ToolsUsed...)
	return nil
}

// ApplyEdit replaces the fields named by diff on a pending task. Each named
// field is replaced wholesale; fields the diff does not name are untouched.
// On any error the task is left exactly as it was.
func ApplyEdit(task *domain.Task, diff domain.TaskDiff) error {
	return applyEditAt(task, diff, time.Now().UTC())
}

func applyEditAt(task *domain.Task, diff domain.TaskDiff, now time.Time) error {
	if task == nil {
		return fmt.Errorf("%w: task is nil", agendaerrors.ErrInvalidArgument)
	}
	if task.Status != constants.TaskStatusPending {
		return fmt.Errorf("%w: task %d is %s, only pending tasks can be edited",
			agendaerrors.ErrInvalidState, task.ID, task.Status)
	}

	if diff.Title != nil && strings.TrimSpace(*diff.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", agendaerrors.ErrInvalidArgument)
	}
	if diff.Phase != nil && !diff.Phase.Valid() {
		return fmt.Errorf("%w: unknown phase %q", agendaerrors.ErrInvalidArgument, *diff.Phase)
	}
	if diff.IsEmpty() {
		return nil
	}

	if diff.Title != nil {
		task.Title = strings.TrimSpace(*diff.Title)
	}
	if diff.Description != nil {
		task.Description = *diff.Description
	}
	if diff.Phase != nil {
		task.Phase = *diff.Phase
	}
	task.UpdatedAt = now
	return nil
}
