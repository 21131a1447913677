package domain

import (
	"time"

	"github.com/mrz1836/agenda/internal/constants"
)

// Outcome is what the execution step reports for one task.
type Outcome struct {
	// Success is true when the executor reported the task done.
	Success bool `json:"success"`

	// Narrative is the human-readable account of what happened.
	Narrative string `json:"narrative"`

	// Actions lists the concrete actions taken.
	Actions []string `json:"actions,omitempty"`

	// ToolsUsed lists the capability names the executor reported using.
	ToolsUsed []string `json:"tools_used,omitempty"`
}

// Status maps the outcome onto the terminal task status.
func (o Outcome) Status() constants.TaskStatus {
	if o.Success {
		return constants.TaskStatusSuccess
	}
	return constants.TaskStatusFailed
}

// ExecutionRecord is emitted to the logging sink after every executed task.
type ExecutionRecord struct {
	// RunID groups the records of a single engine run.
	RunID string `json:"run_id"`

	// TaskID is the id of the executed task.
	TaskID int `json:"task_id"`

	// Title and Phase are copied from the task at completion.
	Title string          `json:"title"`
	Phase constants.Phase `json:"phase"`

	// Status is the terminal status the task reached.
	Status constants.TaskStatus `json:"status"`

	// Narrative is the stored result.
	Narrative string `json:"narrative"`

	// ToolsUsed lists the capability names reported by the executor.
	ToolsUsed []string `json:"tools_used,omitempty"`

	// Aborted is true when a collaborator failure cut the step short.
	Aborted bool `json:"aborted"`

	// StartedAt and Duration time the execution step.
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}
