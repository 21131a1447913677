// Package domain provides shared domain types for agenda.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case.
package domain

import (
	"time"

	"github.com/mrz1836/agenda/internal/constants"
)

// Task is one actionable step of a plan.
//
// Example JSON representation:
//
//	{
//	    "id": 3,
//	    "title": "Write integration tests",
//	    "description": "Cover the signup and login flows end to end",
//	    "phase": "testing",
//	    "reasoning": "Catches regressions before deployment",
//	    "status": "success",
//	    "result": "Wrote 12 tests covering ...",
//	    "order_index": 2
//	}
type Task struct {
	// ID is assigned by the store: starts at 1, strictly increasing, never reused.
	ID int `json:"id" yaml:"id"`

	// Title is a short non-empty label.
	Title string `json:"title" yaml:"title"`

	// Description is the free-text body of the task.
	Description string `json:"description" yaml:"description"`

	// Phase is the lifecycle stage this task belongs to.
	Phase constants.Phase `json:"phase" yaml:"phase"`

	// Reasoning explains why this task exists. Not editable.
	Reasoning string `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`

	// Status is the lifecycle state.
	Status constants.TaskStatus `json:"status" yaml:"status"`

	// Result is the execution narrative. Empty until the task reaches a
	// terminal state.
	Result string `json:"result,omitempty" yaml:"result,omitempty"`

	// Actions lists what the executor reported doing, if anything.
	Actions []string `json:"actions,omitempty" yaml:"actions,omitempty"`

	// ToolsUsed lists the capability names the executor reported using.
	ToolsUsed []string `json:"tools_used,omitempty" yaml:"tools_used,omitempty"`

	// OrderIndex is the position within the plan (0-based).
	OrderIndex int `json:"order_index" yaml:"order_index"`

	// CreatedAt is when the task entered the store.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`

	// CompletedAt is when the task reached a terminal state (nil otherwise).
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`

	// Transitions is the audit trail of status changes.
	Transitions []Transition `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// Transition records a single status change of a task.
type Transition struct {
	FromStatus constants.TaskStatus `json:"from_status" yaml:"from_status"`
	ToStatus   constants.TaskStatus `json:"to_status" yaml:"to_status"`
	Timestamp  time.Time            `json:"timestamp" yaml:"timestamp"`
	Reason     string               `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// NewTask holds the fields a planner supplies when adding a task to a store.
// Identity, status and ordering are assigned by the store.
type NewTask struct {
	Title       string
	Description string
	Phase       constants.Phase
	Reasoning   string
}

// IsTerminal reports whether the task has finished executing.
func (t *Task) IsTerminal() bool {
	return t.Status == constants.TaskStatusSuccess || t.Status == constants.TaskStatusFailed
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.Actions = append([]string(nil), t.Actions...)
	c.ToolsUsed = append([]string(nil), t.ToolsUsed...)
	c.Transitions = append([]Transition(nil), t.Transitions...)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}
