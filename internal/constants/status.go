package constants

import "strings"

// TaskStatus represents the lifecycle state of a planned task.
// Status values use snake_case for JSON serialization compatibility.
type TaskStatus string

// Task status constants define the valid states a task can be in.
// The lifecycle is strictly forward:
//
//	Pending → InProgress
//	InProgress → Success, Failed
const (
	// TaskStatusPending indicates a task is planned but not yet started.
	// Only pending tasks may be edited.
	TaskStatusPending TaskStatus = "pending"

	// TaskStatusInProgress indicates the task is currently being executed.
	// At most one task in a store is in this state.
	TaskStatusInProgress TaskStatus = "in_progress"

	// TaskStatusSuccess indicates the execution step reported success.
	TaskStatusSuccess TaskStatus = "success"

	// TaskStatusFailed indicates the execution step reported failure or
	// was aborted by a collaborator error.
	TaskStatusFailed TaskStatus = "failed"
)

// String returns the string representation of the TaskStatus.
// This implements fmt.Stringer for convenient logging and debugging.
func (s TaskStatus) String() string {
	return string(s)
}

// AllTaskStatuses returns every task status in lifecycle order.
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusPending,
		TaskStatusInProgress,
		TaskStatusSuccess,
		TaskStatusFailed,
	}
}

// Phase is the lifecycle stage a task belongs to.
type Phase string

// Phase constants, listed in lifecycle order.
const (
	// PhasePlanning covers requirements, research and design work.
	PhasePlanning Phase = "planning"

	// PhaseDevelopment covers building and implementing.
	PhaseDevelopment Phase = "development"

	// PhaseTesting covers verification and quality checks.
	PhaseTesting Phase = "testing"

	// PhaseDeployment covers release and rollout.
	PhaseDeployment Phase = "deployment"
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	return string(p)
}

// Valid reports whether p is one of the four lifecycle phases.
func (p Phase) Valid() bool {
	switch p {
	case PhasePlanning, PhaseDevelopment, PhaseTesting, PhaseDeployment:
		return true
	}
	return false
}

// AllPhases returns the four phases in lifecycle order.
func AllPhases() []Phase {
	return []Phase{PhasePlanning, PhaseDevelopment, PhaseTesting, PhaseDeployment}
}

// ParsePhase normalizes s (surrounding whitespace, letter case) and returns the
// matching Phase. The second return value is false for anything outside the
// four-value enumeration.
func ParsePhase(s string) (Phase, bool) {
	p := Phase(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", false
	}
	return p, true
}

// SkillLevel is the user's self-declared expertise. It controls how granular
// the generated plan is.
type SkillLevel string

// Skill level constants.
const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillExpert       SkillLevel = "expert"
)

// String returns the string representation of the SkillLevel.
func (s SkillLevel) String() string {
	return string(s)
}

// AllSkillLevels returns the skill levels from least to most experienced.
func AllSkillLevels() []SkillLevel {
	return []SkillLevel{SkillBeginner, SkillIntermediate, SkillExpert}
}

// ParseSkillLevel normalizes s and returns the matching SkillLevel.
func ParseSkillLevel(s string) (SkillLevel, bool) {
	l := SkillLevel(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case SkillBeginner, SkillIntermediate, SkillExpert:
		return l, true
	}
	return "", false
}

// RunMode selects whether a plan needs explicit approval before it runs.
type RunMode string

// Run mode constants.
const (
	// RunModeConfirm requires the user to approve the plan before execution.
	RunModeConfirm RunMode = "confirm"

	// RunModeAuto executes the plan as soon as it is generated.
	RunModeAuto RunMode = "auto"
)

// String returns the string representation of the RunMode.
func (m RunMode) String() string {
	return string(m)
}

// ParseRunMode normalizes s and returns the matching RunMode.
func ParseRunMode(s string) (RunMode, bool) {
	m := RunMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case RunModeConfirm, RunModeAuto:
		return m, true
	}
	return "", false
}
