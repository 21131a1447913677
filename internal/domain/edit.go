package domain

import "github.com/mrz1836/agenda/internal/constants"

// Editable field names. An edit may touch only these.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPhase       = "phase"
)

// TaskDiff is a proposed replacement of a subset of a task's editable fields.
// A nil pointer means the field is left untouched.
type TaskDiff struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Phase       *constants.Phase `json:"phase,omitempty"`
}

// Fields returns the names of the fields the diff replaces, in a stable order.
func (d TaskDiff) Fields() []string {
	var fields []string
	if d.Title != nil {
		fields = append(fields, FieldTitle)
	}
	if d.Description != nil {
		fields = append(fields, FieldDescription)
	}
	if d.Phase != nil {
		fields = append(fields, FieldPhase)
	}
	return fields
}

// IsEmpty reports whether the diff changes nothing.
func (d TaskDiff) IsEmpty() bool {
	return d.Title == nil && d.Description == nil && d.Phase == nil
}

// EditProposal is the interpreter's reading of a natural-language edit
// request. It is shown to the user and only applied after confirmation.
type EditProposal struct {
	// TaskID identifies the task the proposal targets.
	TaskID int `json:"task_id"`

	// Request is the user's original wording.
	Request string `json:"request"`

	// Diff is the set of field replacements.
	Diff TaskDiff `json:"diff"`

	// Summary is a one-sentence description of the change.
	Summary string `json:"summary"`
}
