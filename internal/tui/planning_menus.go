package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

// PlanAction is the user's decision about a generated plan.
type PlanAction string

// Plan review actions.
const (
	PlanApprove    PlanAction = "approve"
	PlanEdit       PlanAction = "edit"
	PlanRegenerate PlanAction = "regenerate"
	PlanCancel     PlanAction = "cancel"
)

// SkillOptions returns the skill level menu entries.
func SkillOptions() []Option {
	return []Option{
		{Label: "Beginner", Description: "small, detailed steps", Value: string(constants.SkillBeginner)},
		{Label: "Intermediate", Description: "balanced detail", Value: string(constants.SkillIntermediate)},
		{Label: "Expert", Description: "high-level steps", Value: string(constants.SkillExpert)},
	}
}

// ModeOptions returns the run mode menu entries.
func ModeOptions() []Option {
	return []Option{
		{Label: "Confirm", Description: "review the plan before it runs", Value: string(constants.RunModeConfirm)},
		{Label: "Auto", Description: "run the plan right away", Value: string(constants.RunModeAuto)},
	}
}

// PlanActionOptions returns the plan review menu entries.
func PlanActionOptions() []Option {
	return []Option{
		{Label: "Approve", Description: "run the plan", Value: string(PlanApprove)},
		{Label: "Edit a task", Value: string(PlanEdit)},
		{Label: "Regenerate", Description: "ask for a new plan", Value: string(PlanRegenerate)},
		{Label: "Cancel", Value: string(PlanCancel)},
	}
}

// PendingTaskOptions lists the tasks that can still be edited.
func PendingTaskOptions(tasks []*domain.Task) []Option {
	var out []Option
	for _, t := range tasks {
		if t.Status != constants.TaskStatusPending {
			continue
		}
		out = append(out, Option{
			Label: fmt.Sprintf("#%d %s", t.ID, Truncate(t.Title, 60)),
			Value: strconv.Itoa(t.ID),
		})
	}
	return out
}

// SelectSkill asks for the user's skill level.
func SelectSkill() (constants.SkillLevel, error) {
	v, err := Select("What is your experience level?", SkillOptions())
	if err != nil {
		return "", err
	}
	skill, _ := constants.ParseSkillLevel(v)
	return skill, nil
}

// SelectMode asks how the plan should run.
func SelectMode() (constants.RunMode, error) {
	v, err := Select("How should the plan run?", ModeOptions())
	if err != nil {
		return "", err
	}
	mode, _ := constants.ParseRunMode(v)
	return mode, nil
}

// SelectPlanAction asks what to do with a generated plan.
func SelectPlanAction() (PlanAction, error) {
	v, err := Select("What would you like to do?", PlanActionOptions())
	if err != nil {
		return "", err
	}
	return PlanAction(v), nil
}

// SelectPendingTask asks which pending task to edit.
func SelectPendingTask(tasks []*domain.Task) (int, error) {
	v, err := Select("Which task?", PendingTaskOptions(tasks))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

// ConfirmEdit shows a proposal and asks whether to apply it.
func ConfirmEdit(p *domain.EditProposal) (bool, error) {
	return Confirm(FormatProposal(p)+"\n\nApply this change?", true)
}

// FormatProposal renders an edit proposal as plain text.
func FormatProposal(p *domain.EditProposal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task #%d: %s", p.TaskID, p.Summary)
	if p.Diff.Title != nil {
		fmt.Fprintf(&b, "\n  title: %s", *p.Diff.Title)
	}
	if p.Diff.Description != nil {
		fmt.Fprintf(&b, "\n  description: %s", *p.Diff.Description)
	}
	if p.Diff.Phase != nil {
		fmt.Fprintf(&b, "\n  phase: %s", *p.Diff.Phase)
	}
	return b.String()
}

// NonEmpty is an Input validator that rejects blank answers.
func NonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: a value is required", agendaerrors.ErrInvalidArgument)
	}
	return nil
}
