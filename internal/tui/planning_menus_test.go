package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

func TestMenuOptions(t *testing.T) {
	for _, opt := range SkillOptions() {
		_, ok := constants.ParseSkillLevel(opt.Value)
		assert.True(t, ok, opt.Value)
	}
	for _, opt := range ModeOptions() {
		_, ok := constants.ParseRunMode(opt.Value)
		assert.True(t, ok, opt.Value)
	}

	actions := make([]PlanAction, 0, 4)
	for _, opt := range PlanActionOptions() {
		actions = append(actions, PlanAction(opt.Value))
	}
	assert.Equal(t, []PlanAction{PlanApprove, PlanEdit, PlanRegenerate, PlanCancel}, actions)
}

func TestPendingTaskOptions(t *testing.T) {
	tasks := []*domain.Task{
		{ID: 1, Title: "Done already", Status: constants.TaskStatusSuccess},
		{ID: 2, Title: "Still to do", Status: constants.TaskStatusPending},
		{ID: 3, Title: "Broken", Status: constants.TaskStatusFailed},
	}

	opts := PendingTaskOptions(tasks)
	require.Len(t, opts, 1)
	assert.Equal(t, "#2 Still to do", opts[0].Label)
	assert.Equal(t, "2", opts[0].Value)
}

func TestSelect_NoOptions(t *testing.T) {
	_, err := Select("pick", nil)
	require.ErrorIs(t, err, agendaerrors.ErrInvalidArgument)
}

func TestFormatProposal(t *testing.T) {
	title := "Write integration tests"
	phase := constants.PhaseTesting
	p := &domain.EditProposal{
		TaskID:  4,
		Summary: "Change title, phase.",
		Diff:    domain.TaskDiff{Title: &title, Phase: &phase},
	}

	got := FormatProposal(p)
	assert.Equal(t, "Task #4: Change title, phase.\n  title: Write integration tests\n  phase: testing", got)
}

func TestNonEmpty(t *testing.T) {
	require.NoError(t, NonEmpty("goal"))
	require.ErrorIs(t, NonEmpty("   "), agendaerrors.ErrInvalidArgument)
}

func TestAdaptWidth(t *testing.T) {
	w := adaptWidth(60)
	assert.GreaterOrEqual(t, w, MinMenuWidth)
	assert.LessOrEqual(t, w, 60)
}
