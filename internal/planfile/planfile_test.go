package planfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/task"
)

func sampleStore(t *testing.T) *task.Store {
	t.Helper()
	store := task.NewStore()
	for _, nt := range []domain.NewTask{
		{Title: "Research", Phase: constants.PhasePlanning, Reasoning: "know the field"},
		{Title: "Build", Description: "write code", Phase: constants.PhaseDevelopment},
		{Title: "Ship", Phase: constants.PhaseDeployment},
	} {
		_, err := store.Add(nt)
		require.NoError(t, err)
	}
	_, err := store.Begin(context.Background(), 1)
	require.NoError(t, err)
	_, err = store.Complete(context.Background(), 1, domain.Outcome{Success: true, Narrative: "found three competitors"})
	require.NoError(t, err)
	return store
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans", "plan.yaml")
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	plan := FromStore("open a bakery", constants.SkillBeginner, sampleStore(t), now)
	require.NoError(t, Save(path, plan))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	loaded, store, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "open a bakery", loaded.Goal)
	assert.Equal(t, "beginner", loaded.Skill)
	assert.True(t, loaded.ExportedAt.Equal(now))

	require.Equal(t, 3, store.Len())
	assert.Equal(t, 4, store.NextID())
	first, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusSuccess, first.Status)
	assert.Equal(t, "found three competitors", first.Result)
	assert.Len(t, first.Transitions, 2)
	assert.Equal(t, []int{2, 3}, store.PendingIDs())
}

func TestLoad_HandEditedPhase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	content := `version: "1"
goal: tidy garage
tasks:
  - id: 1
    title: Sort boxes
    phase: Planning
    status: pending
  - id: 5
    title: Haul junk
    phase: DEPLOYMENT
    status: pending
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, store, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, store.NextID())
	tk, err := store.Get(5)
	require.NoError(t, err)
	assert.Equal(t, constants.PhaseDeployment, tk.Phase)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "not yaml", content: "::: [", wantErr: agendaerrors.ErrPlanFileInvalid},
		{name: "wrong version", content: "version: \"9\"\ntasks:\n  - id: 1\n    title: x\n    phase: planning\n    status: pending\n", wantErr: agendaerrors.ErrPlanFileInvalid},
		{name: "no tasks", content: "version: \"1\"\ngoal: x\n", wantErr: agendaerrors.ErrEmptyPlan},
		{name: "unknown phase", content: "version: \"1\"\ntasks:\n  - id: 1\n    title: x\n    phase: launch\n    status: pending\n", wantErr: agendaerrors.ErrInvalidArgument},
		{name: "interrupted task", content: "version: \"1\"\ntasks:\n  - id: 1\n    title: x\n    phase: testing\n    status: in_progress\n", wantErr: agendaerrors.ErrInvalidState},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "plan.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))

			_, _, err := Load(path)
			require.ErrorIs(t, err, tc.wantErr)
			require.ErrorIs(t, err, agendaerrors.ErrPlanFileInvalid)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")

	release, err := Lock(path)
	require.NoError(t, err)

	_, err = Lock(path)
	require.ErrorIs(t, err, agendaerrors.ErrPlanLocked)

	require.NoError(t, release())
	again, err := Lock(path)
	require.NoError(t, err)
	require.NoError(t, again())
}
