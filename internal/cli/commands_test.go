package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/llm/llmtest"
	"github.com/mrz1836/agenda/internal/planfile"
	"github.com/mrz1836/agenda/internal/task"
)

func writePlan(t *testing.T, titles ...string) string {
	t.Helper()
	store := task.NewStore()
	for _, title := range titles {
		_, err := store.Add(domain.NewTask{Title: title, Description: title, Phase: constants.PhaseDevelopment})
		require.NoError(t, err)
	}
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, planfile.Save(path, planfile.FromStore("Ship it", constants.SkillExpert, store, time.Now())))
	return path
}

func TestPlanCommand_Out(t *testing.T) {
	deps, _ := testDeps(t, llmtest.New(llmtest.Reply(planReply)))
	path := filepath.Join(t.TempDir(), "plans", "cli.yaml")

	out, err := runCLI(t, deps, "plan", "Build", "a", "CLI", "--skill", "beginner", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Plan with 2 tasks written to")

	plan, store, err := planfile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Build a CLI", plan.Goal)
	assert.Equal(t, "beginner", plan.Skill)
	assert.Equal(t, 2, store.Len())
}

func TestPlanCommand_Text(t *testing.T) {
	deps, _ := testDeps(t, llmtest.New(llmtest.Reply(planReply)))

	out, err := runCLI(t, deps, "plan", "Build a CLI")
	require.NoError(t, err)
	assert.Contains(t, out, "Plan for: Build a CLI")
	assert.Contains(t, out, "Planning")
	assert.Contains(t, out, "Outline the CLI")
	assert.Contains(t, out, "Write the code")
}

func TestPlanCommand_JSON(t *testing.T) {
	deps, _ := testDeps(t, llmtest.New(llmtest.Reply(planReply)))

	out, err := runCLI(t, deps, "plan", "Build a CLI", "-o", "json")
	require.NoError(t, err)

	var view struct {
		Goal    string        `json:"goal"`
		Summary task.Summary  `json:"summary"`
		Tasks   []domain.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "Build a CLI", view.Goal)
	assert.Equal(t, 2, view.Summary.Pending)
	require.Len(t, view.Tasks, 2)
	assert.Equal(t, constants.PhasePlanning, view.Tasks[0].Phase)
}

func TestPlanCommand_PlanningFailure(t *testing.T) {
	deps, _ := testDeps(t, llmtest.New(llmtest.Reply("no idea"), llmtest.Reply("still no idea")))

	_, err := runCLI(t, deps, "plan", "Build a CLI")
	require.ErrorIs(t, err, agendaerrors.ErrPlanningFailed)
	assert.Equal(t, ExitError, ExitCodeForError(err))
}

func TestPlanCommand_MissingGoal(t *testing.T) {
	deps, _ := testDeps(t, llmtest.New())

	_, err := runCLI(t, deps, "plan")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestExecuteCommand_Save(t *testing.T) {
	client := llmtest.New(llmtest.Reply(successReply), llmtest.Reply(failureReply))
	deps, _ := testDeps(t, client)
	path := writePlan(t, "Write main.go", "Write tests")

	out, err := runCLI(t, deps, "execute", path, "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Running 2 tasks")
	assert.Contains(t, out, "2 tasks: 1 succeeded, 1 failed")
	assert.Contains(t, out, "Outcomes saved to")

	_, store, err := planfile.Load(path)
	require.NoError(t, err)
	first, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusSuccess, first.Status)
	assert.Equal(t, []string{"create_file"}, first.ToolsUsed)
	second, err := store.Get(2)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusFailed, second.Status)

	// Finished tasks are not run again.
	out, err = runCLI(t, deps, "execute", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "Running")
	assert.Equal(t, 2, client.Calls())
}

func TestExecuteCommand_InvalidFile(t *testing.T) {
	deps, _ := testDeps(t, llmtest.New())

	_, err := runCLI(t, deps, "execute", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestHistoryCommand(t *testing.T) {
	deps, _ := testDeps(t, llmtest.New(llmtest.Reply(successReply), llmtest.Reply(successReply)))
	path := writePlan(t, "Write main.go", "Write tests")

	_, err := runCLI(t, deps, "execute", path)
	require.NoError(t, err)

	out, err := runCLI(t, deps, "history", "-o", "json")
	require.NoError(t, err)
	var records []domain.ExecutionRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, 2, records[0].TaskID)
	assert.Equal(t, records[0].RunID, records[1].RunID)

	out, err = runCLI(t, deps, "history", "--run", records[0].RunID, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "Write main.go")
	assert.Contains(t, out, "Write tests")
}

func TestHistoryCommand_Empty(t *testing.T) {
	deps, _ := testDeps(t, llmtest.New())

	out, err := runCLI(t, deps, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No executions recorded yet.")

	out, err = runCLI(t, deps, "history", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestHistoryCommand_Disabled(t *testing.T) {
	deps, cfg := testDeps(t, llmtest.New())
	cfg.Journal.Enabled = false

	out, err := runCLI(t, deps, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "journal is disabled")
}

func TestStartCommand_AutoMode(t *testing.T) {
	client := llmtest.New(llmtest.Reply(planReply), llmtest.Reply(successReply), llmtest.Reply(successReply))
	deps, _ := testDeps(t, client)

	out, err := runCLI(t, deps, "start", "Build a CLI", "--mode", "auto")
	require.NoError(t, err)
	assert.Contains(t, out, "Plan for: Build a CLI")
	assert.Contains(t, out, "2 tasks: 2 succeeded, 0 failed")
	assert.Contains(t, out, "Done.")
	assert.Equal(t, 3, client.Calls())
}

func TestStartCommand_YesApproves(t *testing.T) {
	client := llmtest.New(llmtest.Reply(planReply), llmtest.Reply(successReply), llmtest.Reply(failureReply))
	deps, _ := testDeps(t, client)

	out, err := runCLI(t, deps, "start", "Build a CLI", "--yes", "-o", "json")
	require.NoError(t, err)

	var view struct {
		Run  task.RunSummary `json:"run"`
		Plan struct {
			Summary task.Summary `json:"summary"`
		} `json:"plan"`
	}
	// The plan is printed first, the run second.
	dec := json.NewDecoder(strings.NewReader(out))
	var plan map[string]any
	require.NoError(t, dec.Decode(&plan))
	require.NoError(t, dec.Decode(&view))
	assert.Equal(t, 2, view.Run.Executed)
	assert.Equal(t, 1, view.Plan.Summary.Success)
	assert.Equal(t, 1, view.Plan.Summary.Failed)
}

func TestStartCommand_ConfirmNeedsApproval(t *testing.T) {
	client := llmtest.New(llmtest.Reply(planReply))
	deps, _ := testDeps(t, client)

	_, err := runCLI(t, deps, "start", "Build a CLI", "--mode", "confirm")
	require.ErrorIs(t, err, agendaerrors.ErrApprovalRequired)
	assert.Equal(t, 1, client.Calls())
}

func TestStartCommand_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no goal without a terminal", []string{"start"}},
		{"unknown skill", []string{"start", "goal", "--skill", "guru"}},
		{"unknown mode", []string{"start", "goal", "--mode", "yolo"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			deps, _ := testDeps(t, llmtest.New())
			_, err := runCLI(t, deps, tc.args...)
			require.ErrorIs(t, err, agendaerrors.ErrInvalidArgument)
			assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
		})
	}
}

func TestConfigShow(t *testing.T) {
	deps, _ := testDeps(t, llmtest.New())

	out, err := runCLI(t, deps, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "model: gpt-4o-mini")
	assert.Contains(t, out, "default_mode: confirm")
	assert.Contains(t, out, "task_timeout: 3m0s")

	out, err = runCLI(t, deps, "config", "show", "-o", "json")
	require.NoError(t, err)
	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "gpt-4o-mini", doc["llm"]["model"])
}

func TestRootCommand_InvalidOutputFormat(t *testing.T) {
	deps, _ := testDeps(t, llmtest.New())

	_, err := runCLI(t, deps, "config", "show", "-o", "xml")
	require.ErrorIs(t, err, agendaerrors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}
