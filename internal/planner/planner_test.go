package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/agenda/internal/config"
	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/llm/llmtest"
)

const landingPagePlan = `{"tasks":[
 {"title":"Define audience","description":"Write down who the page is for","phase":"Planning","reasoning":"Shapes copy"},
 {"title":"Build the page","description":"HTML and CSS","phase":"development","reasoning":"Core work"},
 {"title":"Check on mobile","description":"Test three devices","phase":"TESTING","reasoning":"Most visitors are mobile"},
 {"title":"Publish","description":"Deploy to static hosting","phase":" deployment ","reasoning":"Go live"}
]}`

func newTestPlanner(client *llmtest.Client) *Planner {
	return New(client, DefaultConfig(), zerolog.Nop())
}

func TestGenerate_LandingPage(t *testing.T) {
	client := llmtest.New(llmtest.Reply(landingPagePlan))
	p := newTestPlanner(client)

	store, err := p.Generate(context.Background(), "build a landing page", constants.SkillBeginner, nil)
	require.NoError(t, err)
	require.Equal(t, 4, store.Len())

	for i, tk := range store.Tasks() {
		assert.Equal(t, i+1, tk.ID)
		assert.Equal(t, constants.TaskStatusPending, tk.Status)
		assert.True(t, tk.Phase.Valid())
	}

	byPhase := store.ByPhase()
	for _, phase := range constants.AllPhases() {
		assert.NotEmpty(t, byPhase[phase], "phase %s missing", phase)
	}

	prompts := client.Prompts()
	require.Len(t, prompts, 1)
	assert.Equal(t, "plan", prompts[0].Purpose)
	assert.True(t, prompts[0].JSON)
	assert.Contains(t, prompts[0].User, "build a landing page")
	assert.Contains(t, prompts[0].User, "very detailed")
}

func TestGenerate_AcceptsFencedArray(t *testing.T) {
	reply := "Here is your plan:\n```json\n[{\"title\":\"Only task\",\"phase\":\"planning\"}]\n```"
	p := newTestPlanner(llmtest.New(llmtest.Reply(reply)))

	store, err := p.Generate(context.Background(), "tiny goal", constants.SkillExpert, nil)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())
	tk, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Only task", tk.Title)
}

func TestGenerate_IncludesClarifications(t *testing.T) {
	client := llmtest.New(llmtest.Reply(landingPagePlan))
	p := newTestPlanner(client)

	_, err := p.Generate(context.Background(), "build a landing page", constants.SkillIntermediate, []domain.Clarification{
		{Question: "Who is it for?", Answer: "Dentists"},
	})
	require.NoError(t, err)
	assert.Contains(t, client.Prompts()[0].User, "A: Dentists")
}

func TestGenerate_CorrectiveRetry(t *testing.T) {
	tests := []struct {
		name  string
		first string
	}{
		{name: "malformed json", first: "not json at all"},
		{name: "empty list", first: `{"tasks":[]}`},
		{name: "unknown phase", first: `{"tasks":[{"title":"x","phase":"launch"}]}`},
		{name: "missing title", first: `{"tasks":[{"title":" ","phase":"planning"}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := llmtest.New(llmtest.Reply(tc.first), llmtest.Reply(landingPagePlan))
			p := newTestPlanner(client)

			store, err := p.Generate(context.Background(), "goal", constants.SkillExpert, nil)
			require.NoError(t, err)
			assert.Equal(t, 4, store.Len())
			require.Equal(t, 2, client.Calls())
			assert.Contains(t, client.Prompts()[1].User, "could not be used")
		})
	}
}

func TestGenerate_FailsAfterSecondInvalidReply(t *testing.T) {
	client := llmtest.New(llmtest.Reply(`{"tasks":[]}`), llmtest.Reply(`{"tasks":[{"title":"x","phase":"Launch"}]}`))
	p := newTestPlanner(client)

	store, err := p.Generate(context.Background(), "goal", constants.SkillExpert, nil)
	require.Error(t, err)
	assert.Nil(t, store)
	require.ErrorIs(t, err, agendaerrors.ErrPlanningFailed)
	require.ErrorIs(t, err, agendaerrors.ErrMalformedResponse)

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Attempts)
	assert.Contains(t, perr.Raw, "Launch")
}

func TestGenerate_CollaboratorFailureIsNotRetried(t *testing.T) {
	client := llmtest.New(llmtest.Fail(agendaerrors.ErrCollaboratorAuth), llmtest.Reply(landingPagePlan))
	p := newTestPlanner(client)

	_, err := p.Generate(context.Background(), "goal", constants.SkillExpert, nil)
	require.ErrorIs(t, err, agendaerrors.ErrPlanningFailed)
	require.ErrorIs(t, err, agendaerrors.ErrCollaboratorAuth)
	assert.Equal(t, 1, client.Calls())
}

func TestGenerate_CollaboratorFailureOnCorrection(t *testing.T) {
	client := llmtest.New(llmtest.Reply("garbage"), llmtest.Fail(agendaerrors.ErrCollaboratorRateLimited))
	p := newTestPlanner(client)

	_, err := p.Generate(context.Background(), "goal", constants.SkillExpert, nil)
	require.ErrorIs(t, err, agendaerrors.ErrPlanningFailed)
	require.ErrorIs(t, err, agendaerrors.ErrCollaborator)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Empty(t, perr.Raw)
}

func TestGenerate_EmptyGoal(t *testing.T) {
	client := llmtest.New()
	p := newTestPlanner(client)

	_, err := p.Generate(context.Background(), "   ", constants.SkillExpert, nil)
	require.ErrorIs(t, err, agendaerrors.ErrInvalidArgument)
	assert.Zero(t, client.Calls())
}

func TestGenerate_UnknownSkillFallsBack(t *testing.T) {
	client := llmtest.New(llmtest.Reply(landingPagePlan))
	p := newTestPlanner(client)

	_, err := p.Generate(context.Background(), "goal", constants.SkillLevel("wizard"), nil)
	require.NoError(t, err)
	assert.Contains(t, client.Prompts()[0].User, "intermediate experience")
}

func TestGenerate_TruncatesToMaxTasks(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"tasks":[`)
	for i := 0; i < 5; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"title":"task %d","phase":"development"}`, i+1)
	}
	b.WriteString(`]}`)

	cfg := DefaultConfig()
	cfg.MaxTasks = 3
	p := New(llmtest.New(llmtest.Reply(b.String())), cfg, zerolog.Nop())

	store, err := p.Generate(context.Background(), "goal", constants.SkillExpert, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, 4, store.NextID())
}

func TestConfigFrom(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Planner.MaxTasks = 12
	cfg.LLM.Temperature.Plan = 0.9

	got := ConfigFrom(cfg)
	assert.Equal(t, 12, got.MaxTasks)
	assert.InDelta(t, 0.9, got.PlanTemperature, 0.0001)
	assert.Equal(t, constants.MaxClarifyingQuestions, got.MaxQuestions)

	assert.Equal(t, DefaultConfig(), ConfigFrom(nil))
}
