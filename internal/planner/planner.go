// Package planner turns a goal into an ordered plan of pending tasks by
// asking the language model collaborator for a structured task list.
//
// The model's reply is untrusted. Every task is checked for a title and a
// known phase before the plan is accepted; a reply that fails those checks
// earns one corrective retry, after which planning fails with *Error.
package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/agenda/internal/config"
	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/llm"
	"github.com/mrz1836/agenda/internal/prompts"
	"github.com/mrz1836/agenda/internal/task"
)

// maxRawInPrompt bounds how much of a rejected reply is echoed back in the
// corrective prompt.
const maxRawInPrompt = 2000

// Config holds the planner's tunables.
type Config struct {
	// MaxTasks caps the number of tasks accepted from one plan.
	MaxTasks int
	// MaxQuestions caps the clarifying questions returned by Analyze.
	MaxQuestions int
	// PlanTemperature and AnalyzeTemperature are the sampling temperatures.
	PlanTemperature    float32
	AnalyzeTemperature float32
	// MaxTokens caps each completion. Zero uses the client default.
	MaxTokens int
}

// DefaultConfig returns the built-in planner settings.
func DefaultConfig() Config {
	return Config{
		MaxTasks:           constants.MaxPlanTasks,
		MaxQuestions:       constants.MaxClarifyingQuestions,
		PlanTemperature:    constants.DefaultPlanTemperature,
		AnalyzeTemperature: constants.DefaultAnalyzeTemperature,
	}
}

// ConfigFrom derives planner settings from the application config.
func ConfigFrom(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if cfg.Planner.MaxTasks > 0 {
		c.MaxTasks = cfg.Planner.MaxTasks
	}
	c.PlanTemperature = float32(cfg.LLM.Temperature.Plan)
	c.AnalyzeTemperature = float32(cfg.LLM.Temperature.Analyze)
	c.MaxTokens = cfg.LLM.MaxTokens
	return c
}

// Planner generates plans and clarifying questions.
type Planner struct {
	client llm.Client
	cfg    Config
	logger zerolog.Logger
}

// New creates a Planner backed by client.
func New(client llm.Client, cfg Config, logger zerolog.Logger) *Planner {
	if cfg.MaxTasks <= 0 {
		cfg.MaxTasks = constants.MaxPlanTasks
	}
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = constants.MaxClarifyingQuestions
	}
	return &Planner{
		client: client,
		cfg:    cfg,
		logger: logger.With().Str("component", "planner").Logger(),
	}
}

// Generate asks the collaborator for a plan and returns it as a fresh store
// whose tasks are all pending with ids 1..N in reply order.
//
// A collaborator failure fails immediately. A reply that cannot be validated
// is retried once with a corrective instruction; if that reply fails too, the
// returned *Error carries it in Raw.
func (p *Planner) Generate(ctx context.Context, goal string, skill constants.SkillLevel, clarifications []domain.Clarification) (*task.Store, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, fmt.Errorf("%w: goal must not be empty", agendaerrors.ErrInvalidArgument)
	}
	if _, ok := constants.ParseSkillLevel(string(skill)); !ok {
		skill = constants.SkillIntermediate
	}

	data := prompts.PlanData{
		Goal:           goal,
		Skill:          string(skill),
		Clarifications: clarifications,
		Phases:         phaseNames(),
		MaxTasks:       p.cfg.MaxTasks,
	}

	log := p.logger.With().Str("skill", string(skill)).Logger()
	log.Info().Msg("generating plan")

	user, err := prompts.Render(prompts.PlanGenerate, data)
	if err != nil {
		return nil, &Error{Attempts: 0, Err: err}
	}

	raw, err := p.complete(ctx, user)
	if err != nil {
		return nil, &Error{Attempts: 1, Err: err}
	}

	store, problem := p.buildStore(raw)
	if problem == nil {
		p.logPlan(log, store, 1)
		return store, nil
	}

	log.Warn().Err(problem).Msg("plan reply rejected, retrying with correction")

	user, err = prompts.Render(prompts.PlanCorrective, prompts.CorrectiveData{
		PlanData: data,
		Problem:  problem.Error(),
		Previous: truncate(raw, maxRawInPrompt),
	})
	if err != nil {
		return nil, &Error{Attempts: 1, Raw: raw, Err: err}
	}

	raw, err = p.complete(ctx, user)
	if err != nil {
		return nil, &Error{Attempts: 2, Err: err}
	}

	store, problem = p.buildStore(raw)
	if problem != nil {
		log.Error().Err(problem).Msg("plan reply rejected after correction")
		return nil, &Error{Attempts: 2, Raw: raw, Err: problem}
	}

	p.logPlan(log, store, 2)
	return store, nil
}

func (p *Planner) complete(ctx context.Context, user string) (string, error) {
	system, err := prompts.Render(prompts.PlanSystem, nil)
	if err != nil {
		return "", err
	}
	return p.client.Complete(ctx, &domain.PromptSpec{
		Purpose:     "plan",
		System:      system,
		User:        user,
		Temperature: p.cfg.PlanTemperature,
		MaxTokens:   p.cfg.MaxTokens,
		JSON:        true,
	})
}

// buildStore validates raw and converts it into a store. Nothing is added to
// the store unless every task passes.
func (p *Planner) buildStore(raw string) (*task.Store, error) {
	tasks, err := parsePlan(raw)
	if err != nil {
		return nil, err
	}

	if len(tasks) > p.cfg.MaxTasks {
		p.logger.Warn().
			Int("received", len(tasks)).
			Int("max_tasks", p.cfg.MaxTasks).
			Msg("plan truncated to max tasks")
		tasks = tasks[:p.cfg.MaxTasks]
	}

	store := task.NewStore()
	for _, nt := range tasks {
		if _, err := store.Add(nt); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// logPlan records the accepted plan and warns about lifecycle phases the
// plan leaves out. Missing phases do not reject the plan.
func (p *Planner) logPlan(log zerolog.Logger, store *task.Store, attempts int) {
	byPhase := store.ByPhase()
	var missing []string
	for _, phase := range constants.AllPhases() {
		if len(byPhase[phase]) == 0 {
			missing = append(missing, string(phase))
		}
	}
	if len(missing) > 0 {
		log.Warn().Strs("missing_phases", missing).Msg("plan does not cover every phase")
	}
	log.Info().Int("tasks", store.Len()).Int("attempts", attempts).Msg("plan generated")
}

func phaseNames() []string {
	phases := constants.AllPhases()
	names := make([]string, 0, len(phases))
	for _, phase := range phases {
		names = append(names, string(phase))
	}
	return names
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
