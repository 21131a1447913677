// Package executor implements the execution step of a plan: it asks the
// language model collaborator to carry out one task and reads back a
// structured outcome.
package executor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrz1836/agenda/internal/config"
	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/llm"
	"github.com/mrz1836/agenda/internal/prompts"
	"github.com/mrz1836/agenda/internal/task"
)

// Config holds the executor's tunables.
type Config struct {
	Temperature float32
	// MaxTokens caps each completion. Zero uses the client default.
	MaxTokens int
}

// ConfigFrom derives executor settings from the application config.
func ConfigFrom(cfg *config.Config) Config {
	if cfg == nil {
		return Config{Temperature: constants.DefaultExecuteTemperature}
	}
	return Config{
		Temperature: float32(cfg.LLM.Temperature.Execute),
		MaxTokens:   cfg.LLM.MaxTokens,
	}
}

// LLMExecutor runs tasks through the collaborator.
type LLMExecutor struct {
	client llm.Client
	cfg    Config
	logger zerolog.Logger
}

var _ task.Executor = (*LLMExecutor)(nil)

// New creates an LLMExecutor backed by client.
func New(client llm.Client, cfg Config, logger zerolog.Logger) *LLMExecutor {
	return &LLMExecutor{
		client: client,
		cfg:    cfg,
		logger: logger.With().Str("component", "executor").Logger(),
	}
}

// Execute implements task.Executor. A collaborator failure or an unreadable
// reply is returned as an error; a reply that reports failure is a normal
// outcome with Success false.
func (x *LLMExecutor) Execute(ctx context.Context, t *domain.Task, tools domain.ToolContext) (*domain.Outcome, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: task is nil", agendaerrors.ErrInvalidArgument)
	}

	system, err := prompts.Render(prompts.ExecuteSystem, nil)
	if err != nil {
		return nil, err
	}
	user, err := prompts.Render(prompts.ExecuteTask, prompts.ExecuteData{
		Task:  *t,
		Tools: tools.Capabilities,
	})
	if err != nil {
		return nil, err
	}

	raw, err := x.client.Complete(ctx, &domain.PromptSpec{
		Purpose:     "execute",
		System:      system,
		User:        user,
		Temperature: x.cfg.Temperature,
		MaxTokens:   x.cfg.MaxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	outcome, unknownTools, err := parseOutcome(raw, tools)
	if err != nil {
		return nil, err
	}
	if len(unknownTools) > 0 {
		x.logger.Warn().
			Int("task_id", t.ID).
			Strs("tools", unknownTools).
			Msg("ignoring tools outside the offered set")
	}
	return outcome, nil
}
