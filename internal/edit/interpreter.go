// Package edit turns a plain-language edit request into a structured
// proposal for one task, and applies confirmed proposals.
//
// Interpret never mutates the task. The caller shows the proposal to the
// user and calls Apply only after confirmation; a declined proposal is simply
// dropped and Interpret may be called again with a different request.
package edit

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

// Config holds the interpreter's tunables.
type Config struct {
	Temperature float32
	// MaxTokens caps each completion. Zero uses the client default.
	MaxTokens int
}

// ConfigFrom derives interpreter settings from the application config.
func ConfigFrom(cfg *config.Config) Config {
	if cfg == nil {
		return Config{Temperature: constants.DefaultEditTemperature}
	}
	return Config{
		Temperature: float32(cfg.LLM.Temperature.Edit),
		MaxTokens:   cfg.LLM.MaxTokens,
	}
}

// Interpreter converts edit requests into proposals.
type Interpreter struct {
	client llm.Client
	cfg    Config
	logger zerolog.Logger
}

// New creates an Interpreter backed by client.
func New(client llm.Client, cfg Config, logger zerolog.Logger) *Interpreter {
	return &Interpreter{
		client: client,
		cfg:    cfg,
		logger: logger.With().Str("component", "edit").Logger(),
	}
}

// Interpret asks the collaborator what request means for t and returns the
// resulting proposal. Only pending tasks can be edited.
func (i *Interpreter) Interpret(ctx context.Context, t *domain.Task, request string) (*domain.EditProposal, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: task is nil", agendaerrors.ErrInvalidArgument)
	}
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, fmt.Errorf("%w: edit request must not be empty", agendaerrors.ErrInvalidArgument)
	}
	if t.Status != constants.TaskStatusPending {
		return nil, fmt.Errorf("%w: task %d is %s, only pending tasks can be edited",
			agendaerrors.ErrInvalidState, t.ID, t.Status)
	}

	system, err := prompts.Render(prompts.EditSystem, nil)
	if err != nil {
		return nil, &Error{Err: err}
	}
	user, err := prompts.Render(prompts.EditInterpret, prompts.EditData{
		Task:    *t,
		Request: request,
		Phases:  phaseNames(),
	})
	if err != nil {
		return nil, &Error{Err: err}
	}

	raw, err := i.client.Complete(ctx, &domain.PromptSpec{
		Purpose:     "edit",
		System:      system,
		User:        user,
		Temperature: i.cfg.Temperature,
		MaxTokens:   i.cfg.MaxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, &Error{Err: err}
	}

	diff, summary, err := parseProposal(raw)
	if err != nil {
		i.logger.Warn().Err(err).Int("task_id", t.ID).Msg("edit proposal rejected")
		return nil, err
	}
	if summary == "" {
		summary = "Change " + strings.Join(diff.Fields(), ", ") + "."
	}

	i.logger.Debug().
		Int("task_id", t.ID).
		Strs("fields", diff.Fields()).
		Msg("edit proposal ready")

	return &domain.EditProposal{
		TaskID:  t.ID,
		Request: request,
		Diff:    diff,
		Summary: summary,
	}, nil
}

// Apply merges a confirmed proposal into t. It fails with
// errors.ErrInvalidState when t is no longer pending, leaving t unchanged.
func (i *Interpreter) Apply(t *domain.Task, proposal *domain.EditProposal) error {
	if t == nil || proposal == nil {
		return fmt.Errorf("%w: task and proposal are required", agendaerrors.ErrInvalidArgument)
	}
	if proposal.TaskID != t.ID {
		return fmt.Errorf("%w: proposal targets task %d, not task %d",
			agendaerrors.ErrInvalidArgument, proposal.TaskID, t.ID)
	}
	if err := task.ApplyEdit(t, proposal.Diff); err != nil {
		return err
	}

	i.logger.Info().
		Int("task_id", t.ID).
		Strs("fields", proposal.Diff.Fields()).
		Str("summary", proposal.Summary).
		Msg("edit applied")
	return nil
}

func phaseNames() []string {
	phases := constants.AllPhases()
	names := make([]string, 0, len(phases))
	for _, phase := range phases {
		names = append(names, string(phase))
	}
	return names
}
