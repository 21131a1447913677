package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/llm"
	"github.com/mrz1836/agenda/internal/prompts"
)

// Analyze asks whether goal is specific enough to plan and returns up to
// MaxQuestions clarifying questions. Failures wrap errors.ErrAnalysisFailed;
// callers usually continue without questions.
func (p *Planner) Analyze(ctx context.Context, goal string) (*domain.GoalAnalysis, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, fmt.Errorf("%w: goal must not be empty", agendaerrors.ErrInvalidArgument)
	}

	system, err := prompts.Render(prompts.AnalyzeSystem, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", agendaerrors.ErrAnalysisFailed, err)
	}
	user, err := prompts.Render(prompts.AnalyzeGoal, prompts.AnalyzeData{
		Goal:         goal,
		MaxQuestions: p.cfg.MaxQuestions,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", agendaerrors.ErrAnalysisFailed, err)
	}

	raw, err := p.client.Complete(ctx, &domain.PromptSpec{
		Purpose:     "analyze",
		System:      system,
		User:        user,
		Temperature: p.cfg.AnalyzeTemperature,
		MaxTokens:   p.cfg.MaxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", agendaerrors.ErrAnalysisFailed, err)
	}

	var analysis domain.GoalAnalysis
	if err := llm.DecodeJSON(raw, &analysis); err != nil {
		return nil, fmt.Errorf("%w: %w", agendaerrors.ErrAnalysisFailed, err)
	}

	questions := make([]domain.ClarifyingQuestion, 0, len(analysis.Questions))
	for _, q := range analysis.Questions {
		q.Question = strings.TrimSpace(q.Question)
		q.Why = strings.TrimSpace(q.Why)
		if q.Question == "" {
			continue
		}
		questions = append(questions, q)
		if len(questions) == p.cfg.MaxQuestions {
			break
		}
	}
	analysis.Questions = questions
	analysis.NeedsClarification = analysis.NeedsClarification && len(questions) > 0
	analysis.Analysis = strings.TrimSpace(analysis.Analysis)

	p.logger.Debug().
		Bool("needs_clarification", analysis.NeedsClarification).
		Int("questions", len(questions)).
		Msg("goal analyzed")

	return &analysis, nil
}
