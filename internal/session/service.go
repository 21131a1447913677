package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/task"
)

// Planner generates plans and clarifying questions.
type Planner interface {
	Generate(ctx context.Context, goal string, skill constants.SkillLevel, clarifications []domain.Clarification) (*task.Store, error)
	Analyze(ctx context.Context, goal string) (*domain.GoalAnalysis, error)
}

// EditInterpreter turns edit requests into proposals and applies them.
type EditInterpreter interface {
	Interpret(ctx context.Context, t *domain.Task, request string) (*domain.EditProposal, error)
	Apply(t *domain.Task, proposal *domain.EditProposal) error
}

// Runner executes the pending tasks of a store.
type Runner interface {
	Run(ctx context.Context, store *task.Store, tools domain.ToolContext) (*task.RunSummary, error)
}

// Service drives a session through analyze, plan, edit, approve and run.
// The run mode is enforced here and never reaches the engine.
type Service struct {
	planner Planner
	editor  EditInterpreter
	runner  Runner
	tools   domain.ToolContext
	logger  zerolog.Logger
}

// NewService creates a Service.
func NewService(planner Planner, editor EditInterpreter, runner Runner, tools domain.ToolContext, logger zerolog.Logger) *Service {
	return &Service{
		planner: planner,
		editor:  editor,
		runner:  runner,
		tools:   tools,
		logger:  logger.With().Str("component", "session").Logger(),
	}
}

func (svc *Service) log(s *Session) *zerolog.Logger {
	l := svc.logger.With().Str("session_id", s.ID).Logger()
	return &l
}

// Analyze asks for clarifying questions about the session goal. An analysis
// failure is logged and treated as "no questions needed".
func (svc *Service) Analyze(ctx context.Context, s *Session) (*domain.GoalAnalysis, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	analysis, err := svc.planner.Analyze(ctx, s.Goal)
	if err != nil {
		if !errors.Is(err, agendaerrors.ErrAnalysisFailed) {
			return nil, err
		}
		svc.log(s).Warn().Err(err).Msg("goal analysis failed, continuing without questions")
		analysis = &domain.GoalAnalysis{}
	}

	s.mu.Lock()
	s.analysis = analysis
	s.mu.Unlock()
	return analysis, nil
}

// Answer records the answer to a clarifying question. Blank answers are
// kept so the planner knows the question was skipped.
func (svc *Service) Answer(s *Session, question, answer string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("%w: question must not be empty", agendaerrors.ErrInvalidArgument)
	}
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	s.clarifications = append(s.clarifications, domain.Clarification{
		Question: question,
		Answer:   strings.TrimSpace(answer),
	})
	s.mu.Unlock()
	return nil
}

// Generate plans the session goal and replaces the current plan. On failure
// the previous plan, if any, is kept. A new plan always needs approval again.
func (svc *Service) Generate(ctx context.Context, s *Session) (*task.Store, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	store, err := svc.planner.Generate(ctx, s.Goal, s.Skill, s.Clarifications())
	if err != nil {
		svc.log(s).Error().Err(err).Msg("planning failed, keeping previous plan")
		return nil, err
	}

	s.mu.Lock()
	regenerated := s.store != nil
	s.store = store
	s.approved = false
	s.lastRun = nil
	s.mu.Unlock()

	svc.log(s).Info().
		Int("tasks", store.Len()).
		Bool("regenerated", regenerated).
		Msg("plan ready")
	return store, nil
}

// ProposeEdit interprets request against the task with the given id.
// Nothing changes until ApplyEdit is called with the proposal.
func (svc *Service) ProposeEdit(ctx context.Context, s *Session, taskID int, request string) (*domain.EditProposal, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	store, err := s.currentStore()
	if err != nil {
		return nil, err
	}
	t, err := store.Get(taskID)
	if err != nil {
		return nil, err
	}
	return svc.editor.Interpret(ctx, t.Clone(), request)
}

// ApplyEdit applies a confirmed proposal. An approved plan must be approved
// again after an edit.
func (svc *Service) ApplyEdit(s *Session, proposal *domain.EditProposal) error {
	if proposal == nil {
		return fmt.Errorf("%w: proposal is nil", agendaerrors.ErrInvalidArgument)
	}
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	store, err := s.currentStore()
	if err != nil {
		return err
	}
	t, err := store.Get(proposal.TaskID)
	if err != nil {
		return err
	}
	if err := svc.editor.Apply(t, proposal); err != nil {
		return err
	}

	s.mu.Lock()
	s.approved = false
	s.mu.Unlock()
	return nil
}

// Approve marks the current plan ready to run.
func (svc *Service) Approve(s *Session) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	if _, err := s.currentStore(); err != nil {
		return err
	}
	s.mu.Lock()
	s.approved = true
	s.mu.Unlock()
	svc.log(s).Info().Msg("plan approved")
	return nil
}

// Execute runs every pending task of the plan. In confirm mode the plan must
// have been approved first.
func (svc *Service) Execute(ctx context.Context, s *Session) (*task.RunSummary, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	store, err := s.currentStore()
	if err != nil {
		return nil, err
	}
	if s.Mode == constants.RunModeConfirm && !s.Approved() {
		return nil, agendaerrors.ErrApprovalRequired
	}

	summary, err := svc.runner.Run(ctx, store, svc.tools)

	s.mu.Lock()
	s.lastRun = summary
	s.mu.Unlock()

	if err != nil {
		svc.log(s).Warn().Err(err).Msg("run stopped early")
		return summary, err
	}
	return summary, nil
}
