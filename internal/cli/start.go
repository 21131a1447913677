package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/agenda/internal/constants"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/session"
	"github.com/mrz1836/agenda/internal/signal"
	"github.com/mrz1836/agenda/internal/tui"
)

type startOptions struct {
	skill string
	mode  string
	yes   bool
}

func newStartCmd(flags *GlobalFlags, deps *commandDeps) *cobra.Command {
	opts := &startOptions{}

	cmd := &cobra.Command{
		Use:   "start [goal]",
		Short: "Plan a goal, review the plan and run it",
		Long: `Start an interactive session: pick your experience level, describe the
goal, answer a few clarifying questions, then review the generated plan.

In confirm mode you can approve the plan, edit a task in plain language,
regenerate the plan or cancel. In auto mode the plan runs right away.
Press Ctrl+C during a run to stop after the current task.

Examples:
  agenda start
  agenda start "Build a REST API for a todo app" --skill beginner
  agenda start "Set up CI for my Go project" --mode auto
  agenda start "Write a changelog" --yes -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd, flags, deps, opts, strings.TrimSpace(strings.Join(args, " ")))
		},
	}

	cmd.Flags().StringVar(&opts.skill, "skill", "", "experience level (beginner|intermediate|expert)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "run mode (confirm|auto)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "skip questions and approve the plan without prompting")
	return cmd
}

func runStart(cmd *cobra.Command, flags *GlobalFlags, deps *commandDeps, opts *startOptions, goal string) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	out := newOutput(cmd, flags)
	interactive := deps.interactive() && !opts.yes && flags.Output == OutputText

	a, err := newApp(ctx, deps, progressWriter(cmd, flags))
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	skill, err := resolveSkill(opts.skill, a.cfg.Planner.DefaultSkill, interactive)
	if err != nil {
		return err
	}
	if goal == "" {
		if !interactive {
			return invalidInput(fmt.Errorf("%w: a goal is required", agendaerrors.ErrInvalidArgument))
		}
		if goal, err = tui.Input("What do you want to accomplish?", "", tui.NonEmpty); err != nil {
			return err
		}
	}
	mode, err := resolveMode(opts.mode, a.cfg.Execution.DefaultMode, interactive)
	if err != nil {
		return err
	}

	s := a.registry.Create(goal, skill, mode)
	a.logger.Info().Str("session_id", s.ID).Str("skill", skill.String()).Str("mode", mode.String()).Msg("session started")

	if interactive && a.cfg.Planner.AskClarifications {
		if err := askClarifications(ctx, a.service, s); err != nil {
			return err
		}
	}

	if flags.Output == OutputText {
		out.Info("Generating plan...")
	}
	store, err := a.service.Generate(ctx, s)
	if err != nil {
		return err
	}
	if err := printPlan(w, out, flags, goal, store); err != nil {
		return err
	}

	if mode == constants.RunModeConfirm {
		switch {
		case opts.yes:
			if err := a.service.Approve(s); err != nil {
				return err
			}
		case interactive:
			approved, err := reviewPlan(ctx, w, out, flags, a.service, s)
			if err != nil {
				return err
			}
			if !approved {
				out.Info("Plan discarded. Nothing was run.")
				return nil
			}
		default:
			return agendaerrors.ErrApprovalRequired
		}
	}

	return executeSession(ctx, w, out, flags, a.service, s)
}

func resolveSkill(flag, fallback string, interactive bool) (constants.SkillLevel, error) {
	if flag != "" {
		skill, ok := constants.ParseSkillLevel(flag)
		if !ok {
			return "", invalidInput(fmt.Errorf("%w: unknown skill %q", agendaerrors.ErrInvalidArgument, flag))
		}
		return skill, nil
	}
	if interactive {
		return tui.SelectSkill()
	}
	skill, ok := constants.ParseSkillLevel(fallback)
	if !ok {
		return constants.SkillIntermediate, nil
	}
	return skill, nil
}

func resolveMode(flag, fallback string, interactive bool) (constants.RunMode, error) {
	if flag != "" {
		mode, ok := constants.ParseRunMode(flag)
		if !ok {
			return "", invalidInput(fmt.Errorf("%w: unknown mode %q", agendaerrors.ErrInvalidArgument, flag))
		}
		return mode, nil
	}
	if interactive {
		return tui.SelectMode()
	}
	mode, ok := constants.ParseRunMode(fallback)
	if !ok {
		return constants.RunModeConfirm, nil
	}
	return mode, nil
}

func askClarifications(ctx context.Context, svc *session.Service, s *session.Session) error {
	analysis, err := svc.Analyze(ctx, s)
	if err != nil {
		return err
	}
	if !analysis.NeedsClarification {
		return nil
	}
	for _, q := range analysis.Questions {
		prompt := q.Question
		if q.Why != "" {
			prompt += " (" + q.Why + ")"
		}
		answer, err := tui.Input(prompt, "", nil)
		if err != nil {
			return err
		}
		if err := svc.Answer(s, q.Question, answer); err != nil {
			return err
		}
	}
	return nil
}

// reviewPlan runs the approve/edit/regenerate/cancel loop. It returns true
// once the plan is approved and false when the user cancels.
func reviewPlan(ctx context.Context, w io.Writer, out tui.Output, flags *GlobalFlags, svc *session.Service, s *session.Session) (bool, error) {
	for {
		action, err := tui.SelectPlanAction()
		if err != nil {
			return false, err
		}

		switch action {
		case tui.PlanApprove:
			return true, svc.Approve(s)

		case tui.PlanCancel:
			return false, nil

		case tui.PlanRegenerate:
			out.Info("Regenerating plan...")
			if _, err := svc.Generate(ctx, s); err != nil {
				out.Error(tui.FromError(err))
				out.Info("Keeping the previous plan.")
				continue
			}

		case tui.PlanEdit:
			if err := editTask(ctx, out, svc, s); err != nil && !errors.Is(err, tui.ErrMenuCanceled) {
				return false, err
			}
		}

		if err := printPlan(w, out, flags, s.Goal, s.Store()); err != nil {
			return false, err
		}
	}
}

// editTask asks for a task and a change request, shows the proposal and
// applies it once confirmed. A declined or misunderstood request can be
// rephrased any number of times.
func editTask(ctx context.Context, out tui.Output, svc *session.Service, s *session.Session) error {
	options := tui.PendingTaskOptions(s.Store().Tasks())
	if len(options) == 0 {
		out.Warning("There are no pending tasks to edit.")
		return nil
	}
	id, err := tui.SelectPendingTask(s.Store().Tasks())
	if err != nil {
		return err
	}

	for {
		request, err := tui.TextArea("What should change?", "e.g. move this to testing and mention integration tests")
		if err != nil {
			return err
		}

		proposal, err := svc.ProposeEdit(ctx, s, id, request)
		switch {
		case errors.Is(err, agendaerrors.ErrInterpretationFailed), errors.Is(err, agendaerrors.ErrInvalidArgument):
			out.Error(tui.FromError(err))
		case err != nil:
			return err
		default:
			ok, err := tui.ConfirmEdit(proposal)
			if err != nil {
				return err
			}
			if ok {
				if err := svc.ApplyEdit(s, proposal); err != nil {
					return err
				}
				out.Success(fmt.Sprintf("Task #%d updated.", id))
				return nil
			}
		}

		again, err := tui.Confirm("Try a different request?", true)
		if err != nil || !again {
			return err
		}
	}
}

// executeSession runs the plan. Ctrl+C stops the run after the current task.
func executeSession(ctx context.Context, w io.Writer, out tui.Output, flags *GlobalFlags, svc *session.Service, s *session.Session) error {
	h := signal.NewHandler(ctx, signal.WithNotice(stopNotice(out)))
	defer h.Stop()

	summary, err := svc.Execute(h.Context(), s)
	if err != nil && !isCanceled(err) {
		return err
	}
	return printRun(w, out, flags, s.Goal, s.Store(), summary)
}
