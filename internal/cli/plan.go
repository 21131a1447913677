package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/agenda/internal/constants"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/planfile"
)

type planOptions struct {
	skill string
	out   string
}

func newPlanCmd(flags *GlobalFlags, deps *commandDeps) *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan <goal>",
		Short: "Generate a plan without running it",
		Long: `Generate a plan for a goal and print it, or export it to a YAML file
that 'agenda execute' can run later.

Examples:
  agenda plan "Launch a personal blog"
  agenda plan "Migrate the app to Postgres" --skill expert --out plan.yaml
  agenda plan "Add a dark mode" -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, flags, deps, opts, strings.TrimSpace(strings.Join(args, " ")))
		},
	}

	cmd.Flags().StringVar(&opts.skill, "skill", "", "experience level (beginner|intermediate|expert)")
	cmd.Flags().StringVar(&opts.out, "out", "", "write the plan to this YAML file")
	return cmd
}

func runPlan(cmd *cobra.Command, flags *GlobalFlags, deps *commandDeps, opts *planOptions, goal string) error {
	ctx := cmd.Context()
	out := newOutput(cmd, flags)

	if goal == "" {
		return invalidInput(fmt.Errorf("%w: a goal is required", agendaerrors.ErrInvalidArgument))
	}

	a, err := newApp(ctx, deps, progressWriter(cmd, flags))
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	skill, err := resolveSkill(opts.skill, a.cfg.Planner.DefaultSkill, false)
	if err != nil {
		return err
	}

	s := a.registry.Create(goal, skill, constants.RunModeConfirm)
	store, err := a.service.Generate(ctx, s)
	if err != nil {
		return err
	}

	if opts.out != "" {
		if err := planfile.Save(opts.out, planfile.FromStore(goal, skill, store, time.Now())); err != nil {
			return err
		}
		if flags.Output == OutputText {
			out.Success(fmt.Sprintf("Plan with %d tasks written to %s", store.Len(), opts.out))
			return nil
		}
	}
	return printPlan(cmd.OutOrStdout(), out, flags, goal, store)
}
