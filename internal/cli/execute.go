package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/planfile"
	"github.com/mrz1836/agenda/internal/signal"
)

type executeOptions struct {
	save bool
}

func newExecuteCmd(flags *GlobalFlags, deps *commandDeps) *cobra.Command {
	opts := &executeOptions{}

	cmd := &cobra.Command{
		Use:   "execute <plan.yaml>",
		Short: "Run the pending tasks of an exported plan",
		Long: `Run every pending task of a plan written by 'agenda plan --out'.
Tasks that already succeeded or failed are left alone. With --save the
outcomes are written back to the file, so an interrupted run can be resumed.

Examples:
  agenda execute plan.yaml
  agenda execute plan.yaml --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, flags, deps, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.save, "save", false, "write task outcomes back to the plan file")
	return cmd
}

func runExecute(cmd *cobra.Command, flags *GlobalFlags, deps *commandDeps, opts *executeOptions, path string) error {
	ctx := cmd.Context()
	out := newOutput(cmd, flags)

	release, err := planfile.Lock(path)
	if err != nil {
		return err
	}
	defer func() { _ = release() }()

	plan, store, err := planfile.Load(path)
	if err != nil {
		return invalidInput(err)
	}

	a, err := newApp(ctx, deps, progressWriter(cmd, flags))
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	h := signal.NewHandler(ctx, signal.WithNotice(stopNotice(out)))
	defer h.Stop()

	summary, runErr := a.Run(h.Context(), store, a.tools)
	if runErr != nil && !isCanceled(runErr) {
		return runErr
	}

	if opts.save {
		if err := planfile.Save(path, planfile.FromStore(plan.Goal, constants.SkillLevel(plan.Skill), store, time.Now())); err != nil {
			return err
		}
		if flags.Output == OutputText {
			out.Info(fmt.Sprintf("Outcomes saved to %s", path))
		}
	}
	return printRun(cmd.OutOrStdout(), out, flags, plan.Goal, store, summary)
}
