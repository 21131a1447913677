package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/agenda/internal/task"
	"github.com/mrz1836/agenda/internal/tui"
)

// planView is the JSON shape of a plan.
type planView struct {
	Goal    string       `json:"goal"`
	Summary task.Summary `json:"summary"`
	Tasks   any          `json:"tasks"`
}

// runView is the JSON shape of a finished run.
type runView struct {
	Run     *task.RunSummary `json:"run"`
	Aborted []string         `json:"aborted,omitempty"`
	Plan    planView         `json:"plan"`
}

func newOutput(cmd *cobra.Command, flags *GlobalFlags) tui.Output {
	return tui.NewOutput(cmd.OutOrStdout(), flags.Output)
}

// progressWriter is where run progress lines go. JSON and quiet output get
// none so stdout stays machine readable.
func progressWriter(cmd *cobra.Command, flags *GlobalFlags) io.Writer {
	if flags.Output == OutputJSON || flags.Quiet {
		return io.Discard
	}
	return cmd.OutOrStdout()
}

// styledOutput reports whether w gets colors and markdown rendering.
func styledOutput(w io.Writer, flags *GlobalFlags) bool {
	return flags.Output == OutputText && isTerminal(w) && tui.HasColorSupport()
}

func printPlan(w io.Writer, out tui.Output, flags *GlobalFlags, goal string, store *task.Store) error {
	if flags.Output == OutputJSON {
		return out.JSON(planView{Goal: goal, Summary: store.Summary(), Tasks: store.Snapshot()})
	}
	_, _ = fmt.Fprintf(w, "\nPlan for: %s\n\n", goal)
	tui.RenderTaskList(w, store.Tasks(), tui.TaskListOptions{ShowDescription: true})
	_, _ = fmt.Fprintln(w)
	return nil
}

func printRun(w io.Writer, out tui.Output, flags *GlobalFlags, goal string, store *task.Store, summary *task.RunSummary) error {
	if summary == nil {
		summary = &task.RunSummary{}
	}
	if flags.Output == OutputJSON {
		view := runView{Run: summary, Plan: planView{Goal: goal, Summary: store.Summary(), Tasks: store.Snapshot()}}
		for _, err := range summary.Aborted {
			view.Aborted = append(view.Aborted, err.Error())
		}
		return out.JSON(view)
	}

	styled := styledOutput(w, flags)
	_, _ = fmt.Fprintln(w)
	for _, t := range store.Tasks() {
		if t.Result == "" {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s #%d %s\n", tui.TaskStatusIcon(t.Status), t.ID, t.Title)
		_, _ = fmt.Fprintln(w, tui.RenderMarkdown(t.Result, styled))
		_, _ = fmt.Fprintln(w)
	}
	tui.RenderTaskList(w, store.Tasks(), tui.TaskListOptions{})
	_, _ = fmt.Fprintln(w)

	sum := store.Summary()
	line := tui.SummaryLine(sum.Total, sum.Pending, sum.Success, sum.Failed)
	switch {
	case summary.Canceled:
		out.Warning("Run canceled. " + line)
	case sum.Failed > 0:
		out.Warning(line)
	default:
		out.Success(line)
	}
	for _, err := range summary.Aborted {
		out.Warning(err.Error())
	}
	return nil
}

func stopNotice(out tui.Output) func() {
	return func() {
		out.Warning("Stopping after the current task. Press Ctrl+C again to quit now.")
	}
}

// isCanceled reports whether err is a context cancellation from Ctrl+C.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
