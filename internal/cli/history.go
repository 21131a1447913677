package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/agenda/internal/domain"
	"github.com/mrz1836/agenda/internal/journal"
	"github.com/mrz1836/agenda/internal/tui"
)

type historyOptions struct {
	limit int
	run   string
}

func newHistoryCmd(flags *GlobalFlags, deps *commandDeps) *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded task executions",
		Long: `Show the most recent task executions from the journal, newest first,
or every execution of one run with --run.

Examples:
  agenda history
  agenda history --limit 50
  agenda history --run 3f2a9c1e-... -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, flags, deps, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", journal.DefaultListLimit, "number of records to show")
	cmd.Flags().StringVar(&opts.run, "run", "", "show only the records of this run id")
	return cmd
}

func runHistory(cmd *cobra.Command, flags *GlobalFlags, deps *commandDeps, opts *historyOptions) error {
	ctx := cmd.Context()
	out := newOutput(cmd, flags)

	cfg, err := deps.loadConfig(ctx)
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled {
		out.Info("The execution journal is disabled (journal.enabled: false).")
		return nil
	}
	path, err := cfg.Journal.JournalPath()
	if err != nil {
		return err
	}

	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	var records []domain.ExecutionRecord
	if opts.run != "" {
		records, err = j.ListRun(ctx, opts.run)
	} else {
		records, err = j.List(ctx, opts.limit)
	}
	if err != nil {
		return err
	}

	if flags.Output == OutputJSON {
		if records == nil {
			records = []domain.ExecutionRecord{}
		}
		return out.JSON(records)
	}
	if len(records) == 0 {
		out.Info("No executions recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, historyRow(rec))
	}
	out.Table([]string{"STARTED", "RUN", "TASK", "PHASE", "STATUS", "DURATION", "TITLE"}, rows)
	return nil
}

func historyRow(rec domain.ExecutionRecord) []string {
	status := tui.TaskStatusIcon(rec.Status) + " " + rec.Status.String()
	if rec.Aborted {
		status += " (aborted)"
	}
	return []string{
		rec.StartedAt.Local().Format(time.DateTime),
		shortID(rec.RunID),
		strconv.Itoa(rec.TaskID),
		rec.Phase.String(),
		status,
		rec.Duration.Round(time.Millisecond).String(),
		tui.Truncate(rec.Title, 50),
	}
}

// shortID keeps the first block of a uuid, which is enough to tell runs apart
// on screen.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
