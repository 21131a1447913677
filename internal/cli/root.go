// Package cli provides the command-line interface for agenda.
package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the logger set up by the root command. Before the root
// command's PersistentPreRunE has run it returns a logger that discards
// everything.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

func newRootCmd(flags *GlobalFlags, info BuildInfo, deps *commandDeps) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Turn a goal into a plan of tasks and run it",
		Long: `agenda turns a high-level goal into an ordered plan of tasks across the
planning, development, testing and deployment phases, lets you review and
edit the plan, then executes each task with a language model and records
the outcome.

Commands:
  start     interactive flow: goal, plan review, execution
  plan      generate a plan and print or export it
  execute   run a plan exported with 'plan --out'
  history   show recorded task executions
  config    inspect configuration`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			flags.Output = v.GetString("output")
			flags.Verbose = v.GetBool("verbose")
			flags.Quiet = v.GetBool("quiet")

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			globalLoggerMu.Lock()
			globalLogger = deps.initLogger(flags.Verbose, flags.Quiet)
			globalLoggerMu.Unlock()
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	cmd.AddCommand(
		newStartCmd(flags, deps),
		newPlanCmd(flags, deps),
		newExecuteCmd(flags, deps),
		newHistoryCmd(flags, deps),
		newConfigCmd(flags, deps),
	)

	return cmd
}

func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command. Errors are printed to stderr with a
// suggested next step and returned so main can pick the exit code.
func Execute(ctx context.Context, info BuildInfo) error {
	defer CloseLogFile()

	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info, defaultDeps())
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		reportError(cmd.ErrOrStderr(), flags.Output, err)
	}
	return err
}

func reportError(w io.Writer, format string, err error) {
	if !IsValidOutputFormat(format) {
		format = OutputText
	}
	tui.NewOutput(w, format).Error(tui.FromError(err))
}
