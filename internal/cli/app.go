package cli

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/mrz1836/agenda/internal/config"
	"github.com/mrz1836/agenda/internal/domain"
	"github.com/mrz1836/agenda/internal/edit"
	"github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/executor"
	"github.com/mrz1836/agenda/internal/journal"
	"github.com/mrz1836/agenda/internal/llm"
	"github.com/mrz1836/agenda/internal/planner"
	"github.com/mrz1836/agenda/internal/session"
	"github.com/mrz1836/agenda/internal/task"
	"github.com/mrz1836/agenda/internal/tools"
	"github.com/mrz1836/agenda/internal/tui"
)

// commandDeps are the seams commands are built on. Tests replace them to run
// commands against a scripted collaborator.
type commandDeps struct {
	loadConfig  func(ctx context.Context) (*config.Config, error)
	newClient   func(cfg *config.LLMConfig, logger zerolog.Logger) (llm.Client, error)
	initLogger  func(verbose, quiet bool) zerolog.Logger
	interactive func() bool
}

func defaultDeps() *commandDeps {
	return &commandDeps{
		loadConfig:  config.Load,
		newClient:   newOpenAIClient,
		initLogger:  InitLogger,
		interactive: tui.IsInteractive,
	}
}

func newOpenAIClient(cfg *config.LLMConfig, logger zerolog.Logger) (llm.Client, error) {
	key, err := llm.APIKeyFromEnv(cfg)
	if err != nil {
		return nil, err
	}
	return llm.NewOpenAIClient(cfg, key, logger)
}

// app holds the components one command invocation works with.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	planner  *planner.Planner
	editor   *edit.Interpreter
	engine   *task.Engine
	service  *session.Service
	registry *session.Registry
	journal  *journal.SQLiteJournal
	tools    domain.ToolContext

	mu     sync.Mutex
	active *task.Store
}

// newApp wires the collaborator, planner, interpreter, engine and journal.
// Progress lines for runs are written to progress.
func newApp(ctx context.Context, deps *commandDeps, progress io.Writer) (*app, error) {
	cfg, err := deps.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	logger := GetLogger()

	toolCtx, err := tools.Context(cfg.Tools.Enabled)
	if err != nil {
		return nil, err
	}

	client, err := deps.newClient(&cfg.LLM, logger)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		planner:  planner.New(client, planner.ConfigFrom(cfg), logger),
		editor:   edit.New(client, edit.ConfigFrom(cfg), logger),
		registry: session.NewRegistry(),
		tools:    toolCtx,
	}

	sinks := journal.MultiSink{journal.NewLoggerSink(logger)}
	if cfg.Journal.Enabled {
		path, err := cfg.Journal.JournalPath()
		if err != nil {
			return nil, err
		}
		j, err := journal.Open(path)
		if err != nil {
			// History is optional; the run goes on without it.
			logger.Warn().Err(err).Str("path", path).Msg("execution journal unavailable")
		} else {
			a.journal = j
			sinks = append(sinks, j)
		}
	}

	metrics := tui.NewRunProgress(progress, a.taskTitle, isTerminal(progress))
	a.engine = task.NewEngine(
		executor.New(client, executor.ConfigFrom(cfg), logger),
		task.EngineConfig{TaskTimeout: cfg.Execution.TaskTimeout},
		logger,
		task.WithSink(sinks),
		task.WithMetrics(metrics),
	)
	a.service = session.NewService(a.planner, a.editor, a, toolCtx, logger)
	return a, nil
}

// Run implements session.Runner. It points progress output at store before
// handing it to the engine.
func (a *app) Run(ctx context.Context, store *task.Store, toolCtx domain.ToolContext) (*task.RunSummary, error) {
	a.mu.Lock()
	a.active = store
	a.mu.Unlock()
	return a.engine.Run(ctx, store, toolCtx)
}

func (a *app) taskTitle(id int) string {
	a.mu.Lock()
	store := a.active
	a.mu.Unlock()
	if store == nil {
		return ""
	}
	t, err := store.Get(id)
	if err != nil {
		return ""
	}
	return t.Title
}

func (a *app) Close() error {
	if a.journal == nil {
		return nil
	}
	return a.journal.Close()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// invalidInput marks err as a usage error (exit code 2).
func invalidInput(err error) error {
	return errors.NewExitCode2Error(err)
}
