// Package task provides task lifecycle management for agenda.
//
// This file implements the Engine, which executes the pending tasks of a store
// one at a time, in id order.
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/agenda/internal/clock"
	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

// Executor performs the execution step for a single task.
// Any returned error is treated as a collaborator failure for that task.
type Executor interface {
	Execute(ctx context.Context, task *domain.Task, tools domain.ToolContext) (*domain.Outcome, error)
}

// Sink receives one record per executed task. Sink failures are logged and
// never interrupt a run.
type Sink interface {
	Record(ctx context.Context, rec domain.ExecutionRecord) error
}

// NoopSink discards records.
type NoopSink struct{}

// Record implements Sink.
func (NoopSink) Record(context.Context, domain.ExecutionRecord) error { return nil }

// EngineConfig holds configuration for the Engine.
type EngineConfig struct {
	// TaskTimeout bounds the execution step of one task. Zero disables the bound.
	TaskTimeout time.Duration
}

// DefaultEngineConfig returns sensible defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TaskTimeout: constants.DefaultTaskTimeout,
	}
}

// RunSummary describes what a single Run did.
type RunSummary struct {
	RunID     string        `json:"run_id"`
	Executed  int           `json:"executed"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Canceled  bool          `json:"canceled"`
	Duration  time.Duration `json:"duration"`

	// Aborted holds one ErrExecutionAborted per task cut short by a
	// collaborator failure.
	Aborted []error `json:"-"`
}

// Engine runs the pending tasks of a store through an Executor.
type Engine struct {
	executor Executor
	config   EngineConfig
	logger   zerolog.Logger
	sink     Sink
	metrics  Metrics
	clock    clock.Clock
	newRunID func() string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSink sets where execution records are sent.
func WithSink(sink Sink) EngineOption {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithMetrics sets the run observer.
func WithMetrics(m Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock sets the clock used to time tasks.
func WithClock(c clock.Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// NewEngine creates a new engine. Without options, records are discarded and
// metrics are not collected.
func NewEngine(executor Executor, cfg EngineConfig, logger zerolog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		executor: executor,
		config:   cfg,
		logger:   logger,
		sink:     NoopSink{},
		metrics:  NoopMetrics{},
		clock:    clock.RealClock{},
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes every task that is pending when the run starts, lowest id
// first. Each task goes Pending → InProgress → Success or Failed before the
// next one begins.
//
// A failing executor fails only its own task: the task is marked Failed with
// a narrative, an ErrExecutionAborted is added to the summary, and the run
// moves on. Cancellation of ctx is honored between tasks only; an in-flight
// execution step is allowed to finish. When canceled, Run returns the partial
// summary together with ctx.Err().
//
// Calling Run on a store with no pending tasks is a no-op.
func (e *Engine) Run(ctx context.Context, store *Store, tools domain.ToolContext) (*RunSummary, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is nil", agendaerrors.ErrInvalidArgument)
	}
	if store.InProgressCount() > 0 {
		return nil, fmt.Errorf("%w: a task is already in progress", agendaerrors.ErrInvalidState)
	}

	start := e.clock.Now()
	summary := &RunSummary{RunID: e.newRunID()}
	pending := store.PendingIDs()
	log := e.logger.With().Str("run_id", summary.RunID).Logger()

	if len(pending) == 0 {
		log.Debug().Msg("no pending tasks to run")
		return summary, nil
	}

	log.Info().Int("pending", len(pending)).Msg("starting run")
	e.metrics.RunStarted(summary.RunID, len(pending))
	defer func() {
		summary.Duration = e.clock.Now().Sub(start)
		e.metrics.RunCompleted(summary.RunID, summary.Duration)
	}()

	for _, id := range pending {
		if err := ctx.Err(); err != nil {
			summary.Canceled = true
			log.Warn().Err(err).Int("remaining", len(pending)-summary.Executed).Msg("run canceled between tasks")
			return summary, err
		}

		t, err := store.Get(id)
		if err != nil || t.Status != constants.TaskStatusPending {
			continue
		}

		e.runTask(ctx, store, t, tools, summary, log)
	}

	log.Info().
		Int("executed", summary.Executed).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("aborted", len(summary.Aborted)).
		Msg("run finished")
	return summary, nil
}

// runTask executes a single task. The task's state changes and the execution
// step use a context detached from ctx so that cancellation cannot strand a
// task in progress.
func (e *Engine) runTask(ctx context.Context, store *Store, t *domain.Task, tools domain.ToolContext, summary *RunSummary, log zerolog.Logger) {
	taskCtx := context.WithoutCancel(ctx)
	taskLog := log.With().Int("task_id", t.ID).Str("phase", t.Phase.String()).Logger()
	started := e.clock.Now()

	if _, err := store.Begin(taskCtx, t.ID); err != nil {
		taskLog.Error().Err(err).Msg("could not start task")
		return
	}
	summary.Executed++
	e.metrics.TaskStarted(t.ID, t.Phase)
	taskLog.Info().Str("title", t.Title).Msg("executing task")

	outcome, aborted := e.execute(taskCtx, t, tools, taskLog, summary)

	if _, err := store.Complete(taskCtx, t.ID, outcome); err != nil {
		taskLog.Error().Err(err).Msg("could not record task outcome")
		return
	}

	duration := e.clock.Now().Sub(started)
	switch t.Status {
	case constants.TaskStatusSuccess:
		summary.Succeeded++
	default:
		summary.Failed++
	}
	e.metrics.TaskCompleted(t.ID, duration, t.Status)
	taskLog.Info().
		Str("status", t.Status.String()).
		Dur("duration_ms", duration).
		Msg("task finished")

	rec := domain.ExecutionRecord{
		RunID:     summary.RunID,
		TaskID:    t.ID,
		Title:     t.Title,
		Phase:     t.Phase,
		Status:    t.Status,
		Narrative: t.Result,
		ToolsUsed: append([]string(nil), t.ToolsUsed...),
		Aborted:   aborted,
		StartedAt: started,
		Duration:  duration,
	}
	if err := e.sink.Record(taskCtx, rec); err != nil {
		taskLog.Warn().Err(err).Msg("failed to record execution, continuing")
	}
}

// execute calls the executor and converts a failure into a failed outcome.
func (e *Engine) execute(ctx context.Context, t *domain.Task, tools domain.ToolContext, log zerolog.Logger, summary *RunSummary) (domain.Outcome, bool) {
	callCtx := ctx
	if e.config.TaskTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.config.TaskTimeout)
		defer cancel()
	}

	outcome, err := e.executor.Execute(callCtx, t.Clone(), tools)
	if err == nil && outcome == nil {
		err = fmt.Errorf("%w: executor returned no outcome", agendaerrors.ErrCollaborator)
	}
	if err != nil {
		abortErr := fmt.Errorf("%w: task %d: %w", agendaerrors.ErrExecutionAborted, t.ID, err)
		summary.Aborted = append(summary.Aborted, abortErr)
		log.Warn().Err(err).Msg("execution aborted, marking task failed")
		return domain.Outcome{
			Success:   false,
			Narrative: fmt.Sprintf("Execution aborted: %v", err),
		}, true
	}
	return *outcome, false
}
