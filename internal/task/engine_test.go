package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/agenda/internal/clock"
	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

// mockExecutor returns scripted outcomes per task id and records calls.
type mockExecutor struct {
	mu       sync.Mutex
	outcomes map[int]*domain.Outcome
	errs     map[int]error
	calls    []int
	tools    []domain.ToolContext
	// during runs inside Execute, before returning.
	during func(ctx context.Context, task *domain.Task)
}

func newMockExecutor() *mockExecutor {
	return &mockExecutor{
		outcomes: make(map[int]*domain.Outcome),
		errs:     make(map[int]error),
	}
}

func (m *mockExecutor) Execute(ctx context.Context, task *domain.Task, tools domain.ToolContext) (*domain.Outcome, error) {
	m.mu.Lock()
	m.calls = append(m.calls, task.ID)
	m.tools = append(m.tools, tools)
	during := m.during
	m.mu.Unlock()

	if during != nil {
		during(ctx, task)
	}
	if err := m.errs[task.ID]; err != nil {
		return nil, err
	}
	if o, ok := m.outcomes[task.ID]; ok {
		return o, nil
	}
	return &domain.Outcome{Success: true, Narrative: "done " + task.Title}, nil
}

// recordingSink stores every record and optionally fails.
type recordingSink struct {
	mu      sync.Mutex
	records []domain.ExecutionRecord
	err     error
}

func (s *recordingSink) Record(_ context.Context, rec domain.ExecutionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return s.err
}

// recordingMetrics captures observer callbacks.
type recordingMetrics struct {
	mu        sync.Mutex
	pending   int
	started   []int
	completed map[int]constants.TaskStatus
	runsDone  int
}

func (m *recordingMetrics) RunStarted(_ string, pending int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = pending
}

func (m *recordingMetrics) TaskStarted(id int, _ constants.Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, id)
}

func (m *recordingMetrics) TaskCompleted(id int, _ time.Duration, status constants.TaskStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.completed == nil {
		m.completed = make(map[int]constants.TaskStatus)
	}
	m.completed[id] = status
}

func (m *recordingMetrics) RunCompleted(string, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runsDone++
}

func newTestEngine(exec Executor, opts ...EngineOption) *Engine {
	return NewEngine(exec, DefaultEngineConfig(), zerolog.Nop(), opts...)
}

func TestEngine_RunsPendingTasksInIDOrder(t *testing.T) {
	store := newTestStore(t)
	exec := newMockExecutor()
	sink := &recordingSink{}
	metrics := &recordingMetrics{}

	tools := domain.ToolContext{Capabilities: []domain.Capability{{Name: "calculate"}}}
	exec.during = func(_ context.Context, task *domain.Task) {
		live, err := store.Get(task.ID)
		require.NoError(t, err)
		assert.Equal(t, constants.TaskStatusInProgress, live.Status)
		assert.Equal(t, 1, store.InProgressCount())
	}

	engine := newTestEngine(exec, WithSink(sink), WithMetrics(metrics))
	summary, err := engine.Run(context.Background(), store, tools)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4}, exec.calls)
	assert.Equal(t, tools, exec.tools[0])
	assert.Equal(t, 4, summary.Executed)
	assert.Equal(t, 4, summary.Succeeded)
	assert.Empty(t, summary.Aborted)
	assert.NotEmpty(t, summary.RunID)
	assert.True(t, store.AllTerminal())

	for _, task := range store.Tasks() {
		assert.Equal(t, constants.TaskStatusSuccess, task.Status)
		assert.Equal(t, "done "+task.Title, task.Result)
	}

	require.Len(t, sink.records, 4)
	assert.Equal(t, summary.RunID, sink.records[0].RunID)
	assert.Equal(t, 1, sink.records[0].TaskID)
	assert.False(t, sink.records[0].Aborted)

	assert.Equal(t, 4, metrics.pending)
	assert.Equal(t, []int{1, 2, 3, 4}, metrics.started)
	assert.Equal(t, 1, metrics.runsDone)
}

func TestEngine_SkipsNonPendingTasks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	_, err := store.Begin(ctx, 2)
	require.NoError(t, err)
	_, err = store.Complete(ctx, 2, domain.Outcome{Success: true, Narrative: "earlier run"})
	require.NoError(t, err)

	exec := newMockExecutor()
	summary, err := newTestEngine(exec).Run(ctx, store, domain.ToolContext{})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3, 4}, exec.calls)
	assert.Equal(t, 3, summary.Executed)
	done, err := store.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "earlier run", done.Result)
}

func TestEngine_ReportedFailureContinuesRun(t *testing.T) {
	store := newTestStore(t)
	exec := newMockExecutor()
	exec.outcomes[2] = &domain.Outcome{Success: false, Narrative: "tests would not compile"}

	summary, err := newTestEngine(exec).Run(context.Background(), store, domain.ToolContext{})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Empty(t, summary.Aborted)

	failed, err := store.Get(2)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusFailed, failed.Status)
	assert.Equal(t, "tests would not compile", failed.Result)
}

func TestEngine_CollaboratorErrorAbortsOnlyThatTask(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"authentication", agendaerrors.ErrCollaboratorAuth},
		{"rate limit", agendaerrors.ErrCollaboratorRateLimited},
		{"generic", errors.New("connection reset")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t)
			exec := newMockExecutor()
			exec.errs[3] = tc.err
			sink := &recordingSink{}

			summary, err := newTestEngine(exec, WithSink(sink)).Run(context.Background(), store, domain.ToolContext{})
			require.NoError(t, err)

			assert.Equal(t, []int{1, 2, 3, 4}, exec.calls)
			assert.Equal(t, 3, summary.Succeeded)
			assert.Equal(t, 1, summary.Failed)
			require.Len(t, summary.Aborted, 1)
			require.ErrorIs(t, summary.Aborted[0], agendaerrors.ErrExecutionAborted)
			require.ErrorIs(t, summary.Aborted[0], tc.err)

			aborted, err := store.Get(3)
			require.NoError(t, err)
			assert.Equal(t, constants.TaskStatusFailed, aborted.Status)
			assert.Contains(t, aborted.Result, "Execution aborted")
			assert.True(t, sink.records[2].Aborted)

			next, err := store.Get(4)
			require.NoError(t, err)
			assert.Equal(t, constants.TaskStatusSuccess, next.Status)
		})
	}
}

func TestEngine_NilOutcomeIsAborted(t *testing.T) {
	store := NewStore()
	_, err := store.Add(domain.NewTask{Title: "only", Phase: constants.PhasePlanning})
	require.NoError(t, err)

	summary, err := newTestEngine(nilOutcomeExecutor{}).Run(context.Background(), store, domain.ToolContext{})
	require.NoError(t, err)
	require.Len(t, summary.Aborted, 1)

	task, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusFailed, task.Status)
}

type nilOutcomeExecutor struct{}

func (nilOutcomeExecutor) Execute(context.Context, *domain.Task, domain.ToolContext) (*domain.Outcome, error) {
	return nil, nil //nolint:nilnil // exercising the engine's guard
}

func TestEngine_SinkFailureDoesNotAbortRun(t *testing.T) {
	store := newTestStore(t)
	exec := newMockExecutor()
	sink := &recordingSink{err: errors.New("disk full")}

	summary, err := newTestEngine(exec, WithSink(sink)).Run(context.Background(), store, domain.ToolContext{})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Succeeded)
	assert.Len(t, sink.records, 4)
}

func TestEngine_CancellationBetweenTasks(t *testing.T) {
	store := newTestStore(t)
	exec := newMockExecutor()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var callCtxErr error
	exec.during = func(callCtx context.Context, task *domain.Task) {
		if task.ID == 2 {
			cancel()
			callCtxErr = callCtx.Err()
		}
	}

	summary, err := newTestEngine(exec).Run(ctx, store, domain.ToolContext{})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.True(t, summary.Canceled)
	assert.NoError(t, callCtxErr, "in-flight step must not see the cancellation")

	assert.Equal(t, []int{1, 2}, exec.calls)
	assert.Equal(t, 2, summary.Executed)

	second, getErr := store.Get(2)
	require.NoError(t, getErr)
	assert.Equal(t, constants.TaskStatusSuccess, second.Status, "in-flight task finishes")

	assert.Equal(t, []int{3, 4}, store.PendingIDs())
	assert.Equal(t, 0, store.InProgressCount())
}

func TestEngine_CanceledBeforeStart(t *testing.T) {
	store := newTestStore(t)
	exec := newMockExecutor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := newTestEngine(exec).Run(ctx, store, domain.ToolContext{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Executed)
	assert.Empty(t, exec.calls)
	assert.Len(t, store.PendingIDs(), 4)
}

func TestEngine_NoPendingTasksIsNoop(t *testing.T) {
	exec := newMockExecutor()
	metrics := &recordingMetrics{}
	engine := newTestEngine(exec, WithMetrics(metrics))

	summary, err := engine.Run(context.Background(), NewStore(), domain.ToolContext{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Executed)
	assert.Empty(t, exec.calls)
	assert.Equal(t, 0, metrics.runsDone)

	store := newTestStore(t)
	_, err = engine.Run(context.Background(), store, domain.ToolContext{})
	require.NoError(t, err)
	before := store.Snapshot()

	summary, err = engine.Run(context.Background(), store, domain.ToolContext{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Executed)
	assert.Equal(t, before, store.Snapshot())
}

func TestEngine_TaskTimeoutAborts(t *testing.T) {
	store := NewStore()
	_, err := store.Add(domain.NewTask{Title: "slow", Phase: constants.PhaseDevelopment})
	require.NoError(t, err)

	exec := newMockExecutor()
	exec.during = func(ctx context.Context, _ *domain.Task) {
		<-ctx.Done()
		exec.errs[1] = ctx.Err()
	}

	engine := NewEngine(exec, EngineConfig{TaskTimeout: 10 * time.Millisecond}, zerolog.Nop())
	summary, err := engine.Run(context.Background(), store, domain.ToolContext{})
	require.NoError(t, err)
	require.Len(t, summary.Aborted, 1)
	require.ErrorIs(t, summary.Aborted[0], context.DeadlineExceeded)
}

func TestEngine_RejectsStoreWithTaskInProgress(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Begin(context.Background(), 1)
	require.NoError(t, err)

	_, err = newTestEngine(newMockExecutor()).Run(context.Background(), store, domain.ToolContext{})
	require.ErrorIs(t, err, agendaerrors.ErrInvalidState)
}

func TestEngine_NilStore(t *testing.T) {
	_, err := newTestEngine(newMockExecutor()).Run(context.Background(), nil, domain.ToolContext{})
	require.ErrorIs(t, err, agendaerrors.ErrInvalidArgument)
}

func TestEngine_RecordDurationUsesClock(t *testing.T) {
	store := NewStore()
	_, err := store.Add(domain.NewTask{Title: "timed", Phase: constants.PhaseTesting})
	require.NoError(t, err)

	sink := &recordingSink{}
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	engine := newTestEngine(newMockExecutor(), WithSink(sink), WithClock(clock.NewStepping(start, time.Second)))

	summary, err := engine.Run(context.Background(), store, domain.ToolContext{})
	require.NoError(t, err)
	require.Len(t, sink.records, 1)

	// Readings: run start, task start, task end, run end.
	assert.Equal(t, start.Add(time.Second), sink.records[0].StartedAt)
	assert.Equal(t, time.Second, sink.records[0].Duration)
	assert.Equal(t, 3*time.Second, summary.Duration)
}
