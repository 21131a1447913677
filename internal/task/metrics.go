package task

import (
	"time"

	"github.com/mrz1836/agenda/internal/constants"
)

// Metrics observes engine runs. Implementations can feed monitoring systems
// or drive progress displays.
type Metrics interface {
	// RunStarted is called once per run with the number of pending tasks.
	RunStarted(runID string, pending int)

	// TaskStarted is called when a task moves to in progress.
	TaskStarted(taskID int, phase constants.Phase)

	// TaskCompleted is called when a task reaches a terminal status.
	TaskCompleted(taskID int, duration time.Duration, status constants.TaskStatus)

	// RunCompleted is called when the run returns, canceled or not.
	RunCompleted(runID string, duration time.Duration)
}

// NoopMetrics is a no-op implementation of Metrics for default behavior.
type NoopMetrics struct{}

// Ensure NoopMetrics implements Metrics interface.
var _ Metrics = (*NoopMetrics)(nil)

// RunStarted implements Metrics.
func (NoopMetrics) RunStarted(string, int) {}

// TaskStarted implements Metrics.
func (NoopMetrics) TaskStarted(int, constants.Phase) {}

// TaskCompleted implements Metrics.
func (NoopMetrics) TaskCompleted(int, time.Duration, constants.TaskStatus) {}

// RunCompleted implements Metrics.
func (NoopMetrics) RunCompleted(string, time.Duration) {}
