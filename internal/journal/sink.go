// Package journal provides the sinks that receive one record per executed
// task: a structured log sink, a SQLite-backed history and a fan-out sink.
package journal

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mrz1836/agenda/internal/domain"
	"github.com/mrz1836/agenda/internal/task"
)

// LoggerSink writes execution records to a zerolog logger.
type LoggerSink struct {
	logger zerolog.Logger
}

var _ task.Sink = (*LoggerSink)(nil)

// NewLoggerSink creates a sink that logs every record at info level.
func NewLoggerSink(logger zerolog.Logger) *LoggerSink {
	return &LoggerSink{logger: logger.With().Str("component", "journal").Logger()}
}

// Record implements task.Sink.
func (s *LoggerSink) Record(_ context.Context, rec domain.ExecutionRecord) error {
	s.logger.Info().
		Str("run_id", rec.RunID).
		Int("task_id", rec.TaskID).
		Str("title", rec.Title).
		Str("phase", rec.Phase.String()).
		Str("status", rec.Status.String()).
		Str("narrative", rec.Narrative).
		Bool("aborted", rec.Aborted).
		Strs("tools_used", rec.ToolsUsed).
		Dur("duration_ms", rec.Duration).
		Msg("task recorded")
	return nil
}

// MultiSink forwards each record to every sink, in order. All sinks see the
// record even when an earlier one fails; the failures are joined.
type MultiSink []task.Sink

// Record implements task.Sink.
func (m MultiSink) Record(ctx context.Context, rec domain.ExecutionRecord) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
