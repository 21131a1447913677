package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/task"
)

// DefaultListLimit is used by List when limit is not positive.
const DefaultListLimit = 20

// SQLiteJournal stores execution records in a SQLite database.
type SQLiteJournal struct {
	db *sql.DB
}

var _ task.Sink = (*SQLiteJournal)(nil)

// Open opens or creates the journal at path and runs migrations.
func Open(path string) (*SQLiteJournal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("%w: create journal directory: %w", agendaerrors.ErrJournal, err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", agendaerrors.ErrJournal, err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	j := &SQLiteJournal{db: db}
	if err := j.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate: %w", agendaerrors.ErrJournal, err)
	}
	return j, nil
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

func (j *SQLiteJournal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS executions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		task_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		phase TEXT NOT NULL,
		status TEXT NOT NULL,
		narrative TEXT,
		tools_used TEXT,
		aborted INTEGER NOT NULL DEFAULT 0,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_executions_run_id ON executions(run_id);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record implements task.Sink.
func (j *SQLiteJournal) Record(ctx context.Context, rec domain.ExecutionRecord) error {
	tools, err := json.Marshal(rec.ToolsUsed)
	if err != nil {
		return fmt.Errorf("%w: encode tools: %w", agendaerrors.ErrJournal, err)
	}

	aborted := 0
	if rec.Aborted {
		aborted = 1
	}

	_, err = j.db.ExecContext(ctx,
		`INSERT INTO executions (run_id, task_id, title, phase, status, narrative, tools_used, aborted, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.TaskID, rec.Title, string(rec.Phase), string(rec.Status), rec.Narrative,
		string(tools), aborted, rec.StartedAt.UTC().UnixNano(), rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("%w: insert: %w", agendaerrors.ErrJournal, err)
	}
	return nil
}

// List returns the most recent records, newest first.
func (j *SQLiteJournal) List(ctx context.Context, limit int) ([]domain.ExecutionRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return j.query(ctx,
		`SELECT run_id, task_id, title, phase, status, narrative, tools_used, aborted, started_at, duration_ms
		 FROM executions ORDER BY id DESC LIMIT ?`, limit)
}

// ListRun returns the records of one run in execution order.
func (j *SQLiteJournal) ListRun(ctx context.Context, runID string) ([]domain.ExecutionRecord, error) {
	return j.query(ctx,
		`SELECT run_id, task_id, title, phase, status, narrative, tools_used, aborted, started_at, duration_ms
		 FROM executions WHERE run_id = ? ORDER BY id ASC`, runID)
}

func (j *SQLiteJournal) query(ctx context.Context, q string, args ...any) ([]domain.ExecutionRecord, error) {
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", agendaerrors.ErrJournal, err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.ExecutionRecord
	for rows.Next() {
		var (
			rec        domain.ExecutionRecord
			phase      string
			status     string
			narrative  sql.NullString
			tools      sql.NullString
			aborted    int
			startedAt  int64
			durationMS int64
		)
		if err := rows.Scan(&rec.RunID, &rec.TaskID, &rec.Title, &phase, &status,
			&narrative, &tools, &aborted, &startedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", agendaerrors.ErrJournal, err)
		}

		rec.Phase = constants.Phase(phase)
		rec.Status = constants.TaskStatus(status)
		rec.Narrative = narrative.String
		rec.Aborted = aborted != 0
		rec.StartedAt = time.Unix(0, startedAt).UTC()
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if tools.Valid && tools.String != "" && tools.String != "null" {
			if err := json.Unmarshal([]byte(tools.String), &rec.ToolsUsed); err != nil {
				return nil, fmt.Errorf("%w: decode tools: %w", agendaerrors.ErrJournal, err)
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", agendaerrors.ErrJournal, err)
	}
	return out, nil
}
