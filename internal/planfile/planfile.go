// Package planfile saves plans to YAML files and loads them back, so a plan
// generated once can be reviewed, edited by hand and executed later.
package planfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/flock"
	"github.com/mrz1836/agenda/internal/task"
)

// filePerm is the permission used for plan files.
const filePerm = 0o600

// Plan is the on-disk representation of a plan.
type Plan struct {
	Version    string        `yaml:"version"`
	Goal       string        `yaml:"goal"`
	Skill      string        `yaml:"skill,omitempty"`
	ExportedAt time.Time     `yaml:"exported_at"`
	Tasks      []domain.Task `yaml:"tasks"`
}

// FromStore captures the tasks of store for export.
func FromStore(goal string, skill constants.SkillLevel, store *task.Store, now time.Time) *Plan {
	return &Plan{
		Version:    constants.PlanSchemaVersion,
		Goal:       goal,
		Skill:      string(skill),
		ExportedAt: now.UTC(),
		Tasks:      store.Snapshot(),
	}
}

// Store rebuilds a task store from the plan. Phases are matched
// case-insensitively so hand-edited files load.
func (p *Plan) Store() (*task.Store, error) {
	tasks := make([]domain.Task, len(p.Tasks))
	for i, t := range p.Tasks {
		if phase, ok := constants.ParsePhase(string(t.Phase)); ok {
			t.Phase = phase
		}
		tasks[i] = t
	}

	store, err := task.Restore(tasks)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", agendaerrors.ErrPlanFileInvalid, err)
	}
	return store, nil
}

// Save writes p to path atomically.
func Save(path string, p *Plan) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create plan directory: %w", err)
		}
	}
	return atomicWrite(path, data)
}

// Load reads a plan file and validates its version and tasks.
func Load(path string) (*Plan, *task.Store, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is chosen by the user
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", agendaerrors.ErrPlanFileInvalid, err)
	}
	if p.Version != constants.PlanSchemaVersion {
		return nil, nil, fmt.Errorf("%w: unsupported version %q", agendaerrors.ErrPlanFileInvalid, p.Version)
	}
	if len(p.Tasks) == 0 {
		return nil, nil, fmt.Errorf("%w: %w", agendaerrors.ErrPlanFileInvalid, agendaerrors.ErrEmptyPlan)
	}

	store, err := p.Store()
	if err != nil {
		return nil, nil, err
	}
	return &p, store, nil
}

// atomicWrite writes data to a file using write-then-rename.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm) //#nosec G304 -- path is chosen by the user
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// Lock takes the run lock of the plan at path. Only one process may run a
// plan file at a time; a second caller gets ErrPlanLocked.
func Lock(path string) (release func() error, err error) {
	lock, err := flock.TryLock(path + ".lock")
	if err != nil {
		if errors.Is(err, flock.ErrLocked) {
			return nil, fmt.Errorf("%w: %s", agendaerrors.ErrPlanLocked, path)
		}
		return nil, err
	}
	return lock.Release, nil
}
