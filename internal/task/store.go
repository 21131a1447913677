package task

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mrz1836/agenda/internal/clock"
	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

// Store is the ordered, id-keyed collection of tasks for one plan.
//
// Ids start at 1 and strictly increase; an id is never handed out twice, even
// after the task holding it is removed. Plan order is id order.
//
// A Store is owned by a single session and is not safe for concurrent use.
// The session serializes planning, editing and execution on it.
type Store struct {
	tasks  []*domain.Task
	byID   map[int]*domain.Task
	nextID int
	clock  clock.Clock
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreClock sets the clock used for task timestamps.
func WithStoreClock(c clock.Clock) StoreOption {
	return func(s *Store) {
		s.clock = c
	}
}

// NewStore creates an empty store whose first id will be 1.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		byID:   make(map[int]*domain.Task),
		nextID: 1,
		clock:  clock.RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore rebuilds a store from previously exported tasks. Tasks keep their
// ids and statuses; the next id continues after the highest one seen.
// A task caught mid-execution cannot be restored.
func Restore(tasks []domain.Task, opts ...StoreOption) (*Store, error) {
	s := NewStore(opts...)

	sorted := make([]domain.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for i := range sorted {
		t := sorted[i]
		if t.ID <= 0 {
			return nil, fmt.Errorf("%w: task id %d must be positive", agendaerrors.ErrInvalidArgument, t.ID)
		}
		if _, dup := s.byID[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate task id %d", agendaerrors.ErrInvalidArgument, t.ID)
		}
		if strings.TrimSpace(t.Title) == "" {
			return nil, fmt.Errorf("%w: task %d has an empty title", agendaerrors.ErrInvalidArgument, t.ID)
		}
		if !t.Phase.Valid() {
			return nil, fmt.Errorf("%w: task %d has unknown phase %q", agendaerrors.ErrInvalidArgument, t.ID, t.Phase)
		}
		switch t.Status {
		case constants.TaskStatusPending, constants.TaskStatusSuccess, constants.TaskStatusFailed:
		case constants.TaskStatusInProgress:
			return nil, fmt.Errorf("%w: task %d was interrupted mid-execution", agendaerrors.ErrInvalidState, t.ID)
		default:
			return nil, fmt.Errorf("%w: task %d has unknown status %q", agendaerrors.ErrInvalidArgument, t.ID, t.Status)
		}

		restored := t.Clone()
		restored.OrderIndex = len(s.tasks)
		s.tasks = append(s.tasks, restored)
		s.byID[restored.ID] = restored
		if restored.ID >= s.nextID {
			s.nextID = restored.ID + 1
		}
	}
	return s, nil
}

// Add appends a new pending task and assigns it the next id.
func (s *Store) Add(nt domain.NewTask) (*domain.Task, error) {
	title := strings.TrimSpace(nt.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", agendaerrors.ErrInvalidArgument)
	}
	if !nt.Phase.Valid() {
		return nil, fmt.Errorf("%w: unknown phase %q", agendaerrors.ErrInvalidArgument, nt.Phase)
	}

	now := s.clock.Now().UTC()
	t := &domain.Task{
		ID:          s.nextID,
		Title:       title,
		Description: strings.TrimSpace(nt.Description),
		Phase:       nt.Phase,
		Reasoning:   strings.TrimSpace(nt.Reasoning),
		Status:      constants.TaskStatusPending,
		OrderIndex:  len(s.tasks),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextID++
	s.tasks = append(s.tasks, t)
	s.byID[t.ID] = t
	return t, nil
}

// Get returns the live task with the given id.
func (s *Store) Get(id int) (*domain.Task, error) {
	t, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", agendaerrors.ErrTaskNotFound, id)
	}
	return t, nil
}

// Remove deletes a task that is not currently executing. Its id is retired.
func (s *Store) Remove(id int) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	if t.Status == constants.TaskStatusInProgress {
		return fmt.Errorf("%w: task %d is executing", agendaerrors.ErrInvalidState, id)
	}

	delete(s.byID, id)
	kept := s.tasks[:0]
	for _, other := range s.tasks {
		if other.ID != id {
			other.OrderIndex = len(kept)
			kept = append(kept, other)
		}
	}
	s.tasks = kept
	return nil
}

// Tasks returns the live tasks in plan order. The slice is a copy; the
// tasks are not.
func (s *Store) Tasks() []*domain.Task {
	out := make([]*domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Snapshot returns deep copies of all tasks in plan order.
func (s *Store) Snapshot() []domain.Task {
	out := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, *t.Clone())
	}
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// NextID returns the id the next added task will receive.
func (s *Store) NextID() int {
	return s.nextID
}

// NextPending returns the pending task with the lowest id, or nil.
func (s *Store) NextPending() *domain.Task {
	for _, t := range s.tasks {
		if t.Status == constants.TaskStatusPending {
			return t
		}
	}
	return nil
}

// PendingIDs returns the ids of all pending tasks in ascending order.
func (s *Store) PendingIDs() []int {
	var ids []int
	for _, t := range s.tasks {
		if t.Status == constants.TaskStatusPending {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// InProgressCount returns how many tasks are executing. It is 0 or 1.
func (s *Store) InProgressCount() int {
	n := 0
	for _, t := range s.tasks {
		if t.Status == constants.TaskStatusInProgress {
			n++
		}
	}
	return n
}

// AllTerminal reports whether no task is pending or in progress.
func (s *Store) AllTerminal() bool {
	for _, t := range s.tasks {
		if !t.IsTerminal() {
			return false
		}
	}
	return true
}

// Begin moves the pending task with the given id to in progress. It refuses
// while another task is executing.
func (s *Store) Begin(ctx context.Context, id int) (*domain.Task, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if s.InProgressCount() > 0 {
		return nil, fmt.Errorf("%w: another task is already in progress", agendaerrors.ErrInvalidState)
	}
	if err := transitionAt(ctx, t, constants.TaskStatusInProgress, "execution started", s.clock.Now().UTC()); err != nil {
		return nil, err
	}
	return t, nil
}

// Complete records the outcome for the in-progress task with the given id.
func (s *Store) Complete(ctx context.Context, id int, outcome domain.Outcome) (*domain.Task, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := completeAt(ctx, t, outcome, s.clock.Now().UTC()); err != nil {
		return nil, err
	}
	return t, nil
}

// ApplyEdit applies diff to the task with the given id.
func (s *Store) ApplyEdit(id int, diff domain.TaskDiff) (*domain.Task, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := applyEditAt(t, diff, s.clock.Now().UTC()); err != nil {
		return nil, err
	}
	return t, nil
}

// Summary counts tasks per status.
type Summary struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Success    int `json:"success"`
	Failed     int `json:"failed"`
}

// Summary returns the per-status task counts.
func (s *Store) Summary() Summary {
	sum := Summary{Total: len(s.tasks)}
	for _, t := range s.tasks {
		switch t.Status {
		case constants.TaskStatusPending:
			sum.Pending++
		case constants.TaskStatusInProgress:
			sum.InProgress++
		case constants.TaskStatusSuccess:
			sum.Success++
		case constants.TaskStatusFailed:
			sum.Failed++
		}
	}
	return sum
}

// ByPhase groups the live tasks by phase, keeping plan order within a phase.
func (s *Store) ByPhase() map[constants.Phase][]*domain.Task {
	groups := make(map[constants.Phase][]*domain.Task)
	for _, t := range s.tasks {
		groups[t.Phase] = append(groups[t.Phase], t)
	}
	return groups
}
