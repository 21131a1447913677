// Package session wires the planner, the edit interpreter and the execution
// engine together for one user goal.
//
// A Session owns exactly one task store at a time. Sessions are kept in an
// explicit Registry owned by the caller; nothing here is process-global.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/task"
)

// Session is the state of one goal being planned and executed.
type Session struct {
	// ID, Goal, Skill, Mode and CreatedAt are fixed at creation.
	ID        string
	Goal      string
	Skill     constants.SkillLevel
	Mode      constants.RunMode
	CreatedAt time.Time

	mu             sync.Mutex
	store          *task.Store
	analysis       *domain.GoalAnalysis
	clarifications []domain.Clarification
	approved       bool
	busy           bool
	lastRun        *task.RunSummary
}

// Store returns the current plan, or nil before the first plan.
func (s *Session) Store() *task.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

// Analysis returns the last goal analysis, or nil.
func (s *Session) Analysis() *domain.GoalAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis
}

// Clarifications returns a copy of the answered questions.
func (s *Session) Clarifications() []domain.Clarification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Clarification(nil), s.clarifications...)
}

// Approved reports whether the current plan has been approved.
func (s *Session) Approved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.approved
}

// Busy reports whether an operation is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// LastRun returns the summary of the most recent run, or nil.
func (s *Session) LastRun() *task.RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// acquire marks the session busy. Only one planning, editing or execution
// call may be in flight per session.
func (s *Session) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return fmt.Errorf("%w: session %s", agendaerrors.ErrSessionBusy, s.ID)
	}
	s.busy = true
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// currentStore returns the plan or ErrNoPlan.
func (s *Session) currentStore() (*task.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil, agendaerrors.ErrNoPlan
	}
	return s.store, nil
}
