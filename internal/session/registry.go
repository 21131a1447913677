package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mrz1836/agenda/internal/clock"
	"github.com/mrz1836/agenda/internal/constants"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

// Registry maps session ids to sessions. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	clock    clock.Clock
	newID    func() string
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryClock sets the clock used for CreatedAt.
func WithRegistryClock(c clock.Clock) RegistryOption {
	return func(r *Registry) {
		r.clock = c
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		clock:    clock.RealClock{},
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create registers a new session for goal. An unknown skill falls back to
// intermediate and an unknown mode to confirm.
func (r *Registry) Create(goal string, skill constants.SkillLevel, mode constants.RunMode) *Session {
	if _, ok := constants.ParseSkillLevel(string(skill)); !ok {
		skill = constants.SkillIntermediate
	}
	if _, ok := constants.ParseRunMode(string(mode)); !ok {
		mode = constants.RunModeConfirm
	}

	s := &Session{
		ID:        r.newID(),
		Goal:      goal,
		Skill:     skill,
		Mode:      mode,
		CreatedAt: r.clock.Now().UTC(),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", agendaerrors.ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete removes a session. A busy session cannot be removed.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", agendaerrors.ErrSessionNotFound, id)
	}
	if s.Busy() {
		return fmt.Errorf("%w: session %s", agendaerrors.ErrSessionBusy, id)
	}
	delete(r.sessions, id)
	return nil
}

// List returns all sessions, oldest first.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
