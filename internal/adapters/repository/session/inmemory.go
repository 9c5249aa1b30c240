package sessionrepo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/aasedek/Analytica-AI-Product-1/internal/app/editor"
	"github.com/aasedek/Analytica-AI-Product-1/internal/infrastructure/metrics"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrDuplicateSession = errors.New("session already exists")
)

// InMemorySessionRepository keeps open editor sessions in process memory
// PRINCIPLES:
// - KISS: Simple map-based storage
// - SRP: Only responsible for session lifetime and access
// - Thread-safe: every session is touched under its own lock

type InMemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	session *editor.Session
}

func NewInMemorySessionRepository() *InMemorySessionRepository {
	return &InMemorySessionRepository{
		sessions: make(map[string]*entry),
	}
}

// Save registers a new session
func (r *InMemorySessionRepository) Save(ctx context.Context, s *editor.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID()]; ok {
		return ErrDuplicateSession
	}
	r.sessions[s.ID()] = &entry{session: s}
	metrics.SessionOpened()
	return nil
}

// Do runs fn with exclusive access to the session
func (r *InMemorySessionRepository) Do(ctx context.Context, id string, fn func(*editor.Session) error) error {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

// Delete closes a session
func (r *InMemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	metrics.SessionClosed()
	return nil
}

// List returns the open session ids in order
func (r *InMemorySessionRepository) List(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (r *InMemorySessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
