package repository

import (
	"context"
	"maps"
	"sync"

	"github.com/emberlit/guessparty/internal/domain"
)

// sessionMemoryRepository is the in-process store used by the default dev
// config and by tests. Sessions are copied on the way in and out so a caller
// never mutates the stored aggregate except through Save.
type sessionMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

func NewSessionMemoryRepository() domain.SessionRepository {
	return &sessionMemoryRepository{
		sessions: make(map[string]*domain.Session),
	}
}

func (r *sessionMemoryRepository) Create(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return domain.ErrSessionExists
	}

	r.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *sessionMemoryRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	return cloneSession(session), nil
}

func (r *sessionMemoryRepository) Save(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *sessionMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

func cloneSession(session *domain.Session) *domain.Session {
	copied := *session
	copied.Roster = append([]domain.Player(nil), session.Roster...)
	copied.Guesses = append([]domain.Guess(nil), session.Guesses...)
	copied.Attempts = maps.Clone(session.Attempts)
	if session.TimerEndsAt != nil {
		endsAt := *session.TimerEndsAt
		copied.TimerEndsAt = &endsAt
	}
	return &copied
}
