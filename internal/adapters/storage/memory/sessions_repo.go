package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"dog-kennel/internal/domain/auth"
)

type SessionRepo struct {
	mu   sync.RWMutex
	byID map[string]auth.Session
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{
		byID: make(map[string]auth.Session),
	}
}

func (r *SessionRepo) Create(ctx context.Context, s auth.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("session id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("session already exists")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *SessionRepo) GetByID(ctx context.Context, id string) (auth.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return auth.Session{}, ErrNotFound
	}
	return s, nil
}

func (r *SessionRepo) End(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok || s.EndedAt != nil {
		return nil
	}
	s.EndedAt = &at
	r.byID[id] = s
	return nil
}

func (r *SessionRepo) EndAllForAccount(ctx context.Context, accountID string, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.byID {
		if s.AccountID != accountID || s.EndedAt != nil {
			continue
		}
		ended := at
		s.EndedAt = &ended
		r.byID[id] = s
		n++
	}
	return n, nil
}

// deleteForAccount emula ON DELETE CASCADE de sessions.account_id.
func (r *SessionRepo) deleteForAccount(accountID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.byID {
		if s.AccountID == accountID {
			delete(r.byID, id)
		}
	}
}
