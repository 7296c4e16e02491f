package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"dog-kennel/internal/domain/accounts"
	"dog-kennel/internal/domain/errs"
)

type AccountRepo struct {
	mu   sync.RWMutex
	byID map[string]accounts.Account

	// Al borrar una cuenta sus perros quedan sin dueño y sus sesiones se borran.
	dogs     *DogRepo
	sessions *SessionRepo
}

func NewAccountRepo(dogs *DogRepo, sessions *SessionRepo) *AccountRepo {
	return &AccountRepo{
		byID:     make(map[string]accounts.Account),
		dogs:     dogs,
		sessions: sessions,
	}
}

func (r *AccountRepo) Create(ctx context.Context, a accounts.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("account id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("account already exists")
	}
	if err := r.uniqueLocked(a); err != nil {
		return err
	}
	r.byID[a.ID] = a
	return nil
}

func (r *AccountRepo) Update(ctx context.Context, a accounts.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return ErrNotFound
	}
	if err := r.uniqueLocked(a); err != nil {
		return err
	}
	r.byID[a.ID] = a
	return nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return accounts.Account{}, ErrNotFound
	}
	return a, nil
}

func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (accounts.Account, error) {
	return r.find(func(a accounts.Account) bool { return a.Username == username })
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	return r.find(func(a accounts.Account) bool { return a.Email == email })
}

func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	if r.dogs != nil {
		r.dogs.releaseOwner(id)
	}
	if r.sessions != nil {
		r.sessions.deleteForAccount(id)
	}
	return nil
}

func (r *AccountRepo) find(match func(accounts.Account) bool) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if match(a) {
			return a, nil
		}
	}
	return accounts.Account{}, ErrNotFound
}

func (r *AccountRepo) uniqueLocked(a accounts.Account) error {
	for id, other := range r.byID {
		if id == a.ID {
			continue
		}
		if other.Username == a.Username {
			return errs.Conflict("username")
		}
		if other.Email == a.Email {
			return errs.Conflict("email")
		}
	}
	return nil
}
