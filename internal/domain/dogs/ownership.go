package dogs

import (
	"context"
	"strings"

	"dog-kennel/internal/domain/errs"
)

// Claim asigna el perro a callerID si no tiene dueño.
// Si ya es de callerID no hace nada (idempotente); si es de otro devuelve errs.ErrAlreadyOwned.
// La condición se evalúa en el store en la misma escritura, así dos claims
// concurrentes nunca ganan los dos.
func (s *Service) Claim(ctx context.Context, dogID, callerID string) (Dog, error) {
	dogID = strings.TrimSpace(dogID)
	callerID = strings.TrimSpace(callerID)
	if dogID == "" {
		return Dog{}, errs.ErrNotFound
	}
	if callerID == "" {
		return Dog{}, errs.ErrPermission
	}

	if err := s.repo.SetOwner(ctx, dogID, callerID); err != nil {
		return Dog{}, err
	}
	return s.repo.GetByID(ctx, dogID)
}

// Release deja el perro sin dueño. Sólo el dueño actual puede hacerlo.
func (s *Service) Release(ctx context.Context, dogID, callerID string) (Dog, error) {
	dogID = strings.TrimSpace(dogID)
	callerID = strings.TrimSpace(callerID)
	if dogID == "" {
		return Dog{}, errs.ErrNotFound
	}
	if callerID == "" {
		return Dog{}, errs.ErrPermission
	}

	if err := s.repo.ClearOwner(ctx, dogID, callerID); err != nil {
		return Dog{}, err
	}
	return s.repo.GetByID(ctx, dogID)
}
