package auth

import (
	"context"
	"time"
)

type SessionRepository interface {
	Create(ctx context.Context, s Session) error
	GetByID(ctx context.Context, id string) (Session, error)

	// End marca la sesión como terminada si todavía no lo estaba.
	// Terminar una sesión inexistente o ya terminada no es error.
	End(ctx context.Context, id string, at time.Time) error

	// EndAllForAccount termina todas las sesiones abiertas de la cuenta.
	EndAllForAccount(ctx context.Context, accountID string, at time.Time) (int, error)
}
