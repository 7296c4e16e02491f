package accounts

import "context"

type Repository interface {
	// Create devuelve un error que cumple errors.Is(err, errs.ErrConflict)
	// (con errs.ConflictField = "username" o "email") si choca una clave única.
	Create(ctx context.Context, a Account) error
	Update(ctx context.Context, a Account) error

	GetByID(ctx context.Context, id string) (Account, error)
	GetByUsername(ctx context.Context, username string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)

	// Delete borra la cuenta; los perros que tenía quedan sin dueño (no se borran).
	Delete(ctx context.Context, id string) error
}
