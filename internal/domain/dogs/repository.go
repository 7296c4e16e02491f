package dogs

import (
	"context"
	"iter"
)

type Repository interface {
	Create(ctx context.Context, d Dog) error

	// Update guarda los campos de perfil sólo si el perro sigue perteneciendo a d.OwnerID.
	// Devuelve errs.ErrPermission si no.
	Update(ctx context.Context, d Dog) error

	GetByID(ctx context.Context, id string) (Dog, error)

	// List es perezoso: cada llamada a la secuencia vuelve a consultar el store.
	List(ctx context.Context, f ListFilter) iter.Seq2[Dog, error]

	// Delete borra el perro sólo si pertenece a ownerID.
	// errs.ErrNotFound si no existe, errs.ErrPermission si es de otro (o de nadie).
	Delete(ctx context.Context, id, ownerID string) error

	// SetOwner es un compare-and-set atómico: asigna ownerID sólo si el perro no
	// tiene dueño o ya es de ownerID. errs.ErrAlreadyOwned si es de otro.
	SetOwner(ctx context.Context, id, ownerID string) error

	// ClearOwner deja el perro sin dueño sólo si pertenece a ownerID.
	// errs.ErrPermission si no.
	ClearOwner(ctx context.Context, id, ownerID string) error
}
