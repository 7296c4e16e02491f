package notifications

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, n Notification) error
	GetByID(ctx context.Context, id string) (Notification, error)

	// ListPending devuelve hasta limit mensajes pendientes, los más viejos primero.
	ListPending(ctx context.Context, limit int) ([]Notification, error)

	// MarkSent pasa a sent y vacía Body.
	MarkSent(ctx context.Context, id string, at time.Time) error

	// MarkAttemptFailed incrementa Attempts, guarda el error y, si final, pasa a failed
	// y vacía Body.
	MarkAttemptFailed(ctx context.Context, id string, lastErr string, final bool, at time.Time) error
}
