package notifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"dog-kennel/internal/ports/notify"

	"github.com/google/uuid"
)

var ErrInvalidMessage = errors.New("notification: recipient is required")

// Service es el lado "productor" del outbox. Implementa notify.Notifier:
// Send sólo persiste el mensaje; la entrega la hace el Dispatcher.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) Send(ctx context.Context, msg notify.Message) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return ErrInvalidMessage
	}

	now := s.now()
	n := Notification{
		ID:        uuid.NewString(),
		Recipient: to,
		Subject:   msg.Subject,
		Body:      msg.Body,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.repo.Create(ctx, n)
}

func (s *Service) Get(ctx context.Context, id string) (Notification, error) {
	return s.repo.GetByID(ctx, id)
}

// Pending devuelve hasta limit mensajes pendientes.
func (s *Service) Pending(ctx context.Context, limit int) ([]Notification, error) {
	return s.repo.ListPending(ctx, limit)
}
