package notifications

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Notification es un mensaje en el outbox. Se entrega al menos una vez.
// Al quedar sent o failed el store vacía Body.
type Notification struct {
	ID string

	Recipient string
	Subject   string
	Body      string

	Status    Status
	Attempts  int
	LastError string

	CreatedAt time.Time
	UpdatedAt time.Time
}
