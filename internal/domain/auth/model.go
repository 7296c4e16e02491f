package auth

import "time"

// Session es el estado Authenticated de un cliente.
// Una vez terminada (EndedAt != nil) no vuelve a estar activa.
type Session struct {
	ID        string
	AccountID string

	CreatedAt time.Time
	ExpiresAt time.Time
	EndedAt   *time.Time
}

func (s Session) ActiveAt(t time.Time) bool {
	return s.EndedAt == nil && t.Before(s.ExpiresAt)
}

// Result es lo que devuelven Login y Register: la sesión abierta y su token firmado.
type Result struct {
	Session Session
	Token   string
}
