package accounts

import "time"

// Account es la identidad de un usuario. Username y Email son únicos.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}
