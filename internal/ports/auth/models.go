package auth

// Claims representa la identidad autenticada extraída del token de sesión.
type Claims struct {
	UserID    string
	SessionID string
}
