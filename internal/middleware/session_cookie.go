package middleware

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	cookieName = "kennel_session"
	tokenKey   = "token"
)

type CookieOptions struct {
	// Keys: pares hash/encryption de gorilla/sessions. Al menos una hash key.
	Keys   [][]byte
	Secure bool
	MaxAge int // segundos
}

// SessionCookies guarda el token de sesión en una cookie firmada, para clientes
// que no mandan Authorization (navegador).
type SessionCookies struct {
	store *sessions.CookieStore
}

func NewSessionCookies(opts CookieOptions) *SessionCookies {
	store := sessions.NewCookieStore(opts.Keys...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionCookies{store: store}
}

// Token devuelve el token guardado, o "" si no hay cookie o no es válida.
func (c *SessionCookies) Token(r *http.Request) string {
	if c == nil {
		return ""
	}
	s, err := c.store.Get(r, cookieName)
	if err != nil {
		return ""
	}
	tok, _ := s.Values[tokenKey].(string)
	return tok
}

func (c *SessionCookies) Save(w http.ResponseWriter, r *http.Request, token string) error {
	if c == nil {
		return nil
	}
	// Get devuelve una sesión nueva aunque la cookie vieja no decodifique.
	s, _ := c.store.Get(r, cookieName)
	s.Values[tokenKey] = token
	return s.Save(r, w)
}

func (c *SessionCookies) Clear(w http.ResponseWriter, r *http.Request) error {
	if c == nil {
		return nil
	}
	s, _ := c.store.Get(r, cookieName)
	delete(s.Values, tokenKey)
	s.Options.MaxAge = -1
	return s.Save(r, w)
}
