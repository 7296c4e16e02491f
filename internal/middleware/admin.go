package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const AdminTokenHeader = "X-Admin-Token"

// RequireAdminToken protege las rutas de administración del catálogo.
// Con token vacío las rutas quedan deshabilitadas (404).
func RequireAdminToken(token string) func(http.Handler) http.Handler {
	token = strings.TrimSpace(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				http.NotFound(w, r)
				return
			}
			got := strings.TrimSpace(r.Header.Get(AdminTokenHeader))
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
