package auth

import (
	"net/http"
	"time"

	"dog-kennel/internal/domain/accounts"
	"dog-kennel/internal/middleware"
	"dog-kennel/internal/platform/httpx"
	"dog-kennel/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta register/login/logout sobre r (el router monta r en /auth).
func RegisterRoutes(r chi.Router, svc *Service, cookies *middleware.SessionCookies) {
	r.Post("/register", registerHandler(svc, cookies))
	r.Post("/login", loginHandler(svc, cookies))
	r.Post("/logout", logoutHandler(svc, cookies))
}

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Account   accounts.AccountResponse `json:"account"`
	Token     string                   `json:"token"`
	ExpiresAt time.Time                `json:"expires_at"`
}

// registerHandler godoc
// @Summary Registrarse
// @Description Crea la cuenta, manda el correo de bienvenida y deja la sesión abierta (token + cookie).
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Usuario, email y contraseña (mínimo 8 caracteres) con confirmación"
// @Success 201 {object} sessionResponse
// @Failure 400 {object} httpx.ErrorResponse "errores por campo"
// @Failure 429 {object} httpx.ErrorResponse
// @Router /auth/register [post]
func registerHandler(svc *Service, cookies *middleware.SessionCookies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		a, res, err := svc.Register(r.Context(), accounts.RegisterInput{
			Username:        req.Username,
			Email:           req.Email,
			Password:        req.Password,
			PasswordConfirm: req.PasswordConfirm,
		})
		metrics.Registrations.WithLabelValues(metrics.ResultFor(err)).Inc()
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		writeSession(w, r, cookies, http.StatusCreated, a, res)
	}
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Description Usuario inexistente y contraseña incorrecta responden exactamente igual.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} sessionResponse
// @Failure 401 {object} httpx.ErrorResponse "invalid username or password"
// @Failure 429 {object} httpx.ErrorResponse
// @Router /auth/login [post]
func loginHandler(svc *Service, cookies *middleware.SessionCookies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		a, res, err := svc.Login(r.Context(), req.Username, req.Password)
		metrics.Logins.WithLabelValues(metrics.ResultFor(err)).Inc()
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		writeSession(w, r, cookies, http.StatusOK, a, res)
	}
}

// logoutHandler godoc
// @Summary Cerrar sesión
// @Description Termina la sesión actual si la hay. Siempre responde 204.
// @Tags auth
// @Param Authorization header string false "Bearer token (o cookie de sesión)"
// @Success 204
// @Router /auth/logout [post]
func logoutHandler(svc *Service, cookies *middleware.SessionCookies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := middleware.GetClaims(r.Context()); ok {
			if err := svc.Logout(r.Context(), claims.SessionID); err != nil {
				httpx.WriteError(w, err)
				return
			}
		}
		_ = cookies.Clear(w, r)
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeSession(w http.ResponseWriter, r *http.Request, cookies *middleware.SessionCookies, status int, a accounts.Account, res Result) {
	if err := cookies.Save(w, r, res.Token); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, status, sessionResponse{
		Account:   accounts.ToResponse(a),
		Token:     res.Token,
		ExpiresAt: res.Session.ExpiresAt,
	})
}
