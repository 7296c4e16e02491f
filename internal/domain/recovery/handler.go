package recovery

import (
	"errors"
	"net/http"

	"dog-kennel/internal/domain/errs"
	"dog-kennel/internal/platform/httpx"
	"dog-kennel/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

// resetAccepted es la misma respuesta exista o no el email.
const resetAccepted = "if the address belongs to an account, a new password has been sent to it"

// RegisterRoutes monta el reset sobre r (el router monta r en /auth).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/password-reset", requestResetHandler(svc))
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetResponse struct {
	Status string `json:"status"`
}

// requestResetHandler godoc
// @Summary Recuperar contraseña
// @Description Genera una contraseña nueva y la manda al email de la cuenta. La respuesta no revela si el email está registrado.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body resetRequest true "Email de la cuenta"
// @Success 202 {object} resetResponse
// @Failure 400 {object} httpx.ErrorResponse "invalid json"
// @Failure 429 {object} httpx.ErrorResponse
// @Router /auth/password-reset [post]
func requestResetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		err := svc.RequestReset(r.Context(), req.Email)
		metrics.PasswordResets.WithLabelValues(metrics.ResultFor(err)).Inc()
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			httpx.WriteError(w, err)
			return
		}

		httpx.WriteJSON(w, http.StatusAccepted, resetResponse{Status: resetAccepted})
	}
}
