package accounts

import (
	"net/http"
	"time"

	"dog-kennel/internal/domain/dogs"
	"dog-kennel/internal/middleware"
	"dog-kennel/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, dogsSvc *dogs.Service, adminToken string) {
	r.Route("/me", func(mr chi.Router) {
		mr.Use(middleware.RequireAuth)

		mr.Get("/", getMeHandler(svc))
		mr.Patch("/", updateMeHandler(svc))
		mr.Post("/password", changePasswordHandler(svc))
		mr.Get("/dogs", myDogsHandler(dogsSvc))
	})

	r.Route("/admin/accounts", func(ar chi.Router) {
		ar.Use(middleware.RequireAdminToken(adminToken))
		ar.Delete("/{accountID}", deleteAccountHandler(svc))
	})
}

// AccountResponse nunca incluye el hash.
type AccountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type updateMeRequest struct {
	Email string `json:"email"`
}

type changePasswordRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// getMeHandler godoc
// @Summary Mi cuenta
// @Tags accounts
// @Produce json
// @Param Authorization header string false "Bearer token (o cookie de sesión)"
// @Success 200 {object} AccountResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /me [get]
func getMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		a, err := svc.Get(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(a))
	}
}

// updateMeHandler godoc
// @Summary Editar mi cuenta
// @Description Por ahora sólo el email es editable.
// @Tags accounts
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token (o cookie de sesión)"
// @Param payload body updateMeRequest true "Nuevo email"
// @Success 200 {object} AccountResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /me [patch]
func updateMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req updateMeRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		a, err := svc.UpdateEmail(r.Context(), claims.UserID, req.Email)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(a))
	}
}

// changePasswordHandler godoc
// @Summary Cambiar contraseña
// @Description Exige la contraseña actual. La sesión actual sigue abierta.
// @Tags accounts
// @Accept json
// @Param Authorization header string false "Bearer token (o cookie de sesión)"
// @Param payload body changePasswordRequest true "Contraseña actual y nueva"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /me/password [post]
func changePasswordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req changePasswordRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		err := svc.ChangePassword(r.Context(), claims.UserID, req.OldPassword, req.NewPassword, req.NewPasswordConfirm)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// myDogsHandler godoc
// @Summary Mis perros
// @Tags accounts
// @Produce json
// @Param Authorization header string false "Bearer token (o cookie de sesión)"
// @Success 200 {array} dogs.DogResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /me/dogs [get]
func myDogsHandler(dogsSvc *dogs.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := dogsSvc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := make([]dogs.DogResponse, 0, len(items))
		for _, d := range items {
			out = append(out, dogs.ToResponse(d))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// deleteAccountHandler godoc
// @Summary Borrar cuenta (admin)
// @Description Sus perros quedan sin dueño y sus sesiones se cierran.
// @Tags accounts
// @Param X-Admin-Token header string true "Token de administración"
// @Param accountID path string true "ID de la cuenta"
// @Success 204
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /admin/accounts/{accountID} [delete]
func deleteAccountHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "accountID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ToResponse(a Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}
