package dogs

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dog-kennel/internal/domain/errs"
	"dog-kennel/internal/middleware"
	"dog-kennel/internal/platform/httpx"
	"dog-kennel/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/dogs", func(dr chi.Router) {
		// Lectura pública
		dr.Get("/", listDogsHandler(svc))
		dr.Get("/{dogID}", getDogHandler(svc))

		dr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireAuth)

			ar.Post("/", createDogHandler(svc))
			ar.Patch("/{dogID}", updateDogHandler(svc))
			ar.Delete("/{dogID}", deleteDogHandler(svc))

			ar.Post("/{dogID}/claim", claimDogHandler(svc))
			ar.Delete("/{dogID}/claim", releaseDogHandler(svc))
		})
	})
}

type createDogRequest struct {
	Name        string `json:"name"`
	BreedID     string `json:"breed_id"`
	Age         int    `json:"age"`
	Description string `json:"description"`
	Image       string `json:"image"`
	BirthDate   string `json:"birth_date"` // YYYY-MM-DD opcional
}

type updateDogRequest struct {
	// nil = no tocar. birth_date se lee aparte para distinguir null.
	Name        *string `json:"name"`
	BreedID     *string `json:"breed_id"`
	Age         *int    `json:"age"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

type DogResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	BreedID     string    `json:"breed_id"`
	Age         int       `json:"age"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	OwnerID     *string   `json:"owner_id"`
	BirthDate   *string   `json:"birth_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// createDogHandler godoc
// @Summary Registrar un perro
// @Description Crea un perro sin dueño. Cualquier usuario autenticado puede registrarlo y luego reclamarlo.
// @Tags dogs
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token (o cookie de sesión)"
// @Param payload body createDogRequest true "Datos del perro; birth_date en formato YYYY-MM-DD"
// @Success 201 {object} DogResponse
// @Failure 400 {object} httpx.ErrorResponse "errores por campo"
// @Failure 401 {object} httpx.ErrorResponse "unauthorized"
// @Router /dogs [post]
func createDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req createDogRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		bd, err := parseDate(req.BirthDate)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		d, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:        req.Name,
			BreedID:     req.BreedID,
			Age:         req.Age,
			Description: req.Description,
			Image:       req.Image,
			BirthDate:   bd,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, ToResponse(d))
	}
}

// listDogsHandler godoc
// @Summary Listar perros
// @Description Lista perros filtrando por raza y/o dueño. Con group_by_breed=true los perros de una misma raza salen contiguos.
// @Tags dogs
// @Produce json
// @Param breed_id query string false "ID de raza"
// @Param owner_id query string false "ID de cuenta dueña"
// @Param group_by_breed query bool false "Agrupar por raza"
// @Success 200 {array} DogResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /dogs [get]
func listDogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		f := ListFilter{
			BreedID: q.Get("breed_id"),
			OwnerID: q.Get("owner_id"),
		}
		if v := q.Get("group_by_breed"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				httpx.WriteError(w, errs.Invalid("group_by_breed", "must be a boolean"))
				return
			}
			f.GroupByBreed = b
		}

		out := make([]DogResponse, 0)
		for d, err := range svc.List(r.Context(), f) {
			if err != nil {
				httpx.WriteError(w, err)
				return
			}
			out = append(out, ToResponse(d))
		}

		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getDogHandler godoc
// @Summary Ver un perro
// @Tags dogs
// @Produce json
// @Param dogID path string true "ID del perro"
// @Success 200 {object} DogResponse
// @Failure 404 {object} httpx.ErrorResponse "not found"
// @Router /dogs/{dogID} [get]
func getDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.Get(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(d))
	}
}

// updateDogHandler godoc
// @Summary Editar un perro
// @Description PATCH parcial. Sólo el dueño actual puede editar. "birth_date": null limpia la fecha.
// @Tags dogs
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token (o cookie de sesión)"
// @Param dogID path string true "ID del perro"
// @Param payload body updateDogRequest true "Campos a modificar"
// @Success 200 {object} DogResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse "no es el dueño"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /dogs/{dogID} [patch]
func updateDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		// Primero a map para saber si birth_date vino (aunque sea null).
		var raw map[string]json.RawMessage
		if err := httpx.DecodeJSON(w, r, &raw); err != nil {
			httpx.WriteError(w, err)
			return
		}

		var req updateDogRequest
		b, _ := json.Marshal(raw)
		if err := json.Unmarshal(b, &req); err != nil {
			httpx.WriteError(w, errs.Invalid("body", "invalid json"))
			return
		}

		var bd BirthDatePatch
		if v, ok := raw["birth_date"]; ok {
			bd.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					httpx.WriteError(w, errs.Invalid("birth_date", "must be YYYY-MM-DD or null"))
					return
				}
				t, err := parseDate(s)
				if err != nil {
					httpx.WriteError(w, err)
					return
				}
				bd.Value = t
			}
		}

		d, err := svc.Update(r.Context(), chi.URLParam(r, "dogID"), claims.UserID, UpdateInput{
			Name:        req.Name,
			BreedID:     req.BreedID,
			Age:         req.Age,
			Description: req.Description,
			Image:       req.Image,
			BirthDate:   bd,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, ToResponse(d))
	}
}

// deleteDogHandler godoc
// @Summary Borrar un perro
// @Tags dogs
// @Param Authorization header string false "Bearer token (o cookie de sesión)"
// @Param dogID path string true "ID del perro"
// @Success 204
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse "no es el dueño"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /dogs/{dogID} [delete]
func deleteDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		if err := svc.Delete(r.Context(), chi.URLParam(r, "dogID"), claims.UserID); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// claimDogHandler godoc
// @Summary Reclamar un perro
// @Description Asigna el perro al usuario si no tiene dueño. Reclamar un perro propio no cambia nada.
// @Tags ownership
// @Produce json
// @Param Authorization header string false "Bearer token (o cookie de sesión)"
// @Param dogID path string true "ID del perro"
// @Success 200 {object} DogResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse "already owned"
// @Router /dogs/{dogID}/claim [post]
func claimDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		d, err := svc.Claim(r.Context(), chi.URLParam(r, "dogID"), claims.UserID)
		metrics.DogClaims.WithLabelValues(metrics.ResultFor(err)).Inc()
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(d))
	}
}

// releaseDogHandler godoc
// @Summary Liberar un perro
// @Description Deja el perro sin dueño. Sólo el dueño actual puede liberarlo.
// @Tags ownership
// @Produce json
// @Param Authorization header string false "Bearer token (o cookie de sesión)"
// @Param dogID path string true "ID del perro"
// @Success 200 {object} DogResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse "no es el dueño"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /dogs/{dogID}/claim [delete]
func releaseDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		d, err := svc.Release(r.Context(), chi.URLParam(r, "dogID"), claims.UserID)
		metrics.DogReleases.WithLabelValues(metrics.ResultFor(err)).Inc()
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(d))
	}
}

// ToResponse lo usan también accounts (/me/dogs) y breeds (overview).
func ToResponse(d Dog) DogResponse {
	out := DogResponse{
		ID:          d.ID,
		Name:        d.Name,
		BreedID:     d.BreedID,
		Age:         d.Age,
		Description: d.Description,
		Image:       d.Image,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.HasOwner() {
		owner := d.OwnerID
		out.OwnerID = &owner
	}
	if d.BirthDate != nil {
		s := d.BirthDate.Format(dateLayout)
		out.BirthDate = &s
	}
	return out
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, errs.Invalid("birth_date", "must be YYYY-MM-DD")
	}
	return &t, nil
}
