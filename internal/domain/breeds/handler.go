package breeds

import (
	"net/http"
	"strconv"
	"time"

	"dog-kennel/internal/domain/dogs"
	"dog-kennel/internal/domain/errs"
	"dog-kennel/internal/middleware"
	"dog-kennel/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

const maxSampleSize = 20

// RegisterRoutes monta el catálogo. Las escrituras exigen X-Admin-Token.
func RegisterRoutes(r chi.Router, svc *Service, adminToken string) {
	r.Route("/breeds", func(br chi.Router) {
		br.Get("/", listBreedsHandler(svc))
		br.Get("/overview", overviewHandler(svc))
		br.Get("/{breedID}", getBreedHandler(svc))

		br.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireAdminToken(adminToken))

			ar.Post("/", createBreedHandler(svc))
			ar.Patch("/{breedID}", updateBreedHandler(svc))
			ar.Delete("/{breedID}", deleteBreedHandler(svc))
		})
	})
}

type breedRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type updateBreedRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

type breedResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type overviewResponse struct {
	Breed      breedResponse      `json:"breed"`
	SampleDogs []dogs.DogResponse `json:"sample_dogs"`
}

// listBreedsHandler godoc
// @Summary Listar razas
// @Tags breeds
// @Produce json
// @Success 200 {array} breedResponse
// @Router /breeds [get]
func listBreedsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := make([]breedResponse, 0, len(items))
		for _, b := range items {
			out = append(out, toBreedResponse(b))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// overviewHandler godoc
// @Summary Razas con perros de muestra
// @Description Cada raza con hasta `sample` perros elegidos al azar (por defecto 3).
// @Tags breeds
// @Produce json
// @Param sample query int false "Perros por raza (1-20)"
// @Success 200 {array} overviewResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /breeds/overview [get]
func overviewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := DefaultSampleSize
		if v := r.URL.Query().Get("sample"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 1 || parsed > maxSampleSize {
				httpx.WriteError(w, errs.Invalid("sample", "must be between 1 and 20"))
				return
			}
			n = parsed
		}

		items, err := svc.Overview(r.Context(), n)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := make([]overviewResponse, 0, len(items))
		for _, o := range items {
			sample := make([]dogs.DogResponse, 0, len(o.SampleDogs))
			for _, d := range o.SampleDogs {
				sample = append(sample, dogs.ToResponse(d))
			}
			out = append(out, overviewResponse{Breed: toBreedResponse(o.Breed), SampleDogs: sample})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getBreedHandler godoc
// @Summary Ver una raza
// @Tags breeds
// @Produce json
// @Param breedID path string true "ID de la raza"
// @Success 200 {object} breedResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /breeds/{breedID} [get]
func getBreedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.Get(r.Context(), chi.URLParam(r, "breedID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toBreedResponse(b))
	}
}

// createBreedHandler godoc
// @Summary Crear raza (admin)
// @Tags breeds
// @Accept json
// @Produce json
// @Param X-Admin-Token header string true "Token de administración"
// @Param payload body breedRequest true "Datos de la raza"
// @Success 201 {object} breedResponse
// @Failure 400 {object} httpx.ErrorResponse "nombre vacío o repetido"
// @Failure 403 {object} httpx.ErrorResponse
// @Router /breeds [post]
func createBreedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req breedRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		b, err := svc.Create(r.Context(), CreateInput{
			Name:        req.Name,
			Description: req.Description,
			Image:       req.Image,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toBreedResponse(b))
	}
}

// updateBreedHandler godoc
// @Summary Editar raza (admin)
// @Tags breeds
// @Accept json
// @Produce json
// @Param X-Admin-Token header string true "Token de administración"
// @Param breedID path string true "ID de la raza"
// @Param payload body updateBreedRequest true "Campos a modificar"
// @Success 200 {object} breedResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /breeds/{breedID} [patch]
func updateBreedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateBreedRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		b, err := svc.Update(r.Context(), chi.URLParam(r, "breedID"), UpdateInput{
			Name:        req.Name,
			Description: req.Description,
			Image:       req.Image,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toBreedResponse(b))
	}
}

// deleteBreedHandler godoc
// @Summary Borrar raza (admin)
// @Description Borra la raza y todos sus perros.
// @Tags breeds
// @Param X-Admin-Token header string true "Token de administración"
// @Param breedID path string true "ID de la raza"
// @Success 204
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /breeds/{breedID} [delete]
func deleteBreedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "breedID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toBreedResponse(b Breed) breedResponse {
	return breedResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Image:       b.Image,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
