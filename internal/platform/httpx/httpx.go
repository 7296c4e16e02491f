package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"dog-kennel/internal/domain/errs"
)

const maxBodyBytes = 1 << 20

// ErrorResponse es el cuerpo de todas las respuestas de error.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields []errs.FieldError `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage escribe un error sin campos.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// StatusFor traduce la taxonomía de errs a un código HTTP.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAlreadyOwned), errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError escribe err con el status que le corresponde y lo devuelve.
// Los 500 no exponen el mensaje interno.
func WriteError(w http.ResponseWriter, err error) int {
	status := StatusFor(err)
	switch status {
	case http.StatusInternalServerError:
		WriteMessage(w, status, "internal error")
	case http.StatusBadRequest:
		WriteJSON(w, status, ErrorResponse{Error: errs.ErrValidation.Error(), Fields: errs.FieldsOf(err)})
	case http.StatusUnauthorized:
		WriteMessage(w, status, errs.ErrInvalidCredentials.Error())
	default:
		WriteMessage(w, status, err.Error())
	}
	return status
}

// DecodeJSON decodifica el body (máx 1MB) en v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errs.Invalid("body", "invalid json")
	}
	return nil
}
