package errs

import (
	"errors"
	"strings"
)

// Taxonomía común a todos los módulos. Los handlers traducen estos errores
// a códigos HTTP en platform/httpx.
var (
	ErrValidation         = errors.New("validation error")
	ErrPermission         = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyOwned       = errors.New("already owned")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrConflict lo devuelven los stores ante una violación de unicidad.
	// Los servicios lo convierten en un ValidationError con el campo correspondiente.
	ErrConflict = errors.New("conflict")
)

// FieldError es un error asociado a un campo concreto del input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError acumula errores por campo.
// errors.Is(err, ErrValidation) es true para cualquier *ValidationError.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add registra un error para field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Has indica si ya hay un error registrado para field.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Err devuelve nil si no se registró ningún error.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Invalid es un atajo para un ValidationError de un único campo.
func Invalid(field, message string) error {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// FieldsOf extrae los errores por campo si err es (o envuelve) un *ValidationError.
func FieldsOf(err error) []FieldError {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Fields
	}
	return nil
}

// ConflictError indica qué campo único chocó en el store.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return ErrConflict.Error() + ": " + e.Field
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Conflict construye un *ConflictError para field.
func Conflict(field string) error {
	return &ConflictError{Field: field}
}

// ConflictField devuelve el campo en conflicto, o "" si err no es un conflicto con campo.
func ConflictField(err error) string {
	var c *ConflictError
	if errors.As(err, &c) {
		return c.Field
	}
	return ""
}
