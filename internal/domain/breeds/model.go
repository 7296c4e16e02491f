package breeds

import (
	"time"

	"dog-kennel/internal/domain/dogs"
)

// Breed es una raza del catálogo. Name es único.
type Breed struct {
	ID          string
	Name        string
	Description string // opcional
	Image       string // opcional, ruta o URL de la imagen

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overview es una raza con algunos perros de muestra (página de razas).
type Overview struct {
	Breed      Breed
	SampleDogs []dogs.Dog
}
