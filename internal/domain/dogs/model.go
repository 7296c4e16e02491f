package dogs

import "time"

// Dog representa el perfil de un perro registrado.
// OwnerID vacío significa "sin dueño": cualquiera puede reclamarlo.
type Dog struct {
	ID string

	Name        string
	BreedID     string
	Age         int
	Description string // opcional
	Image       string // opcional, ruta o URL de la foto

	OwnerID   string
	BirthDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d Dog) HasOwner() bool {
	return d.OwnerID != ""
}

func (d Dog) OwnedBy(userID string) bool {
	return d.OwnerID != "" && d.OwnerID == userID
}

// ListFilter acota List. Sin filtros devuelve todos los perros sin orden definido.
type ListFilter struct {
	BreedID string
	OwnerID string

	// GroupByBreed ordena por raza para que los perros de una misma raza queden contiguos.
	GroupByBreed bool
}
