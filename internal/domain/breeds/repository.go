package breeds

import "context"

type Repository interface {
	Create(ctx context.Context, b Breed) error
	Update(ctx context.Context, b Breed) error
	GetByID(ctx context.Context, id string) (Breed, error)
	List(ctx context.Context) ([]Breed, error)

	// Delete borra la raza y, en cascada, todos sus perros.
	Delete(ctx context.Context, id string) error
}
