package breeds

import (
	"context"
	"errors"
	"strings"
	"time"

	"dog-kennel/internal/domain/dogs"
	"dog-kennel/internal/domain/errs"

	"github.com/google/uuid"
)

const maxNameLen = 100

// DefaultSampleSize: perros de muestra por raza en el overview.
const DefaultSampleSize = 3

// DogSampler es lo que breeds necesita del registro de perros.
type DogSampler interface {
	Sample(ctx context.Context, breedID string, n int) ([]dogs.Dog, error)
}

type Service struct {
	repo Repository
	dogs DogSampler
	now  func() time.Time
}

func NewService(repo Repository, dogs DogSampler) *Service {
	return &Service{
		repo: repo,
		dogs: dogs,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name        string
	Description string
	Image       string
}

// UpdateInput usa punteros: nil = no tocar.
type UpdateInput struct {
	Name        *string
	Description *string
	Image       *string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Breed, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateName(name); err != nil {
		return Breed{}, err
	}

	now := s.now()
	b := Breed{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return Breed{}, mapConflict(err)
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, id string) (Breed, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Breed{}, errs.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Breed, error) {
	return s.repo.List(ctx)
}

// Exists implementa dogs.BreedLookup.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return Lookup{repo: s.repo}.Exists(ctx, id)
}

// Lookup responde dogs.BreedLookup sólo con el repo, para poder armar el
// servicio de perros antes que el de razas.
type Lookup struct {
	repo Repository
}

func NewLookup(repo Repository) Lookup {
	return Lookup{repo: repo}
}

func (l Lookup) Exists(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, nil
	}
	_, err := l.repo.GetByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Breed, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return Breed{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return Breed{}, err
		}
		b.Name = name
	}
	if in.Description != nil {
		b.Description = strings.TrimSpace(*in.Description)
	}
	if in.Image != nil {
		b.Image = strings.TrimSpace(*in.Image)
	}
	b.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, b); err != nil {
		return Breed{}, mapConflict(err)
	}
	return b, nil
}

// Delete borra la raza junto con todos sus perros (cascada del store).
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errs.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// Overview devuelve cada raza con hasta n perros elegidos al azar.
func (s *Service) Overview(ctx context.Context, n int) ([]Overview, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Overview, 0, len(items))
	for _, b := range items {
		sample, err := s.dogs.Sample(ctx, b.ID, n)
		if err != nil {
			return nil, err
		}
		out = append(out, Overview{Breed: b, SampleDogs: sample})
	}
	return out, nil
}

func validateName(name string) error {
	if name == "" {
		return errs.Invalid("name", "is required")
	}
	if len([]rune(name)) > maxNameLen {
		return errs.Invalid("name", "must be at most 100 characters")
	}
	return nil
}

func mapConflict(err error) error {
	if errors.Is(err, errs.ErrConflict) {
		return errs.Invalid("name", "a breed with this name already exists")
	}
	return err
}
