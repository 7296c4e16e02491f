package dogs

import (
	"context"
	"iter"
	"math/rand/v2"
	"strings"
	"time"

	"dog-kennel/internal/domain/errs"

	"github.com/google/uuid"
)

type Service struct {
	repo   Repository
	breeds BreedLookup
	now    func() time.Time
}

func NewService(repo Repository, breeds BreedLookup) *Service {
	return &Service{
		repo:   repo,
		breeds: breeds,
		now:    time.Now,
	}
}

type CreateInput struct {
	Name        string
	BreedID     string
	Age         int
	Description string
	Image       string
	BirthDate   *time.Time
}

// BirthDatePatch distingue "no enviado" de "enviado como null" (limpiar).
type BirthDatePatch struct {
	Present bool
	Value   *time.Time
}

// UpdateInput usa punteros para PATCH real: nil = no tocar.
type UpdateInput struct {
	Name        *string
	BreedID     *string
	Age         *int
	Description *string
	Image       *string
	BirthDate   BirthDatePatch
}

// Create registra un perro sin dueño. callerID sólo se exige presente:
// cualquier usuario autenticado puede dar de alta perros.
func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (Dog, error) {
	if strings.TrimSpace(callerID) == "" {
		return Dog{}, errs.ErrPermission
	}

	now := s.now()
	d := Dog{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		BreedID:     strings.TrimSpace(in.BreedID),
		Age:         in.Age,
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
		BirthDate:   in.BirthDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := validateProfile(ctx, s.breeds, d, now); err != nil {
		return Dog{}, err
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

// Update aplica un PATCH. Sólo el dueño actual puede editar.
func (s *Service) Update(ctx context.Context, dogID, callerID string, in UpdateInput) (Dog, error) {
	d, err := s.Get(ctx, dogID)
	if err != nil {
		return Dog{}, err
	}
	if !d.OwnedBy(strings.TrimSpace(callerID)) {
		return Dog{}, errs.ErrPermission
	}

	if in.Name != nil {
		d.Name = strings.TrimSpace(*in.Name)
	}
	if in.BreedID != nil {
		d.BreedID = strings.TrimSpace(*in.BreedID)
	}
	if in.Age != nil {
		d.Age = *in.Age
	}
	if in.Description != nil {
		d.Description = strings.TrimSpace(*in.Description)
	}
	if in.Image != nil {
		d.Image = strings.TrimSpace(*in.Image)
	}
	if in.BirthDate.Present {
		d.BirthDate = in.BirthDate.Value
	}

	now := s.now()
	if err := validateProfile(ctx, s.breeds, d, now); err != nil {
		return Dog{}, err
	}
	d.UpdatedAt = now

	if err := s.repo.Update(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

// Delete borra el perro. Sólo el dueño actual puede hacerlo.
func (s *Service) Delete(ctx context.Context, dogID, callerID string) error {
	dogID = strings.TrimSpace(dogID)
	callerID = strings.TrimSpace(callerID)
	if dogID == "" {
		return errs.ErrNotFound
	}
	if callerID == "" {
		return errs.ErrPermission
	}
	return s.repo.Delete(ctx, dogID, callerID)
}

func (s *Service) Get(ctx context.Context, dogID string) (Dog, error) {
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return Dog{}, errs.ErrNotFound
	}
	return s.repo.GetByID(ctx, dogID)
}

func (s *Service) List(ctx context.Context, f ListFilter) iter.Seq2[Dog, error] {
	f.BreedID = strings.TrimSpace(f.BreedID)
	f.OwnerID = strings.TrimSpace(f.OwnerID)
	return s.repo.List(ctx, f)
}

// ListByOwner materializa los perros de un usuario (perfil).
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Dog, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, nil
	}
	return collect(s.repo.List(ctx, ListFilter{OwnerID: ownerID}))
}

// Sample devuelve hasta n perros al azar de una raza.
func (s *Service) Sample(ctx context.Context, breedID string, n int) ([]Dog, error) {
	if n <= 0 {
		return []Dog{}, nil
	}
	items, err := collect(s.repo.List(ctx, ListFilter{BreedID: strings.TrimSpace(breedID)}))
	if err != nil {
		return nil, err
	}
	rand.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

func collect(seq iter.Seq2[Dog, error]) ([]Dog, error) {
	out := make([]Dog, 0)
	for d, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
