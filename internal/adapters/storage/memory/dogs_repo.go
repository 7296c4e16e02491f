package memory

import (
	"context"
	"errors"
	"iter"
	"sort"
	"strings"
	"sync"

	"dog-kennel/internal/domain/dogs"
	"dog-kennel/internal/domain/errs"
)

// ErrNotFound se mantiene como alias para que los tests del paquete lean igual.
var ErrNotFound = errs.ErrNotFound

// DogRepo guarda perros en memoria. Todas las transiciones de dueño se
// resuelven bajo el mismo lock, lo que equivale a un UPDATE condicional.
type DogRepo struct {
	mu   sync.RWMutex
	byID map[string]dogs.Dog

	// breeds, si está cableado (NewStore), hace de FK dogs.breed_id.
	breeds *BreedRepo
}

func NewDogRepo() *DogRepo {
	return &DogRepo{
		byID: make(map[string]dogs.Dog),
	}
}

func (r *DogRepo) Create(ctx context.Context, d dogs.Dog) error {
	unlock, err := r.lockBreed(d.BreedID)
	if err != nil {
		return err
	}
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(d.ID) == "" {
		return errors.New("dog id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return errors.New("dog already exists")
	}
	r.byID[d.ID] = d
	return nil
}

func (r *DogRepo) Update(ctx context.Context, d dogs.Dog) error {
	unlock, err := r.lockBreed(d.BreedID)
	if err != nil {
		return err
	}
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[d.ID]
	if !exists {
		return ErrNotFound
	}
	if !cur.OwnedBy(d.OwnerID) {
		return errs.ErrPermission
	}
	// CreatedAt no cambia nunca.
	d.CreatedAt = cur.CreatedAt
	r.byID[d.ID] = d
	return nil
}

func (r *DogRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return dogs.Dog{}, ErrNotFound
	}
	return d, nil
}

// List toma una foto bajo el lock en cada iteración y luego la recorre sin lock.
func (r *DogRepo) List(ctx context.Context, f dogs.ListFilter) iter.Seq2[dogs.Dog, error] {
	return func(yield func(dogs.Dog, error) bool) {
		r.mu.RLock()
		out := make([]dogs.Dog, 0, len(r.byID))
		for _, d := range r.byID {
			if f.BreedID != "" && d.BreedID != f.BreedID {
				continue
			}
			if f.OwnerID != "" && d.OwnerID != f.OwnerID {
				continue
			}
			out = append(out, d)
		}
		r.mu.RUnlock()

		if f.GroupByBreed {
			sort.SliceStable(out, func(i, j int) bool {
				if out[i].BreedID != out[j].BreedID {
					return out[i].BreedID < out[j].BreedID
				}
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			})
		}

		for _, d := range out {
			if err := ctx.Err(); err != nil {
				yield(dogs.Dog{}, err)
				return
			}
			if !yield(d, nil) {
				return
			}
		}
	}
}

func (r *DogRepo) Delete(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if !d.OwnedBy(ownerID) {
		return errs.ErrPermission
	}
	delete(r.byID, id)
	return nil
}

func (r *DogRepo) SetOwner(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if d.HasOwner() && d.OwnerID != ownerID {
		return errs.ErrAlreadyOwned
	}
	d.OwnerID = ownerID
	r.byID[id] = d
	return nil
}

func (r *DogRepo) ClearOwner(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if !d.OwnedBy(ownerID) {
		return errs.ErrPermission
	}
	d.OwnerID = ""
	r.byID[id] = d
	return nil
}

// lockBreed toma el lock de lectura de razas y verifica que breedID exista; la raza
// no puede borrarse hasta que se libere. Orden de locks: razas y después perros,
// el mismo que usa la cascada de BreedRepo.Delete.
func (r *DogRepo) lockBreed(breedID string) (func(), error) {
	if r.breeds == nil {
		return func() {}, nil
	}
	r.breeds.mu.RLock()
	if _, ok := r.breeds.byID[breedID]; !ok {
		r.breeds.mu.RUnlock()
		return nil, errs.Invalid("breed_id", "unknown breed")
	}
	return r.breeds.mu.RUnlock, nil
}

// deleteByBreed emula ON DELETE CASCADE de dogs.breed_id.
func (r *DogRepo) deleteByBreed(breedID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, d := range r.byID {
		if d.BreedID == breedID {
			delete(r.byID, id)
			n++
		}
	}
	return n
}

// releaseOwner emula ON DELETE SET NULL de dogs.owner_id.
func (r *DogRepo) releaseOwner(ownerID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, d := range r.byID {
		if d.OwnerID == ownerID {
			d.OwnerID = ""
			r.byID[id] = d
			n++
		}
	}
	return n
}
