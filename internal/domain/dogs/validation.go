package dogs

import (
	"context"
	"strings"
	"time"

	"dog-kennel/internal/domain/errs"
)

const maxNameLen = 100

// BreedLookup es lo único que dogs necesita saber de las razas.
type BreedLookup interface {
	Exists(ctx context.Context, breedID string) (bool, error)
}

// validateProfile aplica las reglas de create/update sobre el perro ya armado.
// today se compara por fecha (UTC), no por instante.
func validateProfile(ctx context.Context, breeds BreedLookup, d Dog, today time.Time) error {
	v := &errs.ValidationError{}

	if strings.TrimSpace(d.Name) == "" {
		v.Add("name", "is required")
	} else if len([]rune(d.Name)) > maxNameLen {
		v.Add("name", "must be at most 100 characters")
	}

	if d.Age < 0 {
		v.Add("age", "must be a non-negative integer")
	}

	if d.BirthDate != nil && dateOnly(*d.BirthDate).After(dateOnly(today)) {
		v.Add("birth_date", "must not be in the future")
	}

	if strings.TrimSpace(d.BreedID) == "" {
		v.Add("breed_id", "is required")
	} else {
		ok, err := breeds.Exists(ctx, d.BreedID)
		if err != nil {
			return err
		}
		if !ok {
			v.Add("breed_id", "unknown breed")
		}
	}

	return v.Err()
}

func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
