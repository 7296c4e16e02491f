package postgres

import (
	"context"
	"database/sql"
	"iter"
	"strings"
	"time"

	"dog-kennel/internal/domain/dogs"
	"dog-kennel/internal/domain/errs"
)

const dogColumns = `
	d.id, d.name, d.breed_id, d.age,
	d.description, d.image, d.owner_id,
	d.birth_date, d.created_at, d.updated_at`

type DogsRepo struct {
	db *sql.DB
}

func NewDogsRepo(db *sql.DB) *DogsRepo {
	return &DogsRepo{db: db}
}

func (r *DogsRepo) Create(ctx context.Context, d dogs.Dog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dogs (
			id, name, breed_id, age,
			description, image, owner_id,
			birth_date, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		d.ID,
		d.Name,
		d.BreedID,
		d.Age,
		d.Description,
		d.Image,
		toNullString(d.OwnerID),
		toNullDate(d.BirthDate),
		d.CreatedAt,
		d.UpdatedAt,
	)
	return mapError(err)
}

// Update sólo toca la fila si el dueño no cambió desde que se leyó.
func (r *DogsRepo) Update(ctx context.Context, d dogs.Dog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dogs
		SET
			name = $3,
			breed_id = $4,
			age = $5,
			description = $6,
			image = $7,
			birth_date = $8,
			updated_at = $9
		WHERE id = $1 AND owner_id = $2
	`,
		d.ID,
		d.OwnerID,
		d.Name,
		d.BreedID,
		d.Age,
		d.Description,
		d.Image,
		toNullDate(d.BirthDate),
		d.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return r.missOrDenied(ctx, d.ID, errs.ErrPermission)
	}
	return nil
}

func (r *DogsRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dogs.Dog{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+dogColumns+` FROM dogs d WHERE d.id = $1`, id)

	d, err := scanDog(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return dogs.Dog{}, ErrNotFound
		}
		return dogs.Dog{}, mapError(err)
	}
	return d, nil
}

// List ejecuta la consulta cada vez que se recorre la secuencia.
// Con GroupByBreed los perros de una raza salen contiguos, ordenados por nombre de raza.
func (r *DogsRepo) List(ctx context.Context, f dogs.ListFilter) iter.Seq2[dogs.Dog, error] {
	query, args := listDogsQuery(f)

	return func(yield func(dogs.Dog, error) bool) {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			// Un filtro con id mal formado no matchea ningún perro.
			if isNotFound(err) {
				return
			}
			yield(dogs.Dog{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			d, err := scanDog(rows)
			if err != nil {
				yield(dogs.Dog{}, err)
				return
			}
			if !yield(d, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(dogs.Dog{}, err)
		}
	}
}

func listDogsQuery(f dogs.ListFilter) (string, []any) {
	var (
		sb    strings.Builder
		where []string
		args  []any
	)

	sb.WriteString(`SELECT ` + dogColumns + ` FROM dogs d`)
	if f.GroupByBreed {
		sb.WriteString(` JOIN breeds b ON b.id = d.breed_id`)
	}

	if f.BreedID != "" {
		args = append(args, f.BreedID)
		where = append(where, "d.breed_id = $"+itoa(len(args)))
	}
	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		where = append(where, "d.owner_id = $"+itoa(len(args)))
	}
	if len(where) > 0 {
		sb.WriteString(` WHERE ` + strings.Join(where, " AND "))
	}

	if f.GroupByBreed {
		sb.WriteString(` ORDER BY b.name ASC, d.breed_id ASC, d.created_at ASC`)
	} else {
		sb.WriteString(` ORDER BY d.created_at ASC`)
	}
	return sb.String(), args
}

func (r *DogsRepo) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dogs WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return r.missOrDenied(ctx, id, errs.ErrPermission)
	}
	return nil
}

// SetOwner: el WHERE hace de compare-and-set, dos reclamos concurrentes no pueden ganar ambos.
func (r *DogsRepo) SetOwner(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dogs
		SET owner_id = $2, updated_at = $3
		WHERE id = $1 AND (owner_id IS NULL OR owner_id = $2)
	`, id, ownerID, time.Now().UTC())
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return r.missOrDenied(ctx, id, errs.ErrAlreadyOwned)
	}
	return nil
}

func (r *DogsRepo) ClearOwner(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dogs
		SET owner_id = NULL, updated_at = $3
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID, time.Now().UTC())
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return r.missOrDenied(ctx, id, errs.ErrPermission)
	}
	return nil
}

// missOrDenied distingue, tras un UPDATE/DELETE condicional sin filas, si el perro no existe.
func (r *DogsRepo) missOrDenied(ctx context.Context, id string, denied error) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM dogs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return mapError(err)
	}
	if !exists {
		return ErrNotFound
	}
	return denied
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDog(s rowScanner) (dogs.Dog, error) {
	var (
		d     dogs.Dog
		owner sql.NullString
		bd    sql.NullTime
	)
	if err := s.Scan(
		&d.ID,
		&d.Name,
		&d.BreedID,
		&d.Age,
		&d.Description,
		&d.Image,
		&owner,
		&bd,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return dogs.Dog{}, err
	}

	d.OwnerID = owner.String
	if bd.Valid {
		// birth_date es DATE: pgx lo entrega como medianoche UTC
		t := bd.Time
		d.BirthDate = &t
	}
	return d, nil
}

// birth_date es DATE, lo pasamos como NullTime para simplificar
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
