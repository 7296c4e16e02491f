package postgres

import (
	"errors"
	"strconv"
	"strings"

	"dog-kennel/internal/domain/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	// Texto que no parsea como el tipo de la columna: un id que no es UUID.
	pgInvalidTextRepresentation = "22P02"
)

// uniqueFields traduce nombres de constraints a campos del dominio.
var uniqueFields = map[string]string{
	"breeds_name_key":       "name",
	"accounts_username_key": "username",
	"accounts_email_key":    "email",
}

// mapError convierte violaciones de constraints en errores del dominio.
// Un id mal formado no puede existir: se reporta como ErrNotFound.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if f, ok := uniqueFields[pgErr.ConstraintName]; ok {
			return errs.Conflict(f)
		}
		return errs.ErrConflict
	case pgForeignKeyViolation:
		if strings.Contains(pgErr.ConstraintName, "breed") {
			return errs.Invalid("breed_id", "unknown breed")
		}
		return errs.Invalid(pgErr.ColumnName, "references a missing record")
	case pgInvalidTextRepresentation:
		return ErrNotFound
	}
	return err
}

// isNotFound: sin filas o id mal formado.
func isNotFound(err error) bool {
	return errors.Is(mapError(err), ErrNotFound)
}

func toNullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
