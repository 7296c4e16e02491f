package postgres

import (
	"context"
	"database/sql"
	"strings"

	"dog-kennel/internal/domain/accounts"
)

type AccountsRepo struct {
	db *sql.DB
}

func NewAccountsRepo(db *sql.DB) *AccountsRepo {
	return &AccountsRepo{db: db}
}

func (r *AccountsRepo) Create(ctx context.Context, a accounts.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, username, email, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		a.ID,
		a.Username,
		a.Email,
		a.PasswordHash,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return mapError(err)
}

func (r *AccountsRepo) Update(ctx context.Context, a accounts.Account) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET email = $2, password_hash = $3, updated_at = $4
		WHERE id = $1
	`,
		a.ID,
		a.Email,
		a.PasswordHash,
		a.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AccountsRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	return r.getBy(ctx, "id", id)
}

func (r *AccountsRepo) GetByUsername(ctx context.Context, username string) (accounts.Account, error) {
	return r.getBy(ctx, "username", username)
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	return r.getBy(ctx, "email", email)
}

// Delete: sesiones en cascada, perros quedan con owner_id NULL.
func (r *AccountsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// column viene siempre de este archivo, nunca del cliente.
func (r *AccountsRepo) getBy(ctx context.Context, column, value string) (accounts.Account, error) {
	if strings.TrimSpace(value) == "" {
		return accounts.Account{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM accounts
		WHERE `+column+` = $1
	`, value)

	var a accounts.Account
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return accounts.Account{}, ErrNotFound
		}
		return accounts.Account{}, mapError(err)
	}
	return a, nil
}
