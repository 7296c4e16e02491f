package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"dog-kennel/internal/domain/auth"
)

type SessionsRepo struct {
	db *sql.DB
}

func NewSessionsRepo(db *sql.DB) *SessionsRepo {
	return &SessionsRepo{db: db}
}

func (r *SessionsRepo) Create(ctx context.Context, s auth.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, account_id, created_at, expires_at, ended_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		s.ID,
		s.AccountID,
		s.CreatedAt,
		s.ExpiresAt,
		toNullTime(s.EndedAt),
	)
	return mapError(err)
}

func (r *SessionsRepo) GetByID(ctx context.Context, id string) (auth.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return auth.Session{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, created_at, expires_at, ended_at
		FROM sessions
		WHERE id = $1
	`, id)

	var (
		s     auth.Session
		ended sql.NullTime
	)
	if err := row.Scan(&s.ID, &s.AccountID, &s.CreatedAt, &s.ExpiresAt, &ended); err != nil {
		if err == sql.ErrNoRows {
			return auth.Session{}, ErrNotFound
		}
		return auth.Session{}, mapError(err)
	}
	if ended.Valid {
		t := ended.Time
		s.EndedAt = &t
	}
	return s, nil
}

// End no pisa ended_at si ya estaba terminada.
func (r *SessionsRepo) End(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET ended_at = $2
		WHERE id = $1 AND ended_at IS NULL
	`, id, at)
	if isNotFound(err) {
		return nil
	}
	return err
}

func (r *SessionsRepo) EndAllForAccount(ctx context.Context, accountID string, at time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET ended_at = $2
		WHERE account_id = $1 AND ended_at IS NULL
	`, accountID, at)
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
