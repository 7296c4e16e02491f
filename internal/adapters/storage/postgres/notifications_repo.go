package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"dog-kennel/internal/domain/notifications"
)

const notificationColumns = `
	id, recipient, subject, body,
	status, attempts, last_error,
	created_at, updated_at`

type NotificationsRepo struct {
	db *sql.DB
}

func NewNotificationsRepo(db *sql.DB) *NotificationsRepo {
	return &NotificationsRepo{db: db}
}

func (r *NotificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		n.ID,
		n.Recipient,
		n.Subject,
		n.Body,
		string(n.Status),
		n.Attempts,
		n.LastError,
		n.CreatedAt,
		n.UpdatedAt,
	)
	return err
}

func (r *NotificationsRepo) GetByID(ctx context.Context, id string) (notifications.Notification, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return notifications.Notification{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return notifications.Notification{}, ErrNotFound
		}
		return notifications.Notification{}, mapError(err)
	}
	return n, nil
}

func (r *NotificationsRepo) ListPending(ctx context.Context, limit int) ([]notifications.Notification, error) {
	// LIMIT NULL es "sin límite" en Postgres.
	var lim any
	if limit > 0 {
		lim = limit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`, string(notifications.StatusPending), lim)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notifications.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkSent vacía el cuerpo: puede llevar la contraseña de recuperación en claro.
func (r *NotificationsRepo) MarkSent(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET status = $2, attempts = attempts + 1, last_error = '', body = '', updated_at = $3
		WHERE id = $1
	`, id, string(notifications.StatusSent), at)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationsRepo) MarkAttemptFailed(ctx context.Context, id string, lastErr string, final bool, at time.Time) error {
	status := notifications.StatusPending
	if final {
		status = notifications.StatusFailed
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET status = $2, attempts = attempts + 1, last_error = $3, updated_at = $4,
			body = CASE WHEN $5 THEN '' ELSE body END
		WHERE id = $1
	`, id, string(status), lastErr, at, final)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanNotification(s rowScanner) (notifications.Notification, error) {
	var (
		n      notifications.Notification
		status string
	)
	if err := s.Scan(
		&n.ID,
		&n.Recipient,
		&n.Subject,
		&n.Body,
		&status,
		&n.Attempts,
		&n.LastError,
		&n.CreatedAt,
		&n.UpdatedAt,
	); err != nil {
		return notifications.Notification{}, err
	}
	n.Status = notifications.Status(status)
	return n, nil
}
