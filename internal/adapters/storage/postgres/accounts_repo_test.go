package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"dog-kennel/internal/domain/accounts"
	"dog-kennel/internal/domain/auth"
	"dog-kennel/internal/domain/breeds"
	"dog-kennel/internal/domain/errs"
	"dog-kennel/internal/domain/notifications"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountsRepo_Create_MapsUniqueViolations(t *testing.T) {
	cases := map[string]string{
		"accounts_username_key": "username",
		"accounts_email_key":    "email",
	}
	for constraint, field := range cases {
		t.Run(field, func(t *testing.T) {
			db, mock := newMock(t)
			mock.ExpectExec(`INSERT INTO accounts`).
				WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraint})

			err := NewAccountsRepo(db).Create(context.Background(), accounts.Account{ID: "a1", Username: "alice"})
			assert.ErrorIs(t, err, errs.ErrConflict)
			assert.Equal(t, field, errs.ConflictField(err))
		})
	}
}

func TestAccountsRepo_GetByEmail(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	cols := []string{"id", "username", "email", "password_hash", "created_at", "updated_at"}

	mock.ExpectQuery(`WHERE email = \$1`).WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("a1", "alice", "alice@example.com", "$2a$hash", now, now))
	mock.ExpectQuery(`WHERE email = \$1`).WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(cols))

	repo := NewAccountsRepo(db)
	a, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", a.Username)

	_, err = repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreedsRepo_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM breeds`).WithArgs("b1").WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewBreedsRepo(db).Delete(context.Background(), "b1")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSessionsRepo_EndAllForAccount(t *testing.T) {
	db, mock := newMock(t)
	at := time.Now().UTC()
	mock.ExpectExec(`WHERE account_id = \$1 AND ended_at IS NULL`).
		WithArgs("a1", at).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewSessionsRepo(db).EndAllForAccount(context.Background(), "a1", at)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSessionsRepo_GetByID_EndedSession(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(`FROM sessions`).WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "created_at", "expires_at", "ended_at"}).
			AddRow("s1", "a1", now, now.Add(time.Hour), now))

	s, err := NewSessionsRepo(db).GetByID(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, s.EndedAt)
	assert.False(t, s.ActiveAt(now))
	var _ auth.SessionRepository = (*SessionsRepo)(nil)
}

func TestNotificationsRepo_MarkAttemptFailed(t *testing.T) {
	db, mock := newMock(t)
	at := time.Now().UTC()

	mock.ExpectExec(`UPDATE notifications`).
		WithArgs("n1", string(notifications.StatusPending), "smtp down", at, false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE notifications`).
		WithArgs("n1", string(notifications.StatusFailed), "smtp down", at, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewNotificationsRepo(db)
	require.NoError(t, repo.MarkAttemptFailed(context.Background(), "n1", "smtp down", false, at))
	require.NoError(t, repo.MarkAttemptFailed(context.Background(), "n1", "smtp down", true, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationsRepo_MarkSent_ClearsBody(t *testing.T) {
	db, mock := newMock(t)
	at := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta(`body = ''`)).
		WithArgs("n1", string(notifications.StatusSent), at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewNotificationsRepo(db).MarkSent(context.Background(), "n1", at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepos_MalformedIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	badUUID := &pgconn.PgError{Code: pgInvalidTextRepresentation, Message: `invalid input syntax for type uuid: "abc"`}

	t.Run("breed", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM breeds`).WithArgs("abc").WillReturnError(badUUID)
		mock.ExpectQuery(`FROM breeds`).WithArgs("abc").WillReturnError(badUUID)

		repo := NewBreedsRepo(db)
		_, err := repo.GetByID(ctx, "abc")
		assert.ErrorIs(t, err, errs.ErrNotFound)

		// Un breed_id mal formado al crear un perro es "raza desconocida", no un 500.
		ok, err := breeds.NewLookup(repo).Exists(ctx, "abc")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("account", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM accounts`).WithArgs("abc").WillReturnError(badUUID)
		mock.ExpectExec(`DELETE FROM accounts`).WithArgs("abc").WillReturnError(badUUID)

		repo := NewAccountsRepo(db)
		_, err := repo.GetByID(ctx, "abc")
		assert.ErrorIs(t, err, errs.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "abc"), errs.ErrNotFound)
	})

	t.Run("session", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM sessions`).WithArgs("abc").WillReturnError(badUUID)
		mock.ExpectExec(`UPDATE sessions`).WillReturnError(badUUID)

		repo := NewSessionsRepo(db)
		_, err := repo.GetByID(ctx, "abc")
		assert.ErrorIs(t, err, errs.ErrNotFound)
		assert.NoError(t, repo.End(ctx, "abc", time.Now()))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM breeds`).WillReturnError(&pgconn.PgError{Code: "57014"})

		_, err := NewBreedsRepo(db).GetByID(ctx, "abc")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, errs.ErrNotFound)
	})
}
