package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"dog-kennel/internal/domain/dogs"
	"dog-kennel/internal/domain/errs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dogRowColumns = []string{
	"id", "name", "breed_id", "age",
	"description", "image", "owner_id",
	"birth_date", "created_at", "updated_at",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestDogsRepo_SetOwner(t *testing.T) {
	ctx := context.Background()
	claim := regexp.QuoteMeta(`WHERE id = $1 AND (owner_id IS NULL OR owner_id = $2)`)
	exists := regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM dogs WHERE id = $1)`)

	t.Run("claims an unowned dog", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(claim).
			WithArgs("dog-1", "alice", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewDogsRepo(db).SetOwner(ctx, "dog-1", "alice"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("owned by someone else", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(claim).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(exists).WithArgs("dog-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := NewDogsRepo(db).SetOwner(ctx, "dog-1", "bob")
		assert.ErrorIs(t, err, errs.ErrAlreadyOwned)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing dog", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(claim).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(exists).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := NewDogsRepo(db).SetOwner(ctx, "nope", "bob")
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestDogsRepo_ClearOwnerAndDelete_DeniedForNonOwner(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewDogsRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`SET owner_id = NULL`)).
		WithArgs("dog-1", "bob", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM dogs WHERE id = $1 AND owner_id = $2`)).
		WithArgs("dog-1", "bob").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	assert.ErrorIs(t, repo.ClearOwner(ctx, "dog-1", "bob"), errs.ErrPermission)
	assert.ErrorIs(t, repo.Delete(ctx, "dog-1", "bob"), errs.ErrPermission)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDogsRepo_GetByID(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewDogsRepo(db)

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	born := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM dogs d WHERE d.id = \$1`).WithArgs("dog-1").
		WillReturnRows(sqlmock.NewRows(dogRowColumns).
			AddRow("dog-1", "Rex", "breed-1", 3, "", "", nil, born, created, created))
	mock.ExpectQuery(`FROM dogs d WHERE d.id = \$1`).WithArgs("dog-2").
		WillReturnRows(sqlmock.NewRows(dogRowColumns))

	d, err := repo.GetByID(ctx, "dog-1")
	require.NoError(t, err)
	assert.Equal(t, "Rex", d.Name)
	assert.Equal(t, 3, d.Age)
	assert.False(t, d.HasOwner())
	require.NotNil(t, d.BirthDate)
	assert.True(t, d.BirthDate.Equal(born))

	_, err = repo.GetByID(ctx, "dog-2")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = repo.GetByID(ctx, "  ")
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDogsRepo_List_RequeriesOnEachIteration(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewDogsRepo(db)

	now := time.Now().UTC()
	query := regexp.QuoteMeta(`JOIN breeds b ON b.id = d.breed_id WHERE d.owner_id = $1 ORDER BY b.name ASC`)
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(query).WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(dogRowColumns).
				AddRow("d1", "A", "b1", 1, "", "", "alice", nil, now, now).
				AddRow("d2", "B", "b1", 2, "", "", "alice", nil, now, now))
	}

	seq := repo.List(ctx, dogs.ListFilter{OwnerID: "alice", GroupByBreed: true})
	for round := 0; round < 2; round++ {
		var ids []string
		for d, err := range seq {
			require.NoError(t, err)
			assert.Equal(t, "alice", d.OwnerID)
			ids = append(ids, d.ID)
		}
		assert.Equal(t, []string{"d1", "d2"}, ids)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDogsRepo_List_PropagatesQueryError(t *testing.T) {
	db, mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery(`FROM dogs d`).WillReturnError(boom)

	var got error
	for _, err := range NewDogsRepo(db).List(context.Background(), dogs.ListFilter{}) {
		got = err
	}
	assert.ErrorIs(t, got, boom)
}

func TestListDogsQuery(t *testing.T) {
	q, args := listDogsQuery(dogs.ListFilter{BreedID: "b1", OwnerID: "alice"})
	assert.Contains(t, q, "d.breed_id = $1 AND d.owner_id = $2")
	assert.Contains(t, q, "ORDER BY d.created_at ASC")
	assert.NotContains(t, q, "JOIN breeds")
	assert.Equal(t, []any{"b1", "alice"}, args)

	q, args = listDogsQuery(dogs.ListFilter{GroupByBreed: true})
	assert.NotContains(t, q, "WHERE")
	assert.Contains(t, q, "ORDER BY b.name ASC")
	assert.Empty(t, args)
}

func TestDogsRepo_Create_UnknownBreed(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO dogs`).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "dogs_breed_fkey"})

	err := NewDogsRepo(db).Create(context.Background(), dogs.Dog{ID: "d1", Name: "Rex", BreedID: "nope"})
	assert.ErrorIs(t, err, errs.ErrValidation)
	require.Len(t, errs.FieldsOf(err), 1)
	assert.Equal(t, "breed_id", errs.FieldsOf(err)[0].Field)
}

func TestDogsRepo_MalformedID(t *testing.T) {
	ctx := context.Background()
	badUUID := &pgconn.PgError{Code: pgInvalidTextRepresentation}

	t.Run("get", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM dogs d`).WithArgs("abc").WillReturnError(badUUID)

		_, err := NewDogsRepo(db).GetByID(ctx, "abc")
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("claim release delete", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`UPDATE dogs`).WillReturnError(badUUID)
		mock.ExpectExec(`UPDATE dogs`).WillReturnError(badUUID)
		mock.ExpectExec(`DELETE FROM dogs`).WillReturnError(badUUID)

		repo := NewDogsRepo(db)
		assert.ErrorIs(t, repo.SetOwner(ctx, "abc", "alice"), errs.ErrNotFound)
		assert.ErrorIs(t, repo.ClearOwner(ctx, "abc", "alice"), errs.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "abc", "alice"), errs.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list filter matches nothing", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM dogs d`).WithArgs("abc").WillReturnError(badUUID)

		count := 0
		for _, err := range NewDogsRepo(db).List(ctx, dogs.ListFilter{BreedID: "abc"}) {
			require.NoError(t, err)
			count++
		}
		assert.Zero(t, count)
	})
}
