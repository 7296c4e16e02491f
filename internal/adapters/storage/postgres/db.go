package postgres

import (
	"context"
	"database/sql"
	"time"

	"dog-kennel/internal/domain/errs"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	ErrNotFound = errs.ErrNotFound
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Store agrupa los repos Postgres sobre un mismo pool.
type Store struct {
	Dogs          *DogsRepo
	Breeds        *BreedsRepo
	Accounts      *AccountsRepo
	Sessions      *SessionsRepo
	Notifications *NotificationsRepo
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		Dogs:          NewDogsRepo(db),
		Breeds:        NewBreedsRepo(db),
		Accounts:      NewAccountsRepo(db),
		Sessions:      NewSessionsRepo(db),
		Notifications: NewNotificationsRepo(db),
	}
}
