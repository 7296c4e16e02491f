package router

import (
	"database/sql"

	mem "dog-kennel/internal/adapters/storage/memory"
	pg "dog-kennel/internal/adapters/storage/postgres"
	"dog-kennel/internal/domain/accounts"
	"dog-kennel/internal/domain/auth"
	"dog-kennel/internal/domain/breeds"
	"dog-kennel/internal/domain/dogs"
	"dog-kennel/internal/domain/notifications"
)

// Repositories es el conjunto de stores que consume el router.
type Repositories struct {
	Dogs          dogs.Repository
	Breeds        breeds.Repository
	Accounts      accounts.Repository
	Sessions      auth.SessionRepository
	Notifications notifications.Repository
}

func MemoryRepositories() *Repositories {
	s := mem.NewStore()
	return &Repositories{
		Dogs:          s.Dogs,
		Breeds:        s.Breeds,
		Accounts:      s.Accounts,
		Sessions:      s.Sessions,
		Notifications: s.Notifications,
	}
}

// PostgresRepositories: las cascadas las resuelven las FKs del schema.
func PostgresRepositories(db *sql.DB) *Repositories {
	s := pg.NewStore(db)
	return &Repositories{
		Dogs:          s.Dogs,
		Breeds:        s.Breeds,
		Accounts:      s.Accounts,
		Sessions:      s.Sessions,
		Notifications: s.Notifications,
	}
}
