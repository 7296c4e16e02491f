package memory

// Store agrupa los repos en memoria ya cableados entre sí (cascadas incluidas).
type Store struct {
	Dogs          *DogRepo
	Breeds        *BreedRepo
	Accounts      *AccountRepo
	Sessions      *SessionRepo
	Notifications *NotificationRepo
}

func NewStore() *Store {
	dogs := NewDogRepo()
	breeds := NewBreedRepo(dogs)
	dogs.breeds = breeds
	sessions := NewSessionRepo()
	return &Store{
		Dogs:          dogs,
		Breeds:        breeds,
		Accounts:      NewAccountRepo(dogs, sessions),
		Sessions:      sessions,
		Notifications: NewNotificationRepo(),
	}
}
