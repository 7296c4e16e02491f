package auth

import "time"

// SetClock fija el reloj del servicio en tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }
