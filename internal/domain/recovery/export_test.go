package recovery

// SetGenerator reemplaza el generador de contraseñas temporales en tests.
func (s *Service) SetGenerator(gen func() (string, error)) { s.generate = gen }
