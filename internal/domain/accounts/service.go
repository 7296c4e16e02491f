package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"dog-kennel/internal/domain/errs"

	"github.com/google/uuid"
)

type Service struct {
	repo   Repository
	hasher *Hasher
	now    func() time.Time
}

func NewService(repo Repository, hasher *Hasher) *Service {
	if hasher == nil {
		hasher = NewHasher(0)
	}
	return &Service{
		repo:   repo,
		hasher: hasher,
		now:    time.Now,
	}
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// Register valida el formulario completo y crea la cuenta con la contraseña hasheada.
// Todos los errores de campo se devuelven juntos en un *errs.ValidationError.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Account, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)

	v := &errs.ValidationError{}
	validateUsername(v, username)
	validateEmail(v, email)
	validatePassword(v, "password", in.Password, in.PasswordConfirm)

	if !v.Has("username") {
		taken, err := s.exists(ctx, s.repo.GetByUsername, username)
		if err != nil {
			return Account{}, err
		}
		if taken {
			v.Add("username", "this username is already taken")
		}
	}
	if !v.Has("email") {
		taken, err := s.exists(ctx, s.repo.GetByEmail, email)
		if err != nil {
			return Account{}, err
		}
		if taken {
			v.Add("email", "this email is already registered")
		}
	}
	if err := v.Err(); err != nil {
		return Account{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return Account{}, err
	}

	now := s.now()
	a := Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// La unicidad la garantiza el store; el chequeo previo sólo da mejores mensajes.
	if err := s.repo.Create(ctx, a); err != nil {
		return Account{}, conflictToValidation(err)
	}
	return a, nil
}

// Authenticate devuelve errs.ErrInvalidCredentials tanto si el usuario no existe
// como si la contraseña no coincide, y en ambos casos hace una comparación bcrypt.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Account, error) {
	username = strings.TrimSpace(username)

	a, err := s.repo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return Account{}, err
	}

	if !s.hasher.Compare(a.PasswordHash, password) {
		return Account{}, errs.ErrInvalidCredentials
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Account{}, errs.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (Account, error) {
	email = normalizeEmail(email)
	if email == "" {
		return Account{}, errs.ErrNotFound
	}
	return s.repo.GetByEmail(ctx, email)
}

// UpdateEmail cambia el email de la cuenta (editar perfil).
func (s *Service) UpdateEmail(ctx context.Context, id, email string) (Account, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return Account{}, err
	}

	email = normalizeEmail(email)
	v := &errs.ValidationError{}
	validateEmail(v, email)
	if err := v.Err(); err != nil {
		return Account{}, err
	}
	if email == a.Email {
		return a, nil
	}

	other, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil && other.ID != a.ID:
		return Account{}, errs.Invalid("email", "this email is already registered")
	case err != nil && !errors.Is(err, errs.ErrNotFound):
		return Account{}, err
	}

	a.Email = email
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Account{}, conflictToValidation(err)
	}
	return a, nil
}

// ChangePassword exige la contraseña actual y aplica las mismas reglas que el registro.
func (s *Service) ChangePassword(ctx context.Context, id, oldPassword, newPassword, confirm string) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	v := &errs.ValidationError{}
	if !s.hasher.Compare(a.PasswordHash, oldPassword) {
		v.Add("old_password", "your old password was entered incorrectly")
	}
	validatePassword(v, "new_password", newPassword, confirm)
	if err := v.Err(); err != nil {
		return err
	}

	return s.setPassword(ctx, a, newPassword)
}

// ResetPassword sobrescribe la contraseña sin pedir la anterior (recuperación).
func (s *Service) ResetPassword(ctx context.Context, id, newPassword string) error {
	if newPassword == "" {
		return errs.Invalid("password", "is required")
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, a, newPassword)
}

// Delete es una operación administrativa; el store libera los perros de la cuenta.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errs.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) setPassword(ctx context.Context, a Account, plain string) error {
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	a.UpdatedAt = s.now()
	return s.repo.Update(ctx, a)
}

func (s *Service) exists(ctx context.Context, get func(context.Context, string) (Account, error), key string) (bool, error) {
	_, err := get(ctx, key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	return false, err
}
