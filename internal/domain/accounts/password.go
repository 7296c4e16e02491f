package accounts

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"dog-kennel/internal/domain/errs"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLen = 8
	maxUsernameLen = 150
	maxEmailLen    = 254
)

// Hasher encapsula bcrypt. Cost configurable para tests (bcrypt.MinCost).
type Hasher struct {
	cost  int
	dummy []byte
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// Hash de relleno para que comparar contra un usuario inexistente cueste lo mismo.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("dog-kennel-dummy-password"), cost)
	return &Hasher{cost: cost, dummy: dummy}
}

func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare compara en tiempo constante. Con hash vacío compara contra el hash de
// relleno y devuelve false.
func (h *Hasher) Compare(hash, plain string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	return err == nil
}

// validatePassword aplica las reglas de registro y cambio de contraseña.
func validatePassword(v *errs.ValidationError, field, password, confirm string) {
	// El mínimo cuenta caracteres; el tope de bcrypt, bytes.
	if utf8.RuneCountInString(password) < MinPasswordLen {
		v.Add(field, "must be at least 8 characters")
	}
	// bcrypt ignora lo que pase de 72 bytes; lo rechazamos en vez de truncar en silencio.
	if len(password) > 72 {
		v.Add(field, "must be at most 72 bytes")
	}
	if password != "" && confirm != "" && password != confirm {
		v.Add(field+"_confirm", "passwords do not match")
	} else if confirm == "" {
		v.Add(field+"_confirm", "is required")
	}
}

func validateUsername(v *errs.ValidationError, username string) {
	if username == "" {
		v.Add("username", "is required")
		return
	}
	if len([]rune(username)) > maxUsernameLen {
		v.Add("username", "must be at most 150 characters")
		return
	}
	for _, r := range username {
		if !isUsernameRune(r) {
			v.Add("username", "may contain only letters, digits and @/./+/-/_")
			return
		}
	}
}

func isUsernameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case strings.ContainsRune("@.+-_", r):
		return true
	}
	return false
}

func validateEmail(v *errs.ValidationError, email string) {
	if email == "" {
		v.Add("email", "is required")
		return
	}
	if len(email) > maxEmailLen {
		v.Add("email", "must be at most 254 characters")
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		v.Add("email", "enter a valid email address")
	}
}

// normalizeEmail baja a minúsculas el dominio, como hace la mayoría de stores de usuarios.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

func conflictToValidation(err error) error {
	if !errors.Is(err, errs.ErrConflict) {
		return err
	}
	field := errs.ConflictField(err)
	switch field {
	case "email":
		return errs.Invalid("email", "this email is already registered")
	default:
		return errs.Invalid("username", "this username is already taken")
	}
}
