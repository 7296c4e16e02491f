package accounts_test

import (
	"context"
	"testing"

	"dog-kennel/internal/adapters/storage/memory"
	"dog-kennel/internal/domain/accounts"
	"dog-kennel/internal/domain/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService() (*accounts.Service, *memory.Store) {
	store := memory.NewStore()
	return accounts.NewService(store.Accounts, accounts.NewHasher(bcrypt.MinCost)), store
}

func register(t *testing.T, svc *accounts.Service, username, email, password string) accounts.Account {
	t.Helper()
	a, err := svc.Register(context.Background(), accounts.RegisterInput{
		Username:        username,
		Email:           email,
		Password:        password,
		PasswordConfirm: password,
	})
	require.NoError(t, err)
	return a
}

func fields(err error) map[string]string {
	out := map[string]string{}
	for _, f := range errs.FieldsOf(err) {
		out[f.Field] = f.Message
	}
	return out
}

func TestRegister(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	a := register(t, svc, "alice", "alice@Example.COM", "correct-horse")
	assert.Equal(t, "alice@example.com", a.Email)
	assert.NotEqual(t, "correct-horse", a.PasswordHash)

	cases := []struct {
		name  string
		in    accounts.RegisterInput
		field string
	}{
		{"duplicate username", accounts.RegisterInput{Username: "alice", Email: "other@example.com", Password: "password1", PasswordConfirm: "password1"}, "username"},
		{"duplicate email", accounts.RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "password1", PasswordConfirm: "password1"}, "email"},
		{"short password", accounts.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "short1", PasswordConfirm: "short1"}, "password"},
		{"short multibyte password", accounts.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "ñññññ", PasswordConfirm: "ñññññ"}, "password"},
		{"mismatch", accounts.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "password1", PasswordConfirm: "password2"}, "password_confirm"},
		{"blank username", accounts.RegisterInput{Username: " ", Email: "bob@example.com", Password: "password1", PasswordConfirm: "password1"}, "username"},
		{"bad email", accounts.RegisterInput{Username: "bob", Email: "not-an-email", Password: "password1", PasswordConfirm: "password1"}, "email"},
		{"bad username chars", accounts.RegisterInput{Username: "bob smith", Email: "bob@example.com", Password: "password1", PasswordConfirm: "password1"}, "username"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Register(ctx, c.in)
			require.ErrorIs(t, err, errs.ErrValidation)
			assert.Contains(t, fields(err), c.field)
		})
	}

	// Ocho caracteres multibyte alcanzan el mínimo.
	_, err := svc.Register(ctx, accounts.RegisterInput{Username: "carlos", Email: "carlos@example.com", Password: "ñandú123", PasswordConfirm: "ñandú123"})
	require.NoError(t, err)

	// Todos los errores juntos.
	_, err = svc.Register(ctx, accounts.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "short1", PasswordConfirm: "other"})
	got := fields(err)
	for _, f := range []string{"username", "email", "password", "password_confirm"} {
		assert.Contains(t, got, f)
	}
}

func TestAuthenticate_SameErrorForUnknownUserAndBadPassword(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	register(t, svc, "alice", "alice@example.com", "correct-horse")

	a, err := svc.Authenticate(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "alice", a.Username)

	_, errBadPassword := svc.Authenticate(ctx, "alice", "wrong-horse")
	_, errUnknown := svc.Authenticate(ctx, "mallory", "correct-horse")

	require.ErrorIs(t, errBadPassword, errs.ErrInvalidCredentials)
	require.ErrorIs(t, errUnknown, errs.ErrInvalidCredentials)
	assert.Equal(t, errBadPassword.Error(), errUnknown.Error())
}

func TestChangePassword(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	a := register(t, svc, "alice", "alice@example.com", "correct-horse")

	err := svc.ChangePassword(ctx, a.ID, "wrong", "new-password", "new-password")
	assert.Contains(t, fields(err), "old_password")

	err = svc.ChangePassword(ctx, a.ID, "correct-horse", "short", "short")
	assert.Contains(t, fields(err), "new_password")

	require.NoError(t, svc.ChangePassword(ctx, a.ID, "correct-horse", "new-password", "new-password"))

	_, err = svc.Authenticate(ctx, "alice", "correct-horse")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "alice", "new-password")
	assert.NoError(t, err)
}

func TestUpdateEmail(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	a := register(t, svc, "alice", "alice@example.com", "correct-horse")
	register(t, svc, "bob", "bob@example.com", "correct-horse")

	_, err := svc.UpdateEmail(ctx, a.ID, "bob@example.com")
	assert.Contains(t, fields(err), "email")

	_, err = svc.UpdateEmail(ctx, a.ID, "nope")
	assert.Contains(t, fields(err), "email")

	got, err := svc.UpdateEmail(ctx, a.ID, "alice@new.example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@new.example.com", got.Email)

	found, err := svc.FindByEmail(ctx, "alice@NEW.example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)
}

func TestDelete(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	a := register(t, svc, "alice", "alice@example.com", "correct-horse")

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err := svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), errs.ErrNotFound)

	_, err = store.Accounts.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestHasher(t *testing.T) {
	h := accounts.NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("password1")
	require.NoError(t, err)
	assert.True(t, h.Compare(hash, "password1"))
	assert.False(t, h.Compare(hash, "password2"))
	assert.False(t, h.Compare("", "password1"))
}
