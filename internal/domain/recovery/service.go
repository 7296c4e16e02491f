package recovery

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"dog-kennel/internal/domain/accounts"
	"dog-kennel/internal/platform/logger"
	"dog-kennel/internal/ports/notify"
)

// credentialBytes: entropía de la contraseña temporal (base64url sin padding => 22 chars).
const credentialBytes = 16

// SessionRevoker termina las sesiones abiertas de una cuenta (auth.Service).
type SessionRevoker interface {
	RevokeAll(ctx context.Context, accountID string) (int, error)
}

type Options struct {
	// RevokeSessions termina las sesiones abiertas de la cuenta al resetear.
	// Por defecto las sesiones existentes siguen vivas.
	RevokeSessions bool
}

type Service struct {
	accounts *accounts.Service
	notifier notify.Notifier
	sessions SessionRevoker
	log      logger.Logger
	opts     Options

	generate func() (string, error)
}

func NewService(accts *accounts.Service, notifier notify.Notifier, sessions SessionRevoker, log logger.Logger, opts Options) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		accounts: accts,
		notifier: notifier,
		sessions: sessions,
		log:      log.With(map[string]any{"component": "recovery"}),
		opts:     opts,
		generate: GenerateCredential,
	}
}

// RequestReset busca la cuenta por email, le asigna una contraseña aleatoria y se
// la manda por correo. Devuelve errs.ErrNotFound si el email no existe.
// El cambio de contraseña no se deshace si el envío falla.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	a, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	credential, err := s.generate()
	if err != nil {
		return fmt.Errorf("generate credential: %w", err)
	}

	if err := s.accounts.ResetPassword(ctx, a.ID, credential); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	if s.opts.RevokeSessions && s.sessions != nil {
		n, err := s.sessions.RevokeAll(ctx, a.ID)
		if err != nil {
			s.log.Warn("revoke sessions after reset failed", map[string]any{"account_id": a.ID, "err": err})
		} else {
			s.log.Info("sessions revoked after reset", map[string]any{"account_id": a.ID, "count": n})
		}
	}

	msg := notify.Message{
		To:      a.Email,
		Subject: "Password reset",
		Body: fmt.Sprintf(
			"Hello, %s!\n\nYour password has been reset. Your new password is:\n\n%s\n\nPlease change it after logging in.",
			a.Username, credential,
		),
	}
	if s.notifier == nil {
		s.log.Warn("no notifier configured, reset credential not delivered", map[string]any{"account_id": a.ID})
		return nil
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.log.Error("reset notification failed", map[string]any{"account_id": a.ID, "err": err})
	}
	return nil
}

// GenerateCredential devuelve 16 bytes de crypto/rand en base64url.
func GenerateCredential() (string, error) {
	b := make([]byte, credentialBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
