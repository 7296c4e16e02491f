package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dog-kennel/internal/domain/accounts"
	"dog-kennel/internal/domain/errs"
	"dog-kennel/internal/platform/logger"
	authport "dog-kennel/internal/ports/auth"
	"dog-kennel/internal/ports/notify"

	"github.com/google/uuid"
)

const DefaultSessionTTL = 14 * 24 * time.Hour

var ErrMissingSecret = errors.New("auth: token secret is required")

type Options struct {
	// Secret firma los tokens de sesión (HS256).
	Secret     []byte
	SessionTTL time.Duration
}

type Service struct {
	accounts *accounts.Service
	sessions SessionRepository
	notifier notify.Notifier
	log      logger.Logger
	signer   signer
	ttl      time.Duration
	now      func() time.Time
}

func NewService(accts *accounts.Service, sessions SessionRepository, notifier notify.Notifier, log logger.Logger, opts Options) (*Service, error) {
	if len(opts.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		accounts: accts,
		sessions: sessions,
		notifier: notifier,
		log:      log.With(map[string]any{"component": "auth"}),
		signer:   signer{secret: opts.Secret},
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// Register crea la cuenta, manda el correo de bienvenida y deja al cliente autenticado.
// Si el correo falla se loguea: la cuenta ya quedó creada y la sesión se abre igual.
func (s *Service) Register(ctx context.Context, in accounts.RegisterInput) (accounts.Account, Result, error) {
	a, err := s.accounts.Register(ctx, in)
	if err != nil {
		return accounts.Account{}, Result{}, err
	}

	s.sendWelcome(ctx, a)

	res, err := s.open(ctx, a.ID)
	if err != nil {
		return accounts.Account{}, Result{}, err
	}
	return a, res, nil
}

// Login abre una sesión. Usuario inexistente y contraseña incorrecta devuelven
// exactamente el mismo error.
func (s *Service) Login(ctx context.Context, username, password string) (accounts.Account, Result, error) {
	a, err := s.accounts.Authenticate(ctx, username, password)
	if err != nil {
		return accounts.Account{}, Result{}, err
	}

	res, err := s.open(ctx, a.ID)
	if err != nil {
		return accounts.Account{}, Result{}, err
	}
	return a, res, nil
}

// Logout termina la sesión sin condiciones; es terminal e idempotente.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	return s.sessions.End(ctx, sessionID, s.now())
}

// Verify implementa ports/auth.AuthVerifier: el token vale mientras su sesión siga activa.
func (s *Service) Verify(ctx context.Context, token string) (authport.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return authport.Claims{}, errs.ErrInvalidCredentials
	}

	claims, err := s.signer.parse(token, s.now)
	if err != nil {
		return authport.Claims{}, err
	}

	sess, err := s.sessions.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return authport.Claims{}, errs.ErrInvalidCredentials
		}
		return authport.Claims{}, err
	}
	if sess.AccountID != claims.Subject || !sess.ActiveAt(s.now()) {
		return authport.Claims{}, errs.ErrInvalidCredentials
	}

	return authport.Claims{UserID: sess.AccountID, SessionID: sess.ID}, nil
}

// RevokeAll termina todas las sesiones abiertas de una cuenta.
func (s *Service) RevokeAll(ctx context.Context, accountID string) (int, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return 0, nil
	}
	return s.sessions.EndAllForAccount(ctx, accountID, s.now())
}

func (s *Service) open(ctx context.Context, accountID string) (Result, error) {
	now := s.now()
	sess := Session{
		ID:        uuid.NewString(),
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return Result{}, fmt.Errorf("create session: %w", err)
	}

	token, err := s.signer.sign(sess)
	if err != nil {
		return Result{}, fmt.Errorf("sign session token: %w", err)
	}
	return Result{Session: sess, Token: token}, nil
}

func (s *Service) sendWelcome(ctx context.Context, a accounts.Account) {
	if s.notifier == nil {
		return
	}
	msg := notify.Message{
		To:      a.Email,
		Subject: "Welcome to the kennel!",
		Body:    fmt.Sprintf("Hello, %s!\n\nThank you for registering with our kennel.", a.Username),
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.log.Warn("welcome notification failed", map[string]any{
			"account_id": a.ID,
			"err":        err,
		})
	}
}
