package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const Prefix = "KENNEL_"

type Config struct {
	HTTP    HTTP    `envPrefix:"HTTP_"`
	Logger  Logger  `envPrefix:"LOG_"`
	Storage Storage `envPrefix:"STORAGE_"`
	Auth    Auth    `envPrefix:"AUTH_"`
	Mail    Mail    `envPrefix:"MAIL_"`
	Admin   Admin   `envPrefix:"ADMIN_"`
}

type HTTP struct {
	Address         string        `env:"ADDRESS" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// SessionKeys: pares hash/encryption para la cookie de sesión, separados por coma.
	SessionKeys   []string `env:"SESSION_KEYS" envSeparator:","`
	SecureCookies bool     `env:"SECURE_COOKIES" envDefault:"false"`

	// TrustProxy toma la IP del cliente de X-Forwarded-For/X-Real-IP.
	// Sólo detrás de un proxy que pise esos headers.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`
}

type Logger struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

type Storage struct {
	// DSN vacío => stores en memoria.
	DSN         string `env:"DSN"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type Auth struct {
	TokenSecret           string        `env:"TOKEN_SECRET"`
	SessionTTL            time.Duration `env:"SESSION_TTL" envDefault:"336h"`
	BcryptCost            int           `env:"BCRYPT_COST" envDefault:"10"`
	RevokeSessionsOnReset bool          `env:"REVOKE_SESSIONS_ON_RESET" envDefault:"false"`

	// Límite por IP sobre /auth/*. 0 lo deshabilita.
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"1"`
	RateBurst int     `env:"RATE_BURST" envDefault:"5"`
}

type Mail struct {
	Driver   string `env:"DRIVER" envDefault:"log"`
	From     string `env:"FROM" envDefault:"kennel@localhost"`
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	SSL      bool   `env:"SMTP_SSL" envDefault:"false"`

	WebhookURL   string        `env:"WEBHOOK_URL"`
	WebhookToken string        `env:"WEBHOOK_TOKEN"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"15s"`

	// Outbox
	Schedule    string `env:"SCHEDULE" envDefault:"@every 10s"`
	MaxAttempts int    `env:"MAX_ATTEMPTS" envDefault:"5"`
	BatchSize   int    `env:"BATCH_SIZE" envDefault:"50"`
}

type Admin struct {
	// Token vacío deshabilita las rutas de administración.
	Token string `env:"TOKEN"`
}

// Load lee la configuración de las variables KENNEL_*.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom lee de un mapa en lugar del entorno (tests).
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []error
	if strings.TrimSpace(c.Auth.TokenSecret) == "" {
		problems = append(problems, errors.New("KENNEL_AUTH_TOKEN_SECRET is required"))
	}
	if c.Auth.SessionTTL <= 0 {
		problems = append(problems, errors.New("KENNEL_AUTH_SESSION_TTL must be positive"))
	}
	if c.Mail.MaxAttempts < 1 {
		problems = append(problems, errors.New("KENNEL_MAIL_MAX_ATTEMPTS must be at least 1"))
	}
	// Keys en pares: hash (>= 16 bytes), encryption (AES: 16, 24 o 32 bytes).
	for i, k := range c.HTTP.SessionKeys {
		n := len(k)
		if i%2 == 0 && n < 16 {
			problems = append(problems, fmt.Errorf("KENNEL_HTTP_SESSION_KEYS: hash key %d has %d bytes, want at least 16", i, n))
		}
		if i%2 == 1 && n != 16 && n != 24 && n != 32 {
			problems = append(problems, fmt.Errorf("KENNEL_HTTP_SESSION_KEYS: encryption key %d has %d bytes, want 16, 24 or 32", i, n))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: %w", errors.Join(problems...))
	}
	return nil
}

// CookieKeys devuelve las keys de la cookie; sin keys configuradas deriva una del secreto de tokens.
func (c Config) CookieKeys() [][]byte {
	if len(c.HTTP.SessionKeys) == 0 {
		return [][]byte{[]byte(c.Auth.TokenSecret)}
	}
	out := make([][]byte, 0, len(c.HTTP.SessionKeys))
	for _, k := range c.HTTP.SessionKeys {
		out = append(out, []byte(k))
	}
	return out
}
