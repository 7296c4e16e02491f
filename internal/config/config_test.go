package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"KENNEL_AUTH_TOKEN_SECRET": "dev-secret",
	})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 336*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "log", cfg.Mail.Driver)
	assert.Equal(t, "@every 10s", cfg.Mail.Schedule)
	assert.Equal(t, 5, cfg.Mail.MaxAttempts)
	assert.Empty(t, cfg.Storage.DSN)
	assert.True(t, cfg.Storage.AutoMigrate)
	assert.Empty(t, cfg.Admin.Token)
	assert.False(t, cfg.HTTP.TrustProxy)
	assert.Equal(t, [][]byte{[]byte("dev-secret")}, cfg.CookieKeys())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"KENNEL_AUTH_TOKEN_SECRET":             "s",
		"KENNEL_HTTP_ADDRESS":                  ":9090",
		"KENNEL_HTTP_TRUST_PROXY":              "true",
		"KENNEL_HTTP_SESSION_KEYS":             "0123456789abcdef0123456789abcdef,0123456789abcdef",
		"KENNEL_LOG_FORMAT":                    "json",
		"KENNEL_STORAGE_DSN":                   "postgres://kennel@localhost/kennel",
		"KENNEL_AUTH_REVOKE_SESSIONS_ON_RESET": "true",
		"KENNEL_AUTH_RATE_LIMIT":               "0.5",
		"KENNEL_MAIL_DRIVER":                   "smtp",
		"KENNEL_MAIL_SMTP_HOST":                "smtp.example.com",
		"KENNEL_MAIL_SMTP_PORT":                "465",
		"KENNEL_MAIL_SMTP_SSL":                 "true",
		"KENNEL_ADMIN_TOKEN":                   "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.True(t, cfg.HTTP.TrustProxy)
	assert.Len(t, cfg.CookieKeys(), 2)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "postgres://kennel@localhost/kennel", cfg.Storage.DSN)
	assert.True(t, cfg.Auth.RevokeSessionsOnReset)
	assert.InDelta(t, 0.5, cfg.Auth.RateLimit, 1e-9)
	assert.Equal(t, 465, cfg.Mail.Port)
	assert.True(t, cfg.Mail.SSL)
	assert.Equal(t, "admin", cfg.Admin.Token)
}

func TestLoadFrom_Invalid(t *testing.T) {
	_, err := LoadFrom(map[string]string{})
	assert.ErrorContains(t, err, "KENNEL_AUTH_TOKEN_SECRET")

	_, err = LoadFrom(map[string]string{
		"KENNEL_AUTH_TOKEN_SECRET": "s",
		"KENNEL_HTTP_SESSION_KEYS": "short",
	})
	assert.ErrorContains(t, err, "SESSION_KEYS")

	_, err = LoadFrom(map[string]string{
		"KENNEL_AUTH_TOKEN_SECRET": "s",
		"KENNEL_MAIL_SMTP_PORT":    "not-a-number",
	})
	assert.Error(t, err)
}
