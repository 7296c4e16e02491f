package mail

import (
	"fmt"
	"strings"
	"time"

	"dog-kennel/internal/platform/logger"
	"dog-kennel/internal/ports/notify"
)

const (
	DriverLog     = "log"
	DriverSMTP    = "smtp"
	DriverWebhook = "webhook"
)

type Config struct {
	Driver string

	SMTP SMTPConfig

	WebhookURL   string
	WebhookToken string
	Timeout      time.Duration
}

// NewTransport arma el transport configurado. Driver vacío => log.
func NewTransport(cfg Config, log logger.Logger) (notify.Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverLog:
		return NewLog(log), nil
	case DriverSMTP:
		return NewSMTP(cfg.SMTP)
	case DriverWebhook:
		return NewWebhook(cfg.WebhookURL, cfg.WebhookToken, cfg.Timeout)
	default:
		return nil, fmt.Errorf("mail: unknown driver %q", cfg.Driver)
	}
}
