package mail

import (
	"context"

	"dog-kennel/internal/platform/logger"
	"dog-kennel/internal/ports/notify"
)

// Log no manda nada: deja el mensaje en el log. Para desarrollo.
// El cuerpo nunca se loguea (puede llevar la contraseña de recuperación), sólo su largo.
type Log struct {
	log logger.Logger
}

func NewLog(log logger.Logger) *Log {
	if log == nil {
		log = logger.NewNop()
	}
	return &Log{log: log.With(map[string]any{"component": "mail"})}
}

func (l *Log) Send(ctx context.Context, msg notify.Message) error {
	l.log.Info("mail delivered to log", map[string]any{
		"to":         msg.To,
		"subject":    msg.Subject,
		"body_bytes": len(msg.Body),
	})
	return nil
}
