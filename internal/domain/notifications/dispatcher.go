package notifications

import (
	"context"
	"errors"
	"time"

	"dog-kennel/internal/platform/logger"
	"dog-kennel/internal/platform/metrics"
	"dog-kennel/internal/ports/notify"
)

const (
	DefaultMaxAttempts = 5
	DefaultBatchSize   = 50
)

type DispatcherOptions struct {
	MaxAttempts int
	BatchSize   int
}

// Dispatcher drena el outbox a través de un transporte (SMTP, webhook, log).
// No es seguro correr dos Dispatchers sobre el mismo store a la vez: el scheduler
// usa SkipIfStillRunning y hay un único proceso despachando.
type Dispatcher struct {
	repo        Repository
	transport   notify.Notifier
	log         logger.Logger
	maxAttempts int
	batchSize   int
	now         func() time.Time
}

// RunResult resume una pasada del dispatcher.
type RunResult struct {
	Sent    int
	Retried int
	Failed  int
}

func NewDispatcher(repo Repository, transport notify.Notifier, log logger.Logger, opts DispatcherOptions) *Dispatcher {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{
		repo:        repo,
		transport:   transport,
		log:         log.With(map[string]any{"component": "outbox"}),
		maxAttempts: opts.MaxAttempts,
		batchSize:   opts.BatchSize,
		now:         time.Now,
	}
}

// Run entrega un lote de mensajes pendientes.
func (d *Dispatcher) Run(ctx context.Context) (RunResult, error) {
	var res RunResult

	pending, err := d.repo.ListPending(ctx, d.batchSize)
	if err != nil {
		return res, err
	}

	for _, n := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		sendErr := d.transport.Send(ctx, notify.Message{
			To:      n.Recipient,
			Subject: n.Subject,
			Body:    n.Body,
		})
		if sendErr == nil {
			if err := d.repo.MarkSent(ctx, n.ID, d.now()); err != nil {
				// Se reenviará en la próxima pasada (at-least-once).
				d.log.Error("mark notification sent failed", map[string]any{"notification_id": n.ID, "err": err})
				continue
			}
			res.Sent++
			metrics.Notifications.WithLabelValues(metrics.ResultSuccess).Inc()
			continue
		}

		final := n.Attempts+1 >= d.maxAttempts || permanent(sendErr)
		if err := d.repo.MarkAttemptFailed(ctx, n.ID, sendErr.Error(), final, d.now()); err != nil {
			d.log.Error("mark notification attempt failed", map[string]any{"notification_id": n.ID, "err": err})
			continue
		}

		fields := map[string]any{
			"notification_id": n.ID,
			"attempt":         n.Attempts + 1,
			"err":             sendErr,
		}
		if final {
			res.Failed++
			metrics.Notifications.WithLabelValues(metrics.ResultFailed).Inc()
			d.log.Error("notification gave up", fields)
		} else {
			res.Retried++
			metrics.Notifications.WithLabelValues(metrics.ResultRetry).Inc()
			d.log.Warn("notification delivery failed, will retry", fields)
		}
	}

	return res, nil
}

// permanent: el transporte avisa que reintentar no cambia nada (p. ej. un 4xx del relay).
func permanent(err error) bool {
	var t interface{ Temporary() bool }
	return errors.As(err, &t) && !t.Temporary()
}

// Job adapta Run a la firma de robfig/cron (cron.FuncJob).
func (d *Dispatcher) Job(ctx context.Context) func() {
	return func() {
		res, err := d.Run(ctx)
		if err != nil {
			d.log.Error("outbox run failed", map[string]any{"err": err})
			return
		}
		if res.Sent+res.Retried+res.Failed > 0 {
			d.log.Info("outbox run", map[string]any{"sent": res.Sent, "retried": res.Retried, "failed": res.Failed})
		}
	}
}
