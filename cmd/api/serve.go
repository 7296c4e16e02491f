package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dog-kennel/internal/adapters/mail"
	pg "dog-kennel/internal/adapters/storage/postgres"
	"dog-kennel/internal/config"
	"dog-kennel/internal/domain/notifications"
	"dog-kennel/internal/middleware"
	"dog-kennel/internal/platform/logger"
	"dog-kennel/internal/router"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and the outbox dispatcher",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, log logger.Logger) error {
	repos := router.MemoryRepositories()
	if cfg.Storage.DSN != "" {
		db, err := openDB(cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()
		repos = router.PostgresRepositories(db)
	} else {
		log.Warn("KENNEL_STORAGE_DSN not set, using in-memory storage", nil)
	}

	transport, err := mail.NewTransport(mail.Config{
		Driver: cfg.Mail.Driver,
		SMTP: mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			SSL:      cfg.Mail.SSL,
			Timeout:  cfg.Mail.Timeout,
		},
		WebhookURL:   cfg.Mail.WebhookURL,
		WebhookToken: cfg.Mail.WebhookToken,
		Timeout:      cfg.Mail.Timeout,
	}, log)
	if err != nil {
		return err
	}

	dispatcher := notifications.NewDispatcher(repos.Notifications, transport, log, notifications.DispatcherOptions{
		MaxAttempts: cfg.Mail.MaxAttempts,
		BatchSize:   cfg.Mail.BatchSize,
	})
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{log: log})))
	if _, err := scheduler.AddFunc(cfg.Mail.Schedule, dispatcher.Job(ctx)); err != nil {
		return fmt.Errorf("outbox schedule %q: %w", cfg.Mail.Schedule, err)
	}

	h, err := router.NewRouter(router.Options{
		Logger:                log,
		Repos:                 repos,
		TokenSecret:           []byte(cfg.Auth.TokenSecret),
		SessionTTL:            cfg.Auth.SessionTTL,
		BcryptCost:            cfg.Auth.BcryptCost,
		RevokeSessionsOnReset: cfg.Auth.RevokeSessionsOnReset,
		RateLimit:             cfg.Auth.RateLimit,
		RateBurst:             cfg.Auth.RateBurst,
		TrustProxy:            cfg.HTTP.TrustProxy,
		AdminToken:            cfg.Admin.Token,
		Cookies: middleware.CookieOptions{
			Keys:   cfg.CookieKeys(),
			Secure: cfg.HTTP.SecureCookies,
			MaxAge: int(cfg.Auth.SessionTTL.Seconds()),
		},
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      h,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	scheduler.Start()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.HTTP.Address})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		<-scheduler.Stop().Done()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", map[string]any{"err": err})
	}
	// Espera a que termine una pasada del outbox en curso.
	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn("outbox still running at shutdown", nil)
	}
	return nil
}

func openDB(cfg config.Config, log logger.Logger) (*sql.DB, error) {
	db, err := pg.Open(cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.Storage.AutoMigrate {
		start := time.Now()
		if err := pg.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("migrations applied", map[string]any{"duration_ms": time.Since(start).Milliseconds()})
	}
	return db, nil
}

func newLogger(cfg config.Config) (logger.Logger, error) {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Logger.Level),
		Format: logger.ParseFormat(cfg.Logger.Format),
		App:    "kennel-api",
	})
}
