package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dog-kennel/internal/platform/logger"
	"dog-kennel/internal/ports/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWebhook_Send(t *testing.T) {
	var (
		got  webhookPayload
		auth string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	wh, err := NewWebhook(srv.URL, "relay-token", time.Second)
	require.NoError(t, err)

	msg := notify.Message{To: "alice@example.com", Subject: "Password reset", Body: "new: abc"}
	require.NoError(t, wh.Send(context.Background(), msg))

	assert.Equal(t, "Bearer relay-token", auth)
	assert.Equal(t, webhookPayload{To: msg.To, Subject: msg.Subject, Body: msg.Body}, got)
}

func TestWebhook_SendFailsOnRelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	wh, err := NewWebhook(srv.URL, "", time.Second)
	require.NoError(t, err)
	assert.Error(t, wh.Send(context.Background(), notify.Message{To: "a@b.c"}))
}

func TestWebhook_RelayRejectionIsNotTemporary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/unavailable" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	cases := map[string]bool{
		"/rejected":    false,
		"/unavailable": true,
	}
	for path, temporary := range cases {
		wh, err := NewWebhook(srv.URL+path, "", time.Second)
		require.NoError(t, err)

		var tmp interface{ Temporary() bool }
		err = wh.Send(context.Background(), notify.Message{To: "a@b.c"})
		require.ErrorAs(t, err, &tmp, path)
		assert.Equal(t, temporary, tmp.Temporary(), path)
	}
}

func TestLog_Send(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLog(logger.Wrap(zap.New(core)))

	require.NoError(t, l.Send(context.Background(), notify.Message{To: "bob@example.com", Subject: "Welcome"}))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "bob@example.com", fields["to"])
	assert.Equal(t, "Welcome", fields["subject"])
	assert.Equal(t, "mail", fields["component"])
}

func TestLog_SendDoesNotLogBody(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr, err := NewTransport(Config{}, logger.Wrap(zap.New(core)))
	require.NoError(t, err)

	body := "Your new password is:\n\nS3cretCred"
	require.NoError(t, tr.Send(context.Background(), notify.Message{To: "alice@example.com", Subject: "Password reset", Body: body}))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.NotContains(t, entry.Message, "S3cretCred")
	for k, v := range entry.ContextMap() {
		assert.NotContains(t, fmt.Sprint(v), "S3cretCred", "field %s", k)
	}
	assert.Equal(t, int64(len(body)), entry.ContextMap()["body_bytes"])
}

func TestNewTransport(t *testing.T) {
	tr, err := NewTransport(Config{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Log{}, tr)

	_, err = NewTransport(Config{Driver: "smtp"}, nil)
	assert.Error(t, err, "smtp without host must fail")

	tr, err = NewTransport(Config{Driver: "SMTP", SMTP: SMTPConfig{Host: "localhost", From: "kennel@example.com"}}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SMTP{}, tr)

	_, err = NewTransport(Config{Driver: "webhook", WebhookURL: "not a url"}, nil)
	assert.Error(t, err)

	_, err = NewTransport(Config{Driver: "pigeon"}, nil)
	assert.Error(t, err)
}

func TestSMTP_MessageRejectsBadRecipient(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "localhost", From: "kennel@example.com"})
	require.NoError(t, err)

	_, err = s.message(notify.Message{To: "not-an-address"})
	assert.Error(t, err)

	m, err := s.message(notify.Message{To: "alice@example.com", Subject: "Hi", Body: "hello"})
	require.NoError(t, err)
	assert.Len(t, m.GetToString(), 1)
}
