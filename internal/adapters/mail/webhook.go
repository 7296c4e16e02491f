package mail

import (
	"context"
	"fmt"
	"time"

	"dog-kennel/internal/platform/httpclient"
	"dog-kennel/internal/ports/notify"
)

// Webhook entrega los mensajes a un relay HTTP como JSON.
type Webhook struct {
	url    string
	token  string
	client *httpclient.Client
}

type webhookPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewWebhook(url, token string, timeout time.Duration) (*Webhook, error) {
	return NewWebhookWithClient(url, token, httpclient.New(timeout))
}

func NewWebhookWithClient(url, token string, client *httpclient.Client) (*Webhook, error) {
	if err := httpclient.ValidateURL(url); err != nil {
		return nil, fmt.Errorf("mail: webhook: %w", err)
	}
	return &Webhook{url: url, token: token, client: client}, nil
}

func (w *Webhook) Send(ctx context.Context, msg notify.Message) error {
	var headers map[string]string
	if w.token != "" {
		headers = map[string]string{"Authorization": "Bearer " + w.token}
	}
	return w.client.PostJSON(ctx, w.url, headers, webhookPayload{
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
	})
}
