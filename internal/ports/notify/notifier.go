package notify

import "context"

// Message es un correo de texto plano.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Notifier entrega (o encola) un mensaje fuera de banda.
// Un error significa que el mensaje no quedó aceptado; el llamador decide si loguea o propaga.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// NotifierFunc adapta una función a Notifier.
type NotifierFunc func(ctx context.Context, msg Message) error

func (f NotifierFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
