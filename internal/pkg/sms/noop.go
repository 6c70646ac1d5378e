package sms

import "context"

// Noop is a Sender that silently discards every message. Useful for load
// tests and environments where codes are read from logs or fixtures.
type Noop struct{}

// NewNoop returns a discarding Sender.
func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) Send(context.Context, Message) error {
	return nil
}
