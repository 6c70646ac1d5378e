package sms

import "context"

// Message represents a text message payload.
type Message struct {
	// To is the destination mobile number.
	To string
	// Body is the message text.
	Body string
}

// Sender abstracts an SMS gateway.
type Sender interface {
	// Send dispatches the given message using the underlying provider.
	Send(ctx context.Context, msg Message) error
}

// Driver names accepted by NewFromDriver.
const (
	DriverLog  = "log"
	DriverNoop = "noop"
)

// NewFromDriver returns the Sender registered for the given driver name,
// defaulting to the log sender.
func NewFromDriver(driver string) Sender {
	switch driver {
	case DriverNoop:
		return NewNoop()
	default:
		return NewLog()
	}
}
