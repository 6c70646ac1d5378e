package sms

import (
	"context"
	"log/slog"
)

// Log is a Sender that writes messages to the structured log instead of a
// gateway. The destination number is masked; message bodies carry one-time
// codes and are logged as-is only in development setups that opt into this
// driver.
type Log struct{}

// NewLog returns a log-backed Sender.
func NewLog() *Log {
	return &Log{}
}

func (*Log) Send(ctx context.Context, msg Message) error {
	slog.InfoContext(ctx, "sms delivered to log", "to", Mask(msg.To), "body", msg.Body)

	return nil
}

// Mask hides the middle digits of a mobile number for log output.
func Mask(mobile string) string {
	if len(mobile) <= 6 {
		return "***"
	}

	return mobile[:3] + "****" + mobile[len(mobile)-3:]
}
