package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mobiauth/mobiauth/internal/pkg/sms"
	"github.com/sethvargo/go-retry"
)

type ConsumeOtpIssuedInput struct {
	UserID    int64  `validate:"required,gt=0"`
	Mobile    string `validate:"required"`
	Code      string `validate:"required"`
	Purpose   string `validate:"required"`
	ExpiresAt int64  `validate:"required,gt=0"`
}

// ConsumeOtpIssued dispatches a freshly issued code to its mobile number.
// Sends are retried with capped exponential backoff; a code that expired
// while waiting in the queue is dropped instead of sent.
func (s *Usecase) ConsumeOtpIssued(ctx context.Context, in ConsumeOtpIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOtpIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	expiresAt := time.Unix(in.ExpiresAt, 0)
	if !s.clock.Now().Before(expiresAt) {
		slog.WarnContext(ctx, "dropping expired code delivery", "user_id", in.UserID, "to", sms.Mask(in.Mobile))
		return nil
	}

	msg := sms.Message{
		To:   in.Mobile,
		Body: fmt.Sprintf("%s is your verification code. It expires in %d minute(s).", in.Code, s.minutesLeft(expiresAt)),
	}

	b := retry.NewExponential(500 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(uint64(s.cfg.GetInt("delivery.max_send_retries")), b)

	if err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := s.sender.Send(ctx, msg); err != nil {
			slog.WarnContext(ctx, "sms send failed, will retry", "user_id", in.UserID, "to", sms.Mask(in.Mobile), "error", err)
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		slog.ErrorContext(ctx, "sms delivery exhausted retries", "user_id", in.UserID, "to", sms.Mask(in.Mobile), "error", err)
		return err
	}

	return nil
}

func (s *Usecase) minutesLeft(expiresAt time.Time) int {
	left := int(expiresAt.Sub(s.clock.Now()).Round(time.Minute) / time.Minute)
	if left < 1 {
		left = 1
	}
	return left
}
