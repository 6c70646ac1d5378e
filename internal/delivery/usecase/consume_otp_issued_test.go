package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mobiauth/mobiauth/internal/pkg/clock"
	"github.com/mobiauth/mobiauth/internal/pkg/config"
	"github.com/mobiauth/mobiauth/internal/pkg/instrument"
	"github.com/mobiauth/mobiauth/internal/pkg/sms"
	"github.com/mobiauth/mobiauth/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent     []sms.Message
	failures int
}

func (f *fakeSender) Send(_ context.Context, msg sms.Message) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("gateway unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTestUsecase(t *testing.T, sender *fakeSender, clk clock.Clocker) *Usecase {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("delivery:\n  max_send_retries: 2\n"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cfg.Close() })

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	return New(Dependency{
		Sender:     sender,
		Config:     cfg,
		Clock:      clk,
		Validator:  v10,
		Instrument: instrument.NewNoop(),
	})
}

func TestConsumeOtpIssuedSends(t *testing.T) {
	clk := clock.NewStatic(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	sender := &fakeSender{}
	uc := newTestUsecase(t, sender, clk)

	err := uc.ConsumeOtpIssued(context.Background(), ConsumeOtpIssuedInput{
		UserID:    42,
		Mobile:    "628123456789",
		Code:      "123456",
		Purpose:   "login",
		ExpiresAt: clk.Now().Add(5 * time.Minute).Unix(),
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "628123456789", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Body, "123456")
	assert.Contains(t, sender.sent[0].Body, "5 minute(s)")
}

func TestConsumeOtpIssuedRetriesTransientFailure(t *testing.T) {
	clk := clock.NewStatic(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	sender := &fakeSender{failures: 2}
	uc := newTestUsecase(t, sender, clk)

	err := uc.ConsumeOtpIssued(context.Background(), ConsumeOtpIssuedInput{
		UserID:    42,
		Mobile:    "628123456789",
		Code:      "123456",
		Purpose:   "login",
		ExpiresAt: clk.Now().Add(5 * time.Minute).Unix(),
	})
	require.NoError(t, err)
	assert.Len(t, sender.sent, 1)
}

func TestConsumeOtpIssuedExhaustsRetries(t *testing.T) {
	clk := clock.NewStatic(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	sender := &fakeSender{failures: 10}
	uc := newTestUsecase(t, sender, clk)

	err := uc.ConsumeOtpIssued(context.Background(), ConsumeOtpIssuedInput{
		UserID:    42,
		Mobile:    "628123456789",
		Code:      "123456",
		Purpose:   "login",
		ExpiresAt: clk.Now().Add(5 * time.Minute).Unix(),
	})
	require.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestConsumeOtpIssuedDropsExpiredCode(t *testing.T) {
	clk := clock.NewStatic(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	sender := &fakeSender{}
	uc := newTestUsecase(t, sender, clk)

	err := uc.ConsumeOtpIssued(context.Background(), ConsumeOtpIssuedInput{
		UserID:    42,
		Mobile:    "628123456789",
		Code:      "123456",
		Purpose:   "login",
		ExpiresAt: clk.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestConsumeOtpIssuedInvalidPayloadIsDropped(t *testing.T) {
	clk := clock.NewStatic(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	sender := &fakeSender{}
	uc := newTestUsecase(t, sender, clk)

	err := uc.ConsumeOtpIssued(context.Background(), ConsumeOtpIssuedInput{})
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}
