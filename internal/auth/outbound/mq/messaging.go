package mq

import (
	"context"
	"encoding/json"

	"github.com/mobiauth/mobiauth/internal/auth/usecase"
	"github.com/mobiauth/mobiauth/internal/pkg/instrument"
	"github.com/mobiauth/mobiauth/internal/pkg/messaging"
	"github.com/mobiauth/mobiauth/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishOtpIssued(ctx context.Context, msg usecase.OtpIssuedEvent) error {
	ctx, span := m.ins.Tracer("auth.outbound.mq").Start(ctx, "PublishOtpIssued")
	defer span.End()

	body, err := json.Marshal(event.OtpIssuedMessage{
		UserID:    msg.UserID,
		Mobile:    msg.Mobile,
		Code:      msg.Code,
		Purpose:   msg.Purpose.String(),
		Channel:   "sms",
		ExpiresAt: msg.ExpiresAt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.OtpIssuedDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) PublishOtpAttempt(ctx context.Context, msg usecase.OtpAttemptEvent) error {
	ctx, span := m.ins.Tracer("auth.outbound.mq").Start(ctx, "PublishOtpAttempt")
	defer span.End()

	body, err := json.Marshal(event.OtpAttemptMessage{
		Mobile:      msg.Mobile,
		Status:      msg.Status,
		Attempts:    msg.Attempts,
		LockedUntil: msg.LockedUntil,
		At:          msg.At,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.OtpAttemptDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
