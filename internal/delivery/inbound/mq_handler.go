package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mobiauth/mobiauth/internal/delivery/usecase"
	"github.com/mobiauth/mobiauth/internal/pkg/instrument"
	"github.com/mobiauth/mobiauth/internal/pkg/messaging"
	"github.com/mobiauth/mobiauth/internal/pkg/sms"
	"github.com/mobiauth/mobiauth/internal/pkg/uid"
	"github.com/mobiauth/mobiauth/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) OtpIssuedDelivery(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("delivery.inbound.mq").Start(ctx, "OtpIssuedDelivery")
	defer span.End()

	body := msg.Body()

	var payload event.OtpIssuedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp issued delivery", "msg_body", string(body), "error", err)
		return nil
	}

	// Not the raw body: it carries the plaintext code.
	slog.InfoContext(ctx, "consume: otp issued delivery", "user_id", payload.UserID, "to", sms.Mask(payload.Mobile))

	if err := h.uc.ConsumeOtpIssued(ctx, usecase.ConsumeOtpIssuedInput{
		UserID:    payload.UserID,
		Mobile:    payload.Mobile,
		Code:      payload.Code,
		Purpose:   payload.Purpose,
		ExpiresAt: payload.ExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp issued", "user_id", payload.UserID, "error", err)
		return err
	}

	return nil
}
