package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/mobiauth/mobiauth/internal/auth/entity"
	"github.com/mobiauth/mobiauth/internal/pkg/goerror"
	"github.com/mobiauth/mobiauth/internal/pkg/otp"
)

type OtpRequestInput struct {
	Mobile  string `validate:"required,numeric,min=9,max=15"`
	Purpose string `validate:"omitempty,oneof=login register password_reset"`
}

type OtpRequestOutput struct {
	ExpiresAt time.Time
}

// OtpRequest issues a fresh one-time code for the given mobile number and
// hands it to the delivery channel. The code never appears in the response.
func (s *Usecase) OtpRequest(ctx context.Context, in OtpRequestInput) (*OtpRequestOutput, error) {
	ctx, span := s.startSpan(ctx, "OtpRequest")
	defer span.End()

	in.Mobile = otp.NormalizeMobile(in.Mobile)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ok, err := s.limiter.Allow(ctx, "otp:"+in.Mobile)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check issuance rate limit", "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		slog.WarnContext(ctx, "otp request rate limited", "mobile", in.Mobile)
		return nil, goerror.NewBusiness("Too many code requests. Please try again later.", goerror.CodeTooManyRequest)
	}

	user, err := s.repoDB.GetOrCreateUserByMobile(ctx, s.uid.Generate(), in.Mobile)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get or create user", "mobile", in.Mobile, "error", err)
		return nil, goerror.NewServer(err)
	}

	if user.Status == entity.UserStatusBlocked {
		slog.WarnContext(ctx, "otp requested for blocked user", "user_id", user.ID)
		return nil, goerror.NewBusiness("Account is blocked", goerror.CodeForbidden)
	}

	res, code, err := s.codes.Issue(ctx, in.Mobile)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue code", "mobile", in.Mobile, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !res.Issued {
		slog.WarnContext(ctx, "otp requested while locked", "mobile", in.Mobile, "locked_until", res.LockedUntil)
		return nil, goerror.NewBusiness("Too many failed attempts. Please try again later.", goerror.CodeTooManyRequest)
	}

	msg := OtpIssuedEvent{
		UserID:    user.ID,
		Mobile:    in.Mobile,
		Code:      code,
		Purpose:   entity.OtpPurposeFromString(in.Purpose),
		ExpiresAt: res.ExpiresAt.Unix(),
	}
	s.goroutine.Go(ctx, func(ctx context.Context) error {
		if err := s.repoMessaging.PublishOtpIssued(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "failed to publish otp issued", "user_id", msg.UserID, "error", err)
			return err
		}
		return nil
	})

	return &OtpRequestOutput{ExpiresAt: res.ExpiresAt}, nil
}
