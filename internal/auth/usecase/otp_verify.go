package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mobiauth/mobiauth/internal/pkg/goerror"
	"github.com/mobiauth/mobiauth/internal/pkg/otp"
)

type OtpVerifyInput struct {
	Mobile string `validate:"required,numeric,min=9,max=15"`
	Code   string `validate:"required,numeric,min=4,max=10"`
}

type OtpVerifyOutput struct {
	UserID int64
}

// OtpVerify checks a submitted code. Lifecycle outcomes other than success
// surface as business errors; infrastructure failures surface as server
// errors and are never reported as an invalid code.
func (s *Usecase) OtpVerify(ctx context.Context, in OtpVerifyInput) (*OtpVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "OtpVerify")
	defer span.End()

	in.Mobile = otp.NormalizeMobile(in.Mobile)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	res, err := s.codes.Verify(ctx, in.Mobile, in.Code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to verify code", "mobile", in.Mobile, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.publishAttempt(ctx, in.Mobile, res)

	switch res.Status {
	case otp.StatusSuccess:
		user, err := s.repoDB.GetUserByMobile(ctx, in.Mobile)
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "verified code for unknown user", "mobile", in.Mobile)
			return nil, goerror.NewBusiness("Mobile number is not recognized", goerror.CodeUnauthorized)
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get user by mobile", "mobile", in.Mobile, "error", err)
			return nil, goerror.NewServer(err)
		}

		if err := s.repoDB.MarkMobileVerified(ctx, user.ID); err != nil {
			slog.ErrorContext(ctx, "failed to mark mobile verified", "user_id", user.ID, "error", err)
		}

		return &OtpVerifyOutput{UserID: user.ID}, nil

	case otp.StatusInvalid:
		return nil, goerror.NewBusiness(
			fmt.Sprintf("Invalid code. %d attempt(s) remaining.", res.RemainingAttempts),
			goerror.CodeUnauthorized,
		)

	case otp.StatusExpired:
		return nil, goerror.NewBusiness("The code has expired. Please request a new one.", goerror.CodeUnauthorized)

	case otp.StatusLocked:
		return nil, goerror.NewBusiness("Too many failed attempts. Please try again later.", goerror.CodeTooManyRequest)

	default: // otp.StatusMissing
		return nil, goerror.NewBusiness("No active code for this number. Please request a new one.", goerror.CodeUnauthorized)
	}
}

func (s *Usecase) publishAttempt(ctx context.Context, mobile string, res otp.VerificationResult) {
	msg := OtpAttemptEvent{
		Mobile:   mobile,
		Status:   res.Status.String(),
		Attempts: res.Attempts,
		At:       s.clock.Now().Unix(),
	}
	if !res.LockedUntil.IsZero() {
		msg.LockedUntil = res.LockedUntil.Unix()
	}

	s.goroutine.Go(ctx, func(ctx context.Context) error {
		if err := s.repoMessaging.PublishOtpAttempt(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "failed to publish otp attempt", "mobile", mobile, "error", err)
			return err
		}
		return nil
	})
}
