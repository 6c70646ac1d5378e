package inbound

import (
	"context"

	"github.com/mobiauth/mobiauth/internal/delivery/usecase"
)

type uc interface {
	ConsumeOtpIssued(ctx context.Context, in usecase.ConsumeOtpIssuedInput) error
}
