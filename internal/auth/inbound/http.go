package inbound

import (
	"context"

	"github.com/mobiauth/mobiauth/internal/auth/usecase"
	"github.com/mobiauth/mobiauth/internal/pkg/router"
)

type uc interface {
	OtpRequest(ctx context.Context, in usecase.OtpRequestInput) (*usecase.OtpRequestOutput, error)
	OtpVerify(ctx context.Context, in usecase.OtpVerifyInput) (*usecase.OtpVerifyOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/auth/otp/request", end.OtpRequest)
	r.POST("/api/v1/auth/otp/verify", end.OtpVerify)
}
