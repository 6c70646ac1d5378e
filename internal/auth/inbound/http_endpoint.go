package inbound

import (
	"github.com/mobiauth/mobiauth/internal/auth/usecase"
	"github.com/mobiauth/mobiauth/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the mobile OTP workflows.
type HTTPEndpoint struct {
	uc uc
}

// OtpRequest issues a one-time code and dispatches it to the mobile number.
// @Summary Request one-time code
// @Description Issues a fresh code for the mobile number and sends it through the delivery channel. The code is never part of the response.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body OtpRequestRequest true "Code request payload"
// @Success 200 {object} router.successResponse{data=OtpRequestResponse} "Code issued"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Rate limited or locked"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/otp/request [post]
func (h *HTTPEndpoint) OtpRequest(r *router.Request) (any, error) {
	var req OtpRequestRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.OtpRequest(r.Context(), usecase.OtpRequestInput{
		Mobile:  req.Mobile,
		Purpose: req.Purpose,
	})
	if err != nil {
		return nil, err
	}

	return OtpRequestResponse{ExpiresAt: resp.ExpiresAt.Unix()}, nil
}

// OtpVerify checks a submitted code for the mobile number.
// @Summary Verify one-time code
// @Description Verifies the submitted code. A matching code is consumed and cannot be used again.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body OtpVerifyRequest true "Code verification payload"
// @Success 200 {object} router.successResponse{data=OtpVerifyResponse} "Code verified"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid, expired or missing code"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Too many failed attempts"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/otp/verify [post]
func (h *HTTPEndpoint) OtpVerify(r *router.Request) (any, error) {
	var req OtpVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.OtpVerify(r.Context(), usecase.OtpVerifyInput{
		Mobile: req.Mobile,
		Code:   req.Code,
	})
	if err != nil {
		return nil, err
	}

	return OtpVerifyResponse{UserID: resp.UserID, Verified: true}, nil
}
