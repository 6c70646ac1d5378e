package inbound

type OtpRequestRequest struct {
	Mobile  string `json:"mobile"`
	Purpose string `json:"purpose,omitempty"`
}

type OtpRequestResponse struct {
	ExpiresAt int64 `json:"expires_at"`
}

func (OtpRequestResponse) Message() string {
	return "If the number is valid, we have sent a verification code."
}

type OtpVerifyRequest struct {
	Mobile string `json:"mobile"`
	Code   string `json:"code"`
}

type OtpVerifyResponse struct {
	UserID   int64 `json:"user_id"`
	Verified bool  `json:"verified"`
}

func (OtpVerifyResponse) Message() string {
	return "Verification successful."
}
