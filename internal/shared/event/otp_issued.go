package event

const OtpIssuedDestination string = "otp_issued"
const OtpIssuedConsumerDelivery string = "otp_issued_delivery"

// OtpIssuedMessage carries a freshly issued code to the delivery worker.
// The plaintext code exists only on the wire and in the sender; it is never
// stored anywhere.
type OtpIssuedMessage struct {
	UserID    int64  `json:"user_id"`
	Mobile    string `json:"mobile"`
	Code      string `json:"code"`
	Purpose   string `json:"purpose"`
	Channel   string `json:"channel"`
	ExpiresAt int64  `json:"expires_at"`
}
