package event

const OtpAttemptDestination string = "otp_attempt"

// OtpAttemptMessage is the audit record of a single verification attempt.
type OtpAttemptMessage struct {
	Mobile      string `json:"mobile"`
	Status      string `json:"status"`
	Attempts    int    `json:"attempts"`
	LockedUntil int64  `json:"locked_until,omitempty"`
	At          int64  `json:"at"`
}
