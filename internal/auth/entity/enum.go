package entity

type UserStatus int16

const (
	// UserStatusUnknown is mean status is not known / not set.
	UserStatusUnknown UserStatus = 0

	// UserStatusActive mean user is allowed to request and verify codes.
	UserStatusActive UserStatus = 1

	// UserStatusBlocked mean user is blocked from using the app (policy/abuse/etc).
	UserStatusBlocked UserStatus = 2
)

func (us UserStatus) String() string {
	switch us {
	case UserStatusActive:
		return "Active"
	case UserStatusBlocked:
		return "Blocked"
	default:
		return "Unknown"
	}
}

// OtpPurpose distinguishes why a code was requested. It only rides along on
// issued events; the lifecycle itself is identical for every purpose.
type OtpPurpose int16

const (
	OtpPurposeUnknown OtpPurpose = iota
	OtpPurposeLogin
	OtpPurposeRegister
	OtpPurposePasswordReset
)

func (p OtpPurpose) String() string {
	switch p {
	case OtpPurposeLogin:
		return "login"
	case OtpPurposeRegister:
		return "register"
	case OtpPurposePasswordReset:
		return "password_reset"
	default:
		return "unknown"
	}
}

func OtpPurposeFromString(s string) OtpPurpose {
	switch s {
	case "login", "":
		return OtpPurposeLogin
	case "register":
		return OtpPurposeRegister
	case "password_reset":
		return OtpPurposePasswordReset
	default:
		return OtpPurposeUnknown
	}
}
