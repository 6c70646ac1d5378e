package entity

import "time"

// User is a directory entry keyed by mobile number. Accounts are created
// implicitly on the first code request and marked verified after the first
// successful verification.
type User struct {
	ID               int64
	Mobile           string
	Status           UserStatus
	MobileVerifiedAt time.Time
	CreatedAt        time.Time
}

// Verified reports whether the mobile number has been verified at least once.
func (u *User) Verified() bool {
	return !u.MobileVerifiedAt.IsZero()
}
