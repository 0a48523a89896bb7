package models

import "time"

const (
	TokenTypeWeb = "web"
	TokenTypeAPI = "api"
)

// AuthToken is the sole authentication credential: an opaque
// (auth_token, device_token) pair stored per login.
type AuthToken struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	AuthToken   string     `json:"auth_token"`
	DeviceToken string     `json:"device_token"`
	Type        string     `json:"type"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
}

// VerificationOTP holds a 6-digit email verification code. Verify
// always compares against the most recent code for the address.
type VerificationOTP struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	OTP       string    `json:"otp"`
	CreatedAt time.Time `json:"created_at"`
}
