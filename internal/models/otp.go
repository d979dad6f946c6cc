package models

import "time"

// OTPRecord is the single live login code for an email address.
// At most one record exists per email: a new request overwrites the
// previous one, and a successful verification deletes it.
type OTPRecord struct {
	Email     string    `json:"email"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
