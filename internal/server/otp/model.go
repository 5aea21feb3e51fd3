package otp

import "time"

// Entry is a live recovery code for one email. At most one entry per email
// exists at a time; issuing a new code replaces any prior one.
type Entry struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the entry is past its expiry at the given instant.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
