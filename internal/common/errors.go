// Package common defines shared constants and sentinel errors used across
// ProposalKeeper components. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")

	// Service-level errors (generic/internal flow control).
	ErrInternal       = errors.New("internal error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid request")

	// Credential store errors.
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrUnknownEmail      = errors.New("no account found with this email address")

	// OTP recovery errors.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")

	// Library errors.
	ErrPermissionDenied = errors.New("permission denied")

	// Memo errors.
	ErrDuplicateMemo = errors.New("an identical memo already exists")

	// Colleague graph errors.
	ErrDuplicateColleague = errors.New("already a colleague")
	ErrSelfColleague      = errors.New("cannot add yourself")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
