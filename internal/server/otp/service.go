// Package otp implements the short-lived, single-use recovery code workflow
// layered on the credential store. Per email the flow moves through three
// states: no request, issued, and consumed on a successful password reset.
package otp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
	"github.com/dmitrijs2005/proposalkeeper/internal/logging"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/users"
)

type Service struct {
	repo     Repository
	users    *users.Service
	validity time.Duration
	log      logging.Logger

	// now is swappable in tests.
	now func() time.Time
}

func NewService(repo Repository, userService *users.Service, validity time.Duration, log logging.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    userService,
		validity: validity,
		log:      log,
		now:      time.Now,
	}
}

// RequestReset issues a fresh 6-digit recovery code for the account with the
// given email, invalidating any prior code for it. The code is returned to
// the caller, who is responsible for out-of-band delivery. An unknown email
// yields ErrUnknownEmail.
func (s *Service) RequestReset(ctx context.Context, email string) (string, error) {
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnknownEmail
		}
		return "", err
	}

	code, err := common.MakeOTPCode()
	if err != nil {
		return "", err
	}

	err = kv.WithRetry(ctx, func(ctx context.Context) error {
		entries, version, err := s.repo.ListAll(ctx)
		if err != nil {
			return err
		}

		// One live entry per email: drop prior codes for this address.
		kept := entries[:0:0]
		for _, e := range entries {
			if !strings.EqualFold(e.Email, email) {
				kept = append(kept, e)
			}
		}
		kept = append(kept, Entry{
			Email:     email,
			Code:      code,
			ExpiresAt: s.now().Add(s.validity),
		})

		return s.repo.ReplaceAll(ctx, kept, version)
	})
	if err != nil {
		return "", err
	}

	s.log.Info(ctx, "recovery code issued", "email", email)
	return code, nil
}

// Verify reports whether a live, matching code exists for the email. It is a
// pure predicate: no state changes, so re-verification within the validity
// window is idempotent.
func (s *Service) Verify(ctx context.Context, email, code string) (bool, error) {
	entries, _, err := s.repo.ListAll(ctx)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if strings.EqualFold(e.Email, email) && e.Code == code {
			return !e.Expired(s.now()), nil
		}
	}
	return false, nil
}

// ResetPassword verifies the code, replaces the user's secret, and consumes
// the entry. An invalid or expired code yields ErrInvalidOrExpiredCode and
// leaves the entry intact so the user may request a fresh one.
func (s *Service) ResetPassword(ctx context.Context, email, code, newSecret string) error {
	ok, err := s.Verify(ctx, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrInvalidOrExpiredCode
	}

	if err := s.users.SetSecretByEmail(ctx, email, newSecret); err != nil {
		return err
	}

	err = kv.WithRetry(ctx, func(ctx context.Context) error {
		entries, version, err := s.repo.ListAll(ctx)
		if err != nil {
			return err
		}
		kept := entries[:0:0]
		for _, e := range entries {
			if !strings.EqualFold(e.Email, email) {
				kept = append(kept, e)
			}
		}
		return s.repo.ReplaceAll(ctx, kept, version)
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "password reset completed", "email", email)
	return nil
}
