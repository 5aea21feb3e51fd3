// Package users implements the credential store: login and session identity,
// user provisioning, profile updates, and password changes. The collection
// lives as a single blob in the shared key-value store, so every mutation
// re-reads the full list, re-checks its invariants, and writes it back under
// an optimistic version token.
package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
	"github.com/dmitrijs2005/proposalkeeper/internal/logging"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv"
)

// Bootstrap identity, materialized when the store is completely empty so the
// first operator can always sign in.
const (
	bootstrapUsername = "axel"
	bootstrapSecret   = "0000"
	bootstrapEmail    = "axel@example.com"
)

type Service struct {
	repo Repository
	log  logging.Logger
}

func NewService(repo Repository, log logging.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// getAll loads the user collection, materializing the bootstrap identity if
// the store is empty and backfilling missing roles on legacy records. Any
// repair is persisted before returning.
func (s *Service) getAll(ctx context.Context) ([]User, int64, error) {
	users, version, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	changed := false

	if len(users) == 0 {
		hash, err := hashSecret(bootstrapSecret)
		if err != nil {
			return nil, 0, err
		}
		users = []User{{
			ID:         uuid.NewString(),
			Username:   bootstrapUsername,
			FirstName:  "Axel",
			LastName:   "User",
			Email:      bootstrapEmail,
			SecretHash: hash,
			Role:       RoleAdmin,
		}}
		changed = true
		s.log.Info(ctx, "materialized bootstrap identity", "username", bootstrapUsername)
	}

	// Records created before roles existed default to analyst, except the
	// bootstrap identity which stays admin.
	for i := range users {
		if users[i].Role == "" {
			if users[i].Username == bootstrapUsername {
				users[i].Role = RoleAdmin
			} else {
				users[i].Role = RoleAnalyst
			}
			changed = true
		}
	}

	if changed {
		if err := s.repo.ReplaceAll(ctx, users, version); err != nil {
			return nil, 0, err
		}
		version++
	}

	return users, version, nil
}

// List returns every user record.
func (s *Service) List(ctx context.Context) ([]User, error) {
	users, _, err := s.getAll(ctx)
	return users, err
}

// Search returns users whose username contains query, case-insensitively.
func (s *Service) Search(ctx context.Context, query string) ([]User, error) {
	users, _, err := s.getAll(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var result []User
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), q) {
			result = append(result, u)
		}
	}
	return result, nil
}

// FindByID returns the user with the given identifier.
func (s *Service) FindByID(ctx context.Context, userID string) (*User, error) {
	users, _, err := s.getAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == userID {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

// FindByUsername returns the user with the given username (exact match).
func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	users, _, err := s.getAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

// FindByEmail returns the user with the given email, compared
// case-insensitively.
func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	users, _, err := s.getAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

// Login matches username and secret and, on success, marks the user as the
// active session identity. A failed match yields ErrInvalidCredential.
func (s *Service) Login(ctx context.Context, username, secret string) (*User, error) {
	users, _, err := s.getAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username != username {
			continue
		}
		if !checkSecret(u.SecretHash, secret) {
			break
		}
		if err := s.repo.SetActiveUserID(ctx, u.ID); err != nil {
			return nil, err
		}
		s.log.Info(ctx, "user logged in", "user_id", u.ID)
		return &u, nil
	}
	return nil, common.ErrInvalidCredential
}

// Logout clears the active session pointer.
func (s *Service) Logout(ctx context.Context) error {
	return s.repo.ClearActiveUser(ctx)
}

// ActiveUser returns the current session identity, or nil when no session is
// active or the pointed-to user no longer exists.
func (s *Service) ActiveUser(ctx context.Context) (*User, error) {
	id, err := s.repo.ActiveUserID(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	u, err := s.FindByID(ctx, id)
	if err != nil {
		if err == common.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// CreateUser provisions a new user. Uniqueness of username and email is
// checked against the full collection. With autoActivate the new user also
// becomes the active session identity (self-registration); without it the
// session is untouched (admin provisioning).
func (s *Service) CreateUser(ctx context.Context, profile Profile, role Role, autoActivate bool) (*User, error) {
	var created *User

	err := kv.WithRetry(ctx, func(ctx context.Context) error {
		users, version, err := s.getAll(ctx)
		if err != nil {
			return err
		}

		for _, u := range users {
			if strings.EqualFold(u.Email, profile.Email) {
				return common.ErrDuplicateEmail
			}
			if u.Username == profile.Username {
				return common.ErrDuplicateUsername
			}
		}

		hash, err := hashSecret(profile.Secret)
		if err != nil {
			return err
		}

		user := User{
			ID:         uuid.NewString(),
			Username:   profile.Username,
			FirstName:  profile.FirstName,
			LastName:   profile.LastName,
			Email:      profile.Email,
			SecretHash: hash,
			Role:       role,
		}

		if err := s.repo.ReplaceAll(ctx, append(users, user), version); err != nil {
			return err
		}
		created = &user
		return nil
	})
	if err != nil {
		return nil, err
	}

	if autoActivate {
		if err := s.repo.SetActiveUserID(ctx, created.ID); err != nil {
			return nil, err
		}
	}

	s.log.Info(ctx, "user created", "user_id", created.ID, "role", string(created.Role))
	return created, nil
}

// UpdateProfile applies a partial profile update. Username and email
// uniqueness is checked against every other user, so a no-op update on the
// record itself succeeds.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error {
	return kv.WithRetry(ctx, func(ctx context.Context) error {
		users, version, err := s.getAll(ctx)
		if err != nil {
			return err
		}

		idx := -1
		for i, u := range users {
			if u.ID == userID {
				idx = i
				continue
			}
			if update.Username != nil && u.Username == *update.Username {
				return common.ErrDuplicateUsername
			}
			if update.Email != nil && strings.EqualFold(u.Email, *update.Email) {
				return common.ErrDuplicateEmail
			}
		}
		if idx < 0 {
			return common.ErrNotFound
		}

		if update.Username != nil {
			users[idx].Username = *update.Username
		}
		if update.FirstName != nil {
			users[idx].FirstName = *update.FirstName
		}
		if update.LastName != nil {
			users[idx].LastName = *update.LastName
		}
		if update.Email != nil {
			users[idx].Email = *update.Email
		}

		return s.repo.ReplaceAll(ctx, users, version)
	})
}

// ChangePassword verifies the current secret and replaces it with a hash of
// the new one. A mismatch yields ErrInvalidCredential.
func (s *Service) ChangePassword(ctx context.Context, userID, currentSecret, newSecret string) error {
	return kv.WithRetry(ctx, func(ctx context.Context) error {
		users, version, err := s.getAll(ctx)
		if err != nil {
			return err
		}

		for i, u := range users {
			if u.ID != userID {
				continue
			}
			if !checkSecret(u.SecretHash, currentSecret) {
				return common.ErrInvalidCredential
			}
			hash, err := hashSecret(newSecret)
			if err != nil {
				return err
			}
			users[i].SecretHash = hash
			return s.repo.ReplaceAll(ctx, users, version)
		}
		return common.ErrInvalidCredential
	})
}

// SetSecretByEmail replaces the secret of the user with the given email.
// Used by the OTP recovery flow after a verified reset.
func (s *Service) SetSecretByEmail(ctx context.Context, email, newSecret string) error {
	return kv.WithRetry(ctx, func(ctx context.Context) error {
		users, version, err := s.getAll(ctx)
		if err != nil {
			return err
		}
		for i, u := range users {
			if !strings.EqualFold(u.Email, email) {
				continue
			}
			hash, err := hashSecret(newSecret)
			if err != nil {
				return err
			}
			users[i].SecretHash = hash
			return s.repo.ReplaceAll(ctx, users, version)
		}
		return common.ErrNotFound
	})
}

// DeleteUser removes the user record. Protecting the last admin or the
// active session's own identity is caller-side policy, not enforced here.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	return kv.WithRetry(ctx, func(ctx context.Context) error {
		users, version, err := s.getAll(ctx)
		if err != nil {
			return err
		}
		filtered := users[:0:0]
		for _, u := range users {
			if u.ID != userID {
				filtered = append(filtered, u)
			}
		}
		if len(filtered) == len(users) {
			return common.ErrNotFound
		}
		return s.repo.ReplaceAll(ctx, filtered, version)
	})
}

func hashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing secret: %w", err)
	}
	return string(hash), nil
}

func checkSecret(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
