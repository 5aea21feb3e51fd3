// Package kv provides the shared key-value blob storage backing every
// ProposalKeeper collection. Each logical store (users, OTP entries, the two
// library partitions, memos, settings) is serialized wholesale under a fixed
// key; every mutation is a read-modify-write of the full blob, guarded by an
// optimistic version token so that concurrent writers surface as a retryable
// conflict instead of a silent lost update.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
)

// Fixed collection keys.
const (
	KeyUsers             = "users"
	KeyActiveUser        = "active_user"
	KeyOTPEntries        = "otp_entries"
	KeyPersonalLibrary   = "library_personal"
	KeyCollectiveLibrary = "library_collective"
	KeyMemos             = "memos_v2"
	KeyLegacyNotes       = "notes"
	KeySettings          = "settings"
)

// ColleaguesKey returns the per-owner key of a user's colleague list.
func ColleaguesKey(ownerID string) string {
	return "colleagues/" + ownerID
}

// Store is a versioned key-value blob store.
//
// Get returns the blob and its current version; a missing key yields a nil
// blob and version 0, not an error. Put replaces the blob and must be called
// with the version observed by the preceding Get; a stale version yields
// common.ErrVersionConflict and writes nothing. Version 0 creates the key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, int64, error)
	Put(ctx context.Context, key string, data []byte, version int64) error
	Delete(ctx context.Context, key string) error
}

// maxRetries bounds CAS retry loops in WithRetry.
const maxRetries = 3

// WithRetry runs fn, retrying up to a small fixed number of times while it
// keeps failing with common.ErrVersionConflict. Any other error is returned
// immediately. Services wrap each read-modify-write cycle in WithRetry so
// that invariants are re-checked against fresh state on every attempt.
func WithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = fn(ctx)
		if !errors.Is(err, common.ErrVersionConflict) {
			return err
		}
	}
	return err
}

// LoadList reads the collection stored under key and unmarshals it as a JSON
// list. A missing key yields an empty list with version 0.
func LoadList[T any](ctx context.Context, s Store, key string) ([]T, int64, error) {
	data, version, err := s.Get(ctx, key)
	if err != nil {
		return nil, 0, fmt.Errorf("loading %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil, version, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, 0, fmt.Errorf("decoding %s: %w", key, err)
	}
	return items, version, nil
}

// SaveList marshals items as a JSON list and replaces the collection stored
// under key, subject to the version check.
func SaveList[T any](ctx context.Context, s Store, key string, items []T, version int64) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.Put(ctx, key, data, version); err != nil {
		return fmt.Errorf("storing %s: %w", key, err)
	}
	return nil
}
