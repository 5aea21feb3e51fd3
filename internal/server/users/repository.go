package users

import (
	"context"

	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv"
)

// Repository stores the full user collection plus the active-session pointer.
// ReplaceAll must be called with the version returned by the matching
// ListAll; a stale version yields common.ErrVersionConflict.
type Repository interface {
	ListAll(ctx context.Context) ([]User, int64, error)
	ReplaceAll(ctx context.Context, users []User, version int64) error
	ActiveUserID(ctx context.Context) (string, error)
	SetActiveUserID(ctx context.Context, userID string) error
	ClearActiveUser(ctx context.Context) error
}

// KVRepository keeps the user collection under a single key in the shared
// blob store.
type KVRepository struct {
	store kv.Store
}

func NewKVRepository(store kv.Store) *KVRepository {
	return &KVRepository{store: store}
}

func (r *KVRepository) ListAll(ctx context.Context) ([]User, int64, error) {
	return kv.LoadList[User](ctx, r.store, kv.KeyUsers)
}

func (r *KVRepository) ReplaceAll(ctx context.Context, users []User, version int64) error {
	return kv.SaveList(ctx, r.store, kv.KeyUsers, users, version)
}

func (r *KVRepository) ActiveUserID(ctx context.Context) (string, error) {
	data, _, err := r.store.Get(ctx, kv.KeyActiveUser)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *KVRepository) SetActiveUserID(ctx context.Context, userID string) error {
	_, version, err := r.store.Get(ctx, kv.KeyActiveUser)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, kv.KeyActiveUser, []byte(userID), version)
}

func (r *KVRepository) ClearActiveUser(ctx context.Context) error {
	return r.store.Delete(ctx, kv.KeyActiveUser)
}
