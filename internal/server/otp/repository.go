package otp

import (
	"context"

	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv"
)

// Repository stores the full OTP entry collection as one blob.
type Repository interface {
	ListAll(ctx context.Context) ([]Entry, int64, error)
	ReplaceAll(ctx context.Context, entries []Entry, version int64) error
}

type KVRepository struct {
	store kv.Store
}

func NewKVRepository(store kv.Store) *KVRepository {
	return &KVRepository{store: store}
}

func (r *KVRepository) ListAll(ctx context.Context) ([]Entry, int64, error) {
	return kv.LoadList[Entry](ctx, r.store, kv.KeyOTPEntries)
}

func (r *KVRepository) ReplaceAll(ctx context.Context, entries []Entry, version int64) error {
	return kv.SaveList(ctx, r.store, kv.KeyOTPEntries, entries, version)
}
