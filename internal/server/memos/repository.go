package memos

import (
	"context"

	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv"
)

// Repository stores the memo collection as one blob, plus access to the
// pre-structured legacy note blob for the one-time shape migration.
type Repository interface {
	ListAll(ctx context.Context) ([]Memo, int64, error)
	ReplaceAll(ctx context.Context, memos []Memo, version int64) error
	LegacyNote(ctx context.Context) (string, bool, error)
	ClearLegacyNote(ctx context.Context) error
}

type KVRepository struct {
	store kv.Store
}

func NewKVRepository(store kv.Store) *KVRepository {
	return &KVRepository{store: store}
}

func (r *KVRepository) ListAll(ctx context.Context) ([]Memo, int64, error) {
	return kv.LoadList[Memo](ctx, r.store, kv.KeyMemos)
}

func (r *KVRepository) ReplaceAll(ctx context.Context, memos []Memo, version int64) error {
	return kv.SaveList(ctx, r.store, kv.KeyMemos, memos, version)
}

func (r *KVRepository) LegacyNote(ctx context.Context) (string, bool, error) {
	data, _, err := r.store.Get(ctx, kv.KeyLegacyNotes)
	if err != nil {
		return "", false, err
	}
	if len(data) == 0 {
		return "", false, nil
	}
	return string(data), true, nil
}

func (r *KVRepository) ClearLegacyNote(ctx context.Context) error {
	return r.store.Delete(ctx, kv.KeyLegacyNotes)
}
