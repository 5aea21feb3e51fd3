package colleagues

import (
	"context"

	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv"
)

// Repository stores each owner's colleague list under a per-owner key.
type Repository interface {
	ListAll(ctx context.Context, ownerID string) ([]Colleague, int64, error)
	ReplaceAll(ctx context.Context, ownerID string, list []Colleague, version int64) error
}

type KVRepository struct {
	store kv.Store
}

func NewKVRepository(store kv.Store) *KVRepository {
	return &KVRepository{store: store}
}

func (r *KVRepository) ListAll(ctx context.Context, ownerID string) ([]Colleague, int64, error) {
	return kv.LoadList[Colleague](ctx, r.store, kv.ColleaguesKey(ownerID))
}

func (r *KVRepository) ReplaceAll(ctx context.Context, ownerID string, list []Colleague, version int64) error {
	return kv.SaveList(ctx, r.store, kv.ColleaguesKey(ownerID), list, version)
}
