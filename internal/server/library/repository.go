package library

import (
	"context"

	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv"
)

// Repository stores the two library partitions, each as one blob. Replace
// calls must carry the version observed by the matching List; a stale
// version yields common.ErrVersionConflict.
type Repository interface {
	ListPersonal(ctx context.Context) ([]Record, int64, error)
	ReplacePersonal(ctx context.Context, records []Record, version int64) error
	ListCollective(ctx context.Context) ([]Record, int64, error)
	ReplaceCollective(ctx context.Context, records []Record, version int64) error
}

type KVRepository struct {
	store kv.Store
}

func NewKVRepository(store kv.Store) *KVRepository {
	return &KVRepository{store: store}
}

func (r *KVRepository) ListPersonal(ctx context.Context) ([]Record, int64, error) {
	return kv.LoadList[Record](ctx, r.store, kv.KeyPersonalLibrary)
}

func (r *KVRepository) ReplacePersonal(ctx context.Context, records []Record, version int64) error {
	return kv.SaveList(ctx, r.store, kv.KeyPersonalLibrary, records, version)
}

func (r *KVRepository) ListCollective(ctx context.Context) ([]Record, int64, error) {
	return kv.LoadList[Record](ctx, r.store, kv.KeyCollectiveLibrary)
}

func (r *KVRepository) ReplaceCollective(ctx context.Context, records []Record, version int64) error {
	return kv.SaveList(ctx, r.store, kv.KeyCollectiveLibrary, records, version)
}
