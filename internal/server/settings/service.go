package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/proposalkeeper/internal/logging"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv"
)

// Service stores the application settings as a single blob. Get overlays
// the stored blob onto the defaults, so fields absent from storage fall
// back to their built-in values.
type Service struct {
	store kv.Store
	log   logging.Logger
}

func NewService(store kv.Store, log logging.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) Get(ctx context.Context) (Settings, error) {
	current := Defaults()

	data, _, err := s.store.Get(ctx, kv.KeySettings)
	if err != nil {
		return Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	if len(data) == 0 {
		return current, nil
	}
	if err := json.Unmarshal(data, &current); err != nil {
		// a corrupt blob must not lock users out of the defaults
		s.log.Error(ctx, "discarding unreadable settings blob", "error", err)
		return Defaults(), nil
	}
	return current, nil
}

func (s *Service) Save(ctx context.Context, settings Settings) error {
	return kv.WithRetry(ctx, func(ctx context.Context) error {
		_, version, err := s.store.Get(ctx, kv.KeySettings)
		if err != nil {
			return err
		}
		data, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		return s.store.Put(ctx, kv.KeySettings, data, version)
	})
}

// Reset drops the stored blob; subsequent reads return the defaults.
func (s *Service) Reset(ctx context.Context) (Settings, error) {
	if err := s.store.Delete(ctx, kv.KeySettings); err != nil {
		return Settings{}, fmt.Errorf("resetting settings: %w", err)
	}
	return Defaults(), nil
}
