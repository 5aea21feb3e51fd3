// Package colleagues maintains the per-user colleague adjacency list used
// for sharing target selection.
package colleagues

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/users"
)

type Service struct {
	repo  Repository
	users *users.Service
}

func NewService(repo Repository, userService *users.Service) *Service {
	return &Service{repo: repo, users: userService}
}

// List returns the owner's colleagues.
func (s *Service) List(ctx context.Context, ownerID string) ([]Colleague, error) {
	list, _, err := s.repo.ListAll(ctx, ownerID)
	return list, err
}

// Add resolves colleagueUsername and appends an edge owner→colleague.
// Unknown usernames, self-edges, and duplicates are rejected.
func (s *Service) Add(ctx context.Context, ownerID, colleagueUsername string) (*Colleague, error) {
	target, err := s.users.FindByUsername(ctx, colleagueUsername)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if target.ID == ownerID {
		return nil, common.ErrSelfColleague
	}

	edge := Colleague{
		UserID:   target.ID,
		Username: target.Username,
		AddedAt:  time.Now(),
	}

	err = kv.WithRetry(ctx, func(ctx context.Context) error {
		list, version, err := s.repo.ListAll(ctx, ownerID)
		if err != nil {
			return err
		}
		for _, c := range list {
			if c.UserID == target.ID {
				return common.ErrDuplicateColleague
			}
		}
		return s.repo.ReplaceAll(ctx, ownerID, append(list, edge), version)
	})
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// Remove deletes the edge owner→colleagueID if present.
func (s *Service) Remove(ctx context.Context, ownerID, colleagueID string) error {
	return kv.WithRetry(ctx, func(ctx context.Context) error {
		list, version, err := s.repo.ListAll(ctx, ownerID)
		if err != nil {
			return err
		}
		kept := list[:0:0]
		for _, c := range list {
			if c.UserID != colleagueID {
				kept = append(kept, c)
			}
		}
		return s.repo.ReplaceAll(ctx, ownerID, kept, version)
	})
}
