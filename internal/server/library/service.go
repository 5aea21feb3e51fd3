// Package library implements the record ownership and visibility state
// machine at the heart of ProposalKeeper. A record is created in the
// personal partition of its uploader, may be published into the shared
// collective partition (removing the personal copy and attaching uploader
// provenance), may be saved back into any viewer's personal partition as an
// owned fork, and may be deleted subject to the partition's permission rule.
package library

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
	"github.com/dmitrijs2005/proposalkeeper/internal/logging"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/users"
)

type Service struct {
	repo Repository
	log  logging.Logger
}

func NewService(repo Repository, log logging.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create stores a new record in the owner's personal partition. Records are
// born personal; the collective partition is reachable only via Publish.
func (s *Service) Create(ctx context.Context, owner users.User, fileName, vendorName string, score int, payload json.RawMessage) (*Record, error) {
	record := Record{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		FileName:   fileName,
		VendorName: vendorName,
		Score:      score,
		Data:       payload,
		OwnerID:    owner.ID,
	}

	err := kv.WithRetry(ctx, func(ctx context.Context) error {
		records, version, err := s.repo.ListPersonal(ctx)
		if err != nil {
			return err
		}
		// newest first
		return s.repo.ReplacePersonal(ctx, append([]Record{record}, records...), version)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "record created", "record_id", record.ID, "owner_id", owner.ID)
	return &record, nil
}

// ListPersonal returns the records owned by userID, newest first.
func (s *Service) ListPersonal(ctx context.Context, userID string) ([]Record, error) {
	records, _, err := s.repo.ListPersonal(ctx)
	if err != nil {
		return nil, err
	}
	var result []Record
	for _, r := range records {
		if r.OwnerID == userID {
			result = append(result, r)
		}
	}
	return result, nil
}

// ListCollective returns every published record regardless of caller.
func (s *Service) ListCollective(ctx context.Context) ([]Record, error) {
	records, _, err := s.repo.ListCollective(ctx)
	return records, err
}

// Exists reports whether a record with the given identifier lives in either
// partition. Used by memo cleanup tooling to detect orphaned links.
func (s *Service) Exists(ctx context.Context, recordID string) (bool, error) {
	personal, _, err := s.repo.ListPersonal(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range personal {
		if r.ID == recordID {
			return true, nil
		}
	}
	collective, _, err := s.repo.ListCollective(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range collective {
		if r.ID == recordID {
			return true, nil
		}
	}
	return false, nil
}

// Publish moves the record into the collective partition: the collective
// copy gets the acting user's provenance attached (overwriting any prior
// uploader) and the personal copy is removed in the same operation. If the
// identifier already exists in collective, the entry is overwritten rather
// than duplicated, which makes republishing after edits and re-running a
// partially failed group publish safe.
func (s *Service) Publish(ctx context.Context, recordID string, actor users.User) error {
	return kv.WithRetry(ctx, func(ctx context.Context) error {
		personal, personalVersion, err := s.repo.ListPersonal(ctx)
		if err != nil {
			return err
		}

		idx := -1
		for i, r := range personal {
			if r.ID == recordID {
				idx = i
				break
			}
		}

		collective, collectiveVersion, err := s.repo.ListCollective(ctx)
		if err != nil {
			return err
		}

		if idx < 0 {
			// Already moved by a prior (possibly partially failed) run.
			for _, r := range collective {
				if r.ID == recordID {
					return nil
				}
			}
			return common.ErrNotFound
		}

		published := personal[idx]
		published.Uploader = &UploaderInfo{
			ID:        actor.ID,
			FirstName: actor.DisplayFirstName(),
			LastName:  actor.LastName,
		}
		published.Published = true

		replaced := false
		for i, r := range collective {
			if r.ID == recordID {
				collective[i] = published
				replaced = true
				break
			}
		}
		if !replaced {
			collective = append([]Record{published}, collective...)
		}

		if err := s.repo.ReplaceCollective(ctx, collective, collectiveVersion); err != nil {
			return err
		}

		remaining := append(personal[:idx:idx], personal[idx+1:]...)
		if err := s.repo.ReplacePersonal(ctx, remaining, personalVersion); err != nil {
			return err
		}

		s.log.Info(ctx, "record published", "record_id", recordID, "uploader_id", actor.ID)
		return nil
	})
}

// PublishGroup applies Publish to each identifier in order. The operation is
// not atomic across the set: a failure partway through leaves earlier
// members published and later ones personal. Publish is idempotent per
// record, so re-running the group is safe.
func (s *Service) PublishGroup(ctx context.Context, recordIDs []string, actor users.User) error {
	for _, id := range recordIDs {
		if err := s.Publish(ctx, id, actor); err != nil {
			return err
		}
	}
	return nil
}

// SaveToPersonal copies a collective record into the acting user's personal
// partition, reassigning ownership to the saver. This is a fork, not a
// move: the collective copy is untouched. An existing personal copy with
// the same identifier is overwritten.
func (s *Service) SaveToPersonal(ctx context.Context, recordID string, actor users.User) (*Record, error) {
	var saved *Record

	err := kv.WithRetry(ctx, func(ctx context.Context) error {
		collective, _, err := s.repo.ListCollective(ctx)
		if err != nil {
			return err
		}

		var source *Record
		for i := range collective {
			if collective[i].ID == recordID {
				source = &collective[i]
				break
			}
		}
		if source == nil {
			return common.ErrNotFound
		}

		fork := *source
		fork.OwnerID = actor.ID

		personal, version, err := s.repo.ListPersonal(ctx)
		if err != nil {
			return err
		}

		replaced := false
		for i, r := range personal {
			if r.ID == recordID && r.OwnerID == actor.ID {
				personal[i] = fork
				replaced = true
				break
			}
		}
		if !replaced {
			personal = append([]Record{fork}, personal...)
		}

		if err := s.repo.ReplacePersonal(ctx, personal, version); err != nil {
			return err
		}
		saved = &fork
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "record saved to personal", "record_id", recordID, "owner_id", actor.ID)
	return saved, nil
}

// DeletePersonal removes a personal record. Only the owner may delete it.
func (s *Service) DeletePersonal(ctx context.Context, recordID string, actor users.User) error {
	return kv.WithRetry(ctx, func(ctx context.Context) error {
		records, version, err := s.repo.ListPersonal(ctx)
		if err != nil {
			return err
		}
		for i, r := range records {
			if r.ID != recordID {
				continue
			}
			if r.OwnerID != actor.ID {
				return common.ErrPermissionDenied
			}
			return s.repo.ReplacePersonal(ctx, append(records[:i:i], records[i+1:]...), version)
		}
		return common.ErrNotFound
	})
}

// DeleteCollective removes a published record. Only the original uploader or
// an admin may delete it; anyone else gets ErrPermissionDenied and the
// partition is unchanged.
func (s *Service) DeleteCollective(ctx context.Context, recordID string, actor users.User) error {
	return kv.WithRetry(ctx, func(ctx context.Context) error {
		records, version, err := s.repo.ListCollective(ctx)
		if err != nil {
			return err
		}
		for i, r := range records {
			if r.ID != recordID {
				continue
			}
			if !actor.IsAdmin() && (r.Uploader == nil || r.Uploader.ID != actor.ID) {
				return common.ErrPermissionDenied
			}
			return s.repo.ReplaceCollective(ctx, append(records[:i:i], records[i+1:]...), version)
		}
		return common.ErrNotFound
	})
}
