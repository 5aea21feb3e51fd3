// Package memos implements the free-text note store. Memos are scoped to an
// owner, optionally linked to one library record by identifier, and guarded
// against content-level duplicates: for a given owner no two memos may carry
// both an identical trimmed title and an identical trimmed body.
package memos

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
	"github.com/dmitrijs2005/proposalkeeper/internal/logging"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv"
)

// ErrEmptyBody rejects memo creation with no content.
var ErrEmptyBody = errors.New("memo body is empty")

const (
	titleLimit  = 30
	legacyLabel = "legacy"
)

// RecordSource answers whether a library record still exists. Used for
// orphan detection without coupling the memo store to the library's types.
type RecordSource interface {
	Exists(ctx context.Context, recordID string) (bool, error)
}

type Service struct {
	repo    Repository
	records RecordSource
	log     logging.Logger
}

func NewService(repo Repository, records RecordSource, log logging.Logger) *Service {
	return &Service{repo: repo, records: records, log: log}
}

// getAll loads the memo collection, applying the one-time legacy migration:
// a pre-structured single-string note blob is upconverted into one memo
// owned by ownerID and tagged with the legacy label.
func (s *Service) getAll(ctx context.Context, ownerID string) ([]Memo, int64, error) {
	memos, version, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	if len(memos) > 0 {
		return memos, version, nil
	}

	legacy, ok, err := s.repo.LegacyNote(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !ok || strings.TrimSpace(legacy) == "" {
		return memos, version, nil
	}

	now := time.Now()
	migrated := Memo{
		ID:        uuid.NewString(),
		Title:     deriveTitle(legacy),
		Body:      legacy,
		Labels:    []string{legacyLabel},
		CreatedAt: now,
		UpdatedAt: now,
		OwnerID:   ownerID,
	}

	if err := s.repo.ReplaceAll(ctx, []Memo{migrated}, version); err != nil {
		return nil, 0, err
	}
	if err := s.repo.ClearLegacyNote(ctx); err != nil {
		return nil, 0, err
	}
	s.log.Info(ctx, "migrated legacy note", "memo_id", migrated.ID, "owner_id", ownerID)

	return []Memo{migrated}, version + 1, nil
}

// Create stores a new memo. The title defaults to the first line of the
// body, truncated. An existing memo of the same owner with identical trimmed
// title and body makes the operation report ErrDuplicateMemo and write
// nothing; this is an idempotence guard rather than a hard failure.
func (s *Service) Create(ctx context.Context, ownerID, title, body string, labels []string, linkedRecordID string) (*Memo, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = deriveTitle(body)
	}

	now := time.Now()
	memo := Memo{
		ID:             uuid.NewString(),
		Title:          title,
		Body:           body,
		Labels:         normalizeLabels(labels),
		LinkedRecordID: linkedRecordID,
		CreatedAt:      now,
		UpdatedAt:      now,
		OwnerID:        ownerID,
	}

	err := kv.WithRetry(ctx, func(ctx context.Context) error {
		memos, version, err := s.getAll(ctx, ownerID)
		if err != nil {
			return err
		}
		for _, m := range memos {
			if m.OwnerID == ownerID &&
				strings.TrimSpace(m.Title) == title &&
				strings.TrimSpace(m.Body) == strings.TrimSpace(body) {
				return common.ErrDuplicateMemo
			}
		}
		return s.repo.ReplaceAll(ctx, append([]Memo{memo}, memos...), version)
	})
	if err != nil {
		return nil, err
	}
	return &memo, nil
}

// UpdateMemo overwrites the given fields unconditionally and refreshes the
// updated timestamp. The duplicate guard applies only to creation. Memos
// belong to their owner; touching someone else's memo is a permission error.
func (s *Service) UpdateMemo(ctx context.Context, ownerID, memoID string, update Update) error {
	return kv.WithRetry(ctx, func(ctx context.Context) error {
		memos, version, err := s.repo.ListAll(ctx)
		if err != nil {
			return err
		}
		for i := range memos {
			if memos[i].ID != memoID {
				continue
			}
			if memos[i].OwnerID != ownerID {
				return common.ErrPermissionDenied
			}
			if update.Title != nil {
				memos[i].Title = *update.Title
			}
			if update.Body != nil {
				memos[i].Body = *update.Body
				if update.Title == nil && strings.TrimSpace(memos[i].Title) == "" {
					memos[i].Title = deriveTitle(*update.Body)
				}
			}
			if update.Labels != nil {
				memos[i].Labels = normalizeLabels(*update.Labels)
			}
			if update.LinkedRecordID != nil {
				memos[i].LinkedRecordID = *update.LinkedRecordID
			}
			memos[i].UpdatedAt = time.Now()
			return s.repo.ReplaceAll(ctx, memos, version)
		}
		return common.ErrNotFound
	})
}

// DeleteMemo removes the owner's memo.
func (s *Service) DeleteMemo(ctx context.Context, ownerID, memoID string) error {
	return kv.WithRetry(ctx, func(ctx context.Context) error {
		memos, version, err := s.repo.ListAll(ctx)
		if err != nil {
			return err
		}
		kept := memos[:0:0]
		for _, m := range memos {
			if m.ID == memoID {
				if m.OwnerID != ownerID {
					return common.ErrPermissionDenied
				}
				continue
			}
			kept = append(kept, m)
		}
		if len(kept) == len(memos) {
			return common.ErrNotFound
		}
		return s.repo.ReplaceAll(ctx, kept, version)
	})
}

// List returns the owner's memos, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Memo, error) {
	memos, _, err := s.getAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var result []Memo
	for _, m := range memos {
		if m.OwnerID == ownerID {
			result = append(result, m)
		}
	}
	return result, nil
}

// ListByLinkedRecord returns the caller's memos linked to the given record,
// regardless of which partition the record currently lives in.
func (s *Service) ListByLinkedRecord(ctx context.Context, recordID, ownerID string) ([]Memo, error) {
	memos, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var result []Memo
	for _, m := range memos {
		if m.LinkedRecordID == recordID {
			result = append(result, m)
		}
	}
	return result, nil
}

// ListOrphaned returns the owner's memos whose linked record no longer
// exists in either library partition. Links are weak references, so orphans
// are expected after record deletion; this query feeds cleanup tooling.
func (s *Service) ListOrphaned(ctx context.Context, ownerID string) ([]Memo, error) {
	memos, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var result []Memo
	for _, m := range memos {
		if m.LinkedRecordID == "" {
			continue
		}
		exists, err := s.records.Exists(ctx, m.LinkedRecordID)
		if err != nil {
			return nil, err
		}
		if !exists {
			result = append(result, m)
		}
	}
	return result, nil
}

// deriveTitle takes the first line of body, truncated to titleLimit runes
// with an ellipsis marker.
func deriveTitle(body string) string {
	firstLine := strings.TrimSpace(strings.SplitN(body, "\n", 2)[0])
	runes := []rune(firstLine)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "..."
	}
	return firstLine
}

// normalizeLabels trims, lower-cases, and deduplicates the label set,
// dropping empties.
func normalizeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	result := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		result = append(result, l)
	}
	return result
}
