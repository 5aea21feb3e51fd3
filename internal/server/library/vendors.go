package library

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"
)

const unknownVendor = "Unknown Vendor"

// VendorGroup is a derived, read-only view over a record set: records
// grouped by normalized vendor name with a count, mean score, and most
// recent timestamp. Groups have no stored identity and are recomputed on
// every read.
type VendorGroup struct {
	Name            string    `json:"name"`
	ProposalCount   int       `json:"proposalCount"`
	AvgScore        int       `json:"avgScore"`
	LastInteraction time.Time `json:"lastInteraction"`
	Items           []Record  `json:"items"`
}

// GroupByVendor is a pure function of the input record set. Group members
// are ordered newest first, the average score is the integer-rounded
// arithmetic mean, and groups are ordered by most recent interaction first.
func GroupByVendor(records []Record) []VendorGroup {
	byKey := make(map[string][]Record)
	displayName := make(map[string]string)
	var order []string

	for _, r := range records {
		name := strings.TrimSpace(r.VendorName)
		if name == "" {
			name = unknownVendor
		}
		key := strings.ToLower(name)
		if _, seen := byKey[key]; !seen {
			displayName[key] = name
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], r)
	}

	groups := make([]VendorGroup, 0, len(order))
	for _, key := range order {
		items := byKey[key]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Timestamp.After(items[j].Timestamp)
		})

		sum := 0
		for _, r := range items {
			sum += r.Score
		}

		groups = append(groups, VendorGroup{
			Name:            displayName[key],
			ProposalCount:   len(items),
			AvgScore:        int(math.Round(float64(sum) / float64(len(items)))),
			LastInteraction: items[0].Timestamp,
			Items:           items,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].LastInteraction.After(groups[j].LastInteraction)
	})
	return groups
}

// VendorGroupsPersonal computes the grouping over a user's personal records.
func (s *Service) VendorGroupsPersonal(ctx context.Context, userID string) ([]VendorGroup, error) {
	records, err := s.ListPersonal(ctx, userID)
	if err != nil {
		return nil, err
	}
	return GroupByVendor(records), nil
}

// VendorGroupsCollective computes the grouping over the collective partition.
func (s *Service) VendorGroupsCollective(ctx context.Context) ([]VendorGroup, error) {
	records, err := s.ListCollective(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByVendor(records), nil
}
