package memos

import "time"

// Memo is a free-text note owned by exactly one user, optionally linked to a
// library record. The link is a weak reference: the memo survives deletion
// of the linked record as an orphaned pointer.
type Memo struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"content"`
	Labels         []string  `json:"labels"`
	LinkedRecordID string    `json:"linkedProposalId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"lastUpdatedAt"`
	OwnerID        string    `json:"ownerId"`
}

// Update carries a partial memo update; nil fields are untouched.
type Update struct {
	Title          *string
	Body           *string
	Labels         *[]string
	LinkedRecordID *string
}
