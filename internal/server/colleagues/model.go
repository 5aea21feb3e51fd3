package colleagues

import "time"

// Colleague is a directed edge from an owner to another user; adding A→B
// does not add B→A.
type Colleague struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	AddedAt  time.Time `json:"addedAt"`
}
