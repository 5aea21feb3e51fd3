package library

import (
	"encoding/json"
	"time"
)

// UploaderInfo is the provenance attached to a record once it enters the
// collective partition.
type UploaderInfo struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Record is one analysed proposal. The identifier is assigned at creation
// and stays stable for the record's lifetime across both partitions. Data is
// the full analysis payload, opaque to this store.
type Record struct {
	ID         string          `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	FileName   string          `json:"fileName"`
	VendorName string          `json:"vendorName"`
	Score      int             `json:"score"`
	Data       json.RawMessage `json:"data,omitempty"`
	OwnerID    string          `json:"ownerId"`
	Uploader   *UploaderInfo   `json:"uploader,omitempty"`
	Published  bool            `json:"isPublished,omitempty"`
}
