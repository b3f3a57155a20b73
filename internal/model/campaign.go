// internal/model/campaign.go
package model

import (
	"encoding/json"
	"time"
)

// Draft statuses assigned by this service. The ad platform may report
// further review states (approved, rejected, ...) which are stored verbatim.
const (
	DraftStatusUnset   = ""
	DraftStatusPending = "pending"
)

// Campaign is a user-owned campaign record. Everything the client supplies
// at create/update time (name, budget, targeting, ...) lives in Attrs and is
// treated opaquely; the service only manages identity, ownership and the
// draft status.
type Campaign struct {
	ID          int
	UserID      int
	DraftStatus string
	Attrs       map[string]any
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// reserved keys are owned by the service and never taken from client input
var reservedAttrs = []string{
	"id",
	"userId", "user_id",
	"draftStatus", "draft_status",
	"createdAt", "created_at",
	"updatedAt", "updated_at",
}

// StripReservedAttrs removes service-owned keys from a client-supplied
// attribute map so a request body can never overwrite id, userId or
// draftStatus.
func StripReservedAttrs(attrs map[string]any) {
	for _, k := range reservedAttrs {
		delete(attrs, k)
	}
}

// MarshalJSON flattens Attrs alongside the managed fields, matching the
// document shape clients send and receive.
func (c *Campaign) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(c.Attrs)+5)
	for k, v := range c.Attrs {
		doc[k] = v
	}
	doc["id"] = c.ID
	doc["userId"] = c.UserID
	if c.DraftStatus != DraftStatusUnset {
		doc["draftStatus"] = c.DraftStatus
	}
	doc["createdAt"] = c.CreatedAt
	if c.UpdatedAt != nil {
		doc["updatedAt"] = c.UpdatedAt
	}
	return json.Marshal(doc)
}

// UnmarshalJSON is the inverse of MarshalJSON: managed fields are pulled out
// and every remaining key lands in Attrs.
func (c *Campaign) UnmarshalJSON(data []byte) error {
	doc := map[string]any{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if v, ok := doc["id"].(float64); ok {
		c.ID = int(v)
	}
	if v, ok := doc["draftStatus"].(string); ok {
		c.DraftStatus = v
	}
	if v, ok := doc["userId"].(float64); ok {
		c.UserID = int(v)
	}
	if v, ok := doc["createdAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			c.CreatedAt = t
		}
	}
	if v, ok := doc["updatedAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			c.UpdatedAt = &t
		}
	}
	StripReservedAttrs(doc)
	c.Attrs = doc
	return nil
}
