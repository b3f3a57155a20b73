package model_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/adlift/adcampaign-backend/internal/model"
)

func TestCampaignMarshalFlattensAttrs(t *testing.T) {
	c := &model.Campaign{
		ID:          3,
		UserID:      1,
		DraftStatus: model.DraftStatusPending,
		Attrs:       map[string]any{"name": "Spring Sale", "budget": 100},
		CreatedAt:   time.Now(),
	}

	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if doc["name"] != "Spring Sale" || doc["budget"] != float64(100) {
		t.Errorf("attrs not flattened: %v", doc)
	}
	if doc["id"] != float64(3) || doc["userId"] != float64(1) || doc["draftStatus"] != "pending" {
		t.Errorf("managed fields wrong: %v", doc)
	}
	if _, ok := doc["attrs"]; ok {
		t.Error("attrs must not appear as a nested key")
	}
}

func TestCampaignMarshalOmitsUnsetDraftStatus(t *testing.T) {
	c := &model.Campaign{ID: 1, UserID: 1, CreatedAt: time.Now()}

	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(b), "draftStatus") {
		t.Errorf("unset draft status must be omitted, got %s", b)
	}
}

func TestCampaignUnmarshalSplitsManagedFields(t *testing.T) {
	raw := `{"id":7,"userId":2,"draftStatus":"pending","name":"Spring Sale","budget":100}`

	var c model.Campaign
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if c.ID != 7 || c.UserID != 2 || c.DraftStatus != "pending" {
		t.Errorf("managed fields wrong: %+v", c)
	}
	if c.Attrs["name"] != "Spring Sale" || c.Attrs["budget"] != float64(100) {
		t.Errorf("client fields missing from attrs: %v", c.Attrs)
	}
	if _, ok := c.Attrs["userId"]; ok {
		t.Error("managed keys must not remain in attrs")
	}
}

func TestStripReservedAttrs(t *testing.T) {
	attrs := map[string]any{
		"name":         "Spring Sale",
		"userId":       9,
		"user_id":      9,
		"draftStatus":  "approved",
		"draft_status": "approved",
		"id":           1,
		"createdAt":    "2026-01-01T00:00:00Z",
	}
	model.StripReservedAttrs(attrs)

	if len(attrs) != 1 || attrs["name"] != "Spring Sale" {
		t.Errorf("expected only client fields to survive, got %v", attrs)
	}
}
