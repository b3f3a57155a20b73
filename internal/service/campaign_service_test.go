package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/adlift/adcampaign-backend/internal/adplatform"
	"github.com/adlift/adcampaign-backend/internal/auth"
	appErrors "github.com/adlift/adcampaign-backend/internal/errors"
	"github.com/adlift/adcampaign-backend/internal/model"
	"github.com/adlift/adcampaign-backend/internal/queue"
	"github.com/adlift/adcampaign-backend/internal/service"
)

// --- Mocks ---

// MemCampaignRepo is an in-memory stand-in for the Postgres repository.
type MemCampaignRepo struct {
	nextID    int
	campaigns map[int]*model.Campaign
	failAll   bool
}

func NewMemCampaignRepo() *MemCampaignRepo {
	return &MemCampaignRepo{campaigns: map[int]*model.Campaign{}}
}

func (m *MemCampaignRepo) Create(c *model.Campaign) error {
	if m.failAll {
		return errors.New("store unavailable")
	}
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	if c.Attrs == nil {
		c.Attrs = map[string]any{}
	}
	stored := *c
	m.campaigns[c.ID] = &stored
	return nil
}

func (m *MemCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	if m.failAll {
		return nil, errors.New("store unavailable")
	}
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	copied := *c
	return &copied, nil
}

func (m *MemCampaignRepo) ListByUser(userID int) ([]*model.Campaign, error) {
	if m.failAll {
		return nil, errors.New("store unavailable")
	}
	out := []*model.Campaign{}
	for _, c := range m.campaigns {
		if c.UserID == userID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MemCampaignRepo) UpdateAttrs(id int, attrs map[string]any) (*model.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	for k, v := range attrs {
		c.Attrs[k] = v
	}
	now := time.Now()
	c.UpdatedAt = &now
	copied := *c
	return &copied, nil
}

func (m *MemCampaignRepo) UpdateDraftStatus(id int, status string) error {
	c, ok := m.campaigns[id]
	if !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	c.DraftStatus = status
	return nil
}

func (m *MemCampaignRepo) DeleteByID(id int) (*model.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	delete(m.campaigns, id)
	return c, nil
}

// MockPlatform scripts the ad platform's answers.
type MockPlatform struct {
	DraftStatus  string // envelope status returned by CreateCampaignDraft
	DraftErr     error
	ReviewStatus string // returned by GetDraftStatus
	DraftCalls   int
}

func (p *MockPlatform) CreateCampaignDraft(c *model.Campaign) (*adplatform.DraftResponse, error) {
	p.DraftCalls++
	if p.DraftErr != nil {
		return nil, p.DraftErr
	}
	return &adplatform.DraftResponse{Status: p.DraftStatus}, nil
}

func (p *MockPlatform) GetDraftStatus(campaignID int) (string, error) {
	return p.ReviewStatus, nil
}

// MockQueue records publishes.
type MockQueue struct {
	Published []any
}

func (q *MockQueue) Publish(topic string, payload any) error {
	q.Published = append(q.Published, payload)
	return nil
}

func (q *MockQueue) Subscribe(topic string, handler func(payload any) error) error { return nil }

func newService(repo *MemCampaignRepo, platform *MockPlatform) (*service.CampaignService, *MockQueue) {
	q := &MockQueue{}
	return &service.CampaignService{
		CampaignRepo: repo,
		Platform:     platform,
		Queue:        q,
	}, q
}

// --- Tests ---

func TestCreateCampaignDraftAccepted(t *testing.T) {
	repo := NewMemCampaignRepo()
	platform := &MockPlatform{DraftStatus: adplatform.StatusSuccess}
	svc, q := newService(repo, platform)

	requester := auth.Requester{UserID: 1}
	c, err := svc.CreateCampaign(requester, map[string]any{
		"name":   "Spring Sale",
		"budget": 100,
		"userId": 99, // must be ignored
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.UserID != 1 {
		t.Errorf("expected userId 1, got %d", c.UserID)
	}
	if c.DraftStatus != model.DraftStatusPending {
		t.Errorf("expected draft status pending, got %q", c.DraftStatus)
	}
	if _, ok := c.Attrs["userId"]; ok {
		t.Error("reserved key userId leaked into attrs")
	}

	stored, err := repo.GetByID(c.ID)
	if err != nil {
		t.Fatalf("stored campaign missing: %v", err)
	}
	if stored.DraftStatus != model.DraftStatusPending {
		t.Errorf("expected stored draft status pending, got %q", stored.DraftStatus)
	}
	if stored.Attrs["name"] != "Spring Sale" {
		t.Errorf("expected name preserved, got %v", stored.Attrs["name"])
	}

	if len(q.Published) != 1 {
		t.Fatalf("expected 1 draft sync job published, got %d", len(q.Published))
	}
	job, ok := q.Published[0].(queue.DraftSyncJob)
	if !ok || job.CampaignID != c.ID {
		t.Errorf("unexpected published job: %+v", q.Published[0])
	}
}

func TestCreateCampaignDraftRejected(t *testing.T) {
	repo := NewMemCampaignRepo()
	platform := &MockPlatform{DraftStatus: "error"}
	svc, q := newService(repo, platform)

	_, err := svc.CreateCampaign(auth.Requester{UserID: 1}, map[string]any{"name": "Spring Sale"})
	if err != appErrors.ErrDraftRejected {
		t.Fatalf("expected ErrDraftRejected, got %v", err)
	}

	// The record is persisted but keeps its draft status unset.
	if len(repo.campaigns) != 1 {
		t.Fatalf("expected record to remain persisted, have %d", len(repo.campaigns))
	}
	for _, c := range repo.campaigns {
		if c.DraftStatus != model.DraftStatusUnset {
			t.Errorf("expected draft status unset after rejection, got %q", c.DraftStatus)
		}
	}

	if len(q.Published) != 0 {
		t.Errorf("no draft sync job should be published on rejection")
	}
}

func TestCreateCampaignPlatformUnreachable(t *testing.T) {
	repo := NewMemCampaignRepo()
	platform := &MockPlatform{DraftErr: errors.New("connection refused")}
	svc, _ := newService(repo, platform)

	_, err := svc.CreateCampaign(auth.Requester{UserID: 1}, map[string]any{"name": "Spring Sale"})
	if err != appErrors.ErrDraftRejected {
		t.Fatalf("expected ErrDraftRejected on transport error, got %v", err)
	}
}

func TestCreateCampaignStoreFailure(t *testing.T) {
	repo := NewMemCampaignRepo()
	repo.failAll = true
	platform := &MockPlatform{DraftStatus: adplatform.StatusSuccess}
	svc, _ := newService(repo, platform)

	_, err := svc.CreateCampaign(auth.Requester{UserID: 1}, map[string]any{"name": "Spring Sale"})
	if err == nil || err == appErrors.ErrDraftRejected {
		t.Fatalf("expected internal store error, got %v", err)
	}
	if platform.DraftCalls != 0 {
		t.Error("platform must not be called when the initial persist fails")
	}
}

func TestOwnershipMaskedAsNotFound(t *testing.T) {
	repo := NewMemCampaignRepo()
	platform := &MockPlatform{DraftStatus: adplatform.StatusSuccess}
	svc, _ := newService(repo, platform)

	owner := auth.Requester{UserID: 2}
	other := auth.Requester{UserID: 1}

	c, err := svc.CreateCampaign(owner, map[string]any{"name": "Owned"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.GetCampaign(other, c.ID); !appErrors.IsCampaignNotFound(err) {
		t.Errorf("get by non-owner: expected not-found, got %v", err)
	}
	if _, err := svc.UpdateCampaign(other, c.ID, map[string]any{"budget": 1}); !appErrors.IsCampaignNotFound(err) {
		t.Errorf("update by non-owner: expected not-found, got %v", err)
	}
	if _, err := svc.DeleteCampaign(other, c.ID); !appErrors.IsCampaignNotFound(err) {
		t.Errorf("delete by non-owner: expected not-found, got %v", err)
	}

	// The record must be untouched.
	if got, err := svc.GetCampaign(owner, c.ID); err != nil || got.Attrs["name"] != "Owned" {
		t.Errorf("owner's record was disturbed: %v %v", got, err)
	}
}

func TestUpdateCampaignKeepsOwner(t *testing.T) {
	repo := NewMemCampaignRepo()
	platform := &MockPlatform{DraftStatus: adplatform.StatusSuccess}
	svc, _ := newService(repo, platform)

	requester := auth.Requester{UserID: 1}
	c, err := svc.CreateCampaign(requester, map[string]any{"name": "Spring Sale", "budget": 100})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.UpdateCampaign(requester, c.ID, map[string]any{
		"budget": 200,
		"userId": 42, // smuggled owner change must be dropped
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Attrs["budget"] != 200 {
		t.Errorf("expected budget 200, got %v", updated.Attrs["budget"])
	}
	if updated.Attrs["name"] != "Spring Sale" {
		t.Errorf("shallow merge must keep untouched fields, got %v", updated.Attrs["name"])
	}
	if updated.UserID != 1 {
		t.Errorf("userId must be immutable, got %d", updated.UserID)
	}
}

func TestDeleteCampaignIdempotentNotFound(t *testing.T) {
	repo := NewMemCampaignRepo()
	platform := &MockPlatform{DraftStatus: adplatform.StatusSuccess}
	svc, _ := newService(repo, platform)

	requester := auth.Requester{UserID: 1}
	for i := 0; i < 2; i++ {
		if _, err := svc.DeleteCampaign(requester, 12345); !appErrors.IsCampaignNotFound(err) {
			t.Errorf("delete of absent id (attempt %d): expected not-found, got %v", i+1, err)
		}
	}
}

func TestListCampaignsOwnerScoped(t *testing.T) {
	repo := NewMemCampaignRepo()
	platform := &MockPlatform{DraftStatus: adplatform.StatusSuccess}
	svc, _ := newService(repo, platform)

	u1 := auth.Requester{UserID: 1}
	u2 := auth.Requester{UserID: 2}

	c1, _ := svc.CreateCampaign(u1, map[string]any{"name": "Mine"})
	c2, _ := svc.CreateCampaign(u2, map[string]any{"name": "Theirs"})

	mine, err := svc.ListCampaigns(u1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != c1.ID {
		t.Errorf("expected only campaign %d for user 1, got %+v", c1.ID, mine)
	}
	for _, c := range mine {
		if c.ID == c2.ID {
			t.Error("user 1's list must not contain user 2's campaign")
		}
	}
}
