// internal/service/campaign_service.go
package service

import (
	"log"

	"github.com/adlift/adcampaign-backend/internal/adplatform"
	"github.com/adlift/adcampaign-backend/internal/auth"
	appErrors "github.com/adlift/adcampaign-backend/internal/errors"
	"github.com/adlift/adcampaign-backend/internal/model"
	"github.com/adlift/adcampaign-backend/internal/queue"
	"github.com/adlift/adcampaign-backend/internal/repository"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Platform     adplatform.Client
	Queue        queue.Queue
}

// CreateCampaign persists a new campaign for the requester and registers a
// draft with the ad platform. On acceptance the draft status moves to
// pending; on rejection the already-persisted record is left as-is with the
// status unset and ErrDraftRejected is returned (the caller cannot tell a
// rejected create from no create at all).
func (s *CampaignService) CreateCampaign(requester auth.Requester, attrs map[string]any) (*model.Campaign, error) {
	if attrs == nil {
		attrs = map[string]any{}
	}
	model.StripReservedAttrs(attrs)

	c := &model.Campaign{
		UserID:      requester.UserID,
		DraftStatus: model.DraftStatusUnset,
		Attrs:       attrs,
	}
	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, err
	}

	resp, err := s.Platform.CreateCampaignDraft(c)
	if err != nil {
		log.Println("⚠️ ad platform draft call failed:", err)
		return nil, appErrors.ErrDraftRejected
	}
	if resp.Status != adplatform.StatusSuccess {
		return nil, appErrors.ErrDraftRejected
	}

	if err := s.CampaignRepo.UpdateDraftStatus(c.ID, model.DraftStatusPending); err != nil {
		return nil, err
	}
	c.DraftStatus = model.DraftStatusPending

	if s.Queue != nil {
		if err := s.Queue.Publish(queue.DraftSyncTopic, queue.DraftSyncJob{CampaignID: c.ID}); err != nil {
			log.Println("⚠️ failed to enqueue draft sync for campaign", c.ID, ":", err)
		}
	}

	return c, nil
}

// ListCampaigns returns every campaign owned by the requester.
func (s *CampaignService) ListCampaigns(requester auth.Requester) ([]*model.Campaign, error) {
	return s.CampaignRepo.ListByUser(requester.UserID)
}

// ownedCampaign resolves id and enforces ownership. A campaign that exists
// but belongs to another user is reported as not found, identically to one
// that does not exist.
func (s *CampaignService) ownedCampaign(id, userID int) (*model.Campaign, error) {
	c, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return c, nil
}

// GetCampaign fetches one owned campaign.
func (s *CampaignService) GetCampaign(requester auth.Requester, id int) (*model.Campaign, error) {
	return s.ownedCampaign(id, requester.UserID)
}

// UpdateCampaign shallow-merges attrs into an owned campaign and returns the
// updated record. Reserved keys in attrs are dropped, so the owner and the
// draft status cannot be changed through this path.
func (s *CampaignService) UpdateCampaign(requester auth.Requester, id int, attrs map[string]any) (*model.Campaign, error) {
	if _, err := s.ownedCampaign(id, requester.UserID); err != nil {
		return nil, err
	}
	if attrs == nil {
		attrs = map[string]any{}
	}
	model.StripReservedAttrs(attrs)
	return s.CampaignRepo.UpdateAttrs(id, attrs)
}

// DeleteCampaign removes an owned campaign and returns the deleted record.
func (s *CampaignService) DeleteCampaign(requester auth.Requester, id int) (*model.Campaign, error) {
	if _, err := s.ownedCampaign(id, requester.UserID); err != nil {
		return nil, err
	}
	return s.CampaignRepo.DeleteByID(id)
}
