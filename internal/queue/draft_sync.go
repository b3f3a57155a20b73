package queue

import (
	"log"

	"github.com/adlift/adcampaign-backend/internal/adplatform"
	appErrors "github.com/adlift/adcampaign-backend/internal/errors"
	"github.com/adlift/adcampaign-backend/internal/repository"
)

// SyncDraftStatus re-reads the review status the ad platform holds for the
// campaign's draft and persists it when it has changed. Returning an error
// triggers a retry in the queue.
func SyncDraftStatus(campaignID int, campaignRepo repository.CampaignRepositoryInterface, platform adplatform.Client) error {
	campaign, err := campaignRepo.GetByID(campaignID)
	if err != nil {
		if appErrors.IsCampaignNotFound(err) {
			// deleted since the job was queued, nothing to sync
			return nil
		}
		return err
	}

	status, err := platform.GetDraftStatus(campaignID)
	if err != nil {
		return err
	}
	if status == "" || status == campaign.DraftStatus {
		return nil
	}

	return campaignRepo.UpdateDraftStatus(campaignID, status)
}

// StartDraftSyncSubscriber wires the draft sync handler onto q for servers
// running with the in-memory queue.
func StartDraftSyncSubscriber(q Queue, campaignRepo repository.CampaignRepositoryInterface, platform adplatform.Client) {
	go func() {
		err := q.Subscribe(DraftSyncTopic, func(payload any) error {
			job, ok := payload.(DraftSyncJob)
			if !ok {
				log.Println("⚠️ Invalid payload type, expected DraftSyncJob")
				return nil
			}
			return SyncDraftStatus(job.CampaignID, campaignRepo, platform)
		})
		if err != nil {
			log.Println("⚠️ Failed to start subscriber for", DraftSyncTopic, ":", err)
		}
	}()
}
