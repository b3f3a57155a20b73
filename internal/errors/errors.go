// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ErrCampaignNotFound is returned both when a campaign does not exist and
// when it belongs to another user. Callers must not be able to tell the two
// apart.
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// IsCampaignNotFound reports whether err is an ErrCampaignNotFound.
func IsCampaignNotFound(err error) bool {
	var nf *ErrCampaignNotFound
	return errors.As(err, &nf)
}

// ErrDraftRejected means the ad platform declined the campaign draft.
var ErrDraftRejected = errors.New("ad platform rejected campaign draft")
