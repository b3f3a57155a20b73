package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	appErrors "github.com/adlift/adcampaign-backend/internal/errors"
	"github.com/adlift/adcampaign-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	ListByUser(userID int) ([]*model.Campaign, error)
	Create(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)
	UpdateAttrs(id int, attrs map[string]any) (*model.Campaign, error)
	UpdateDraftStatus(id int, status string) error
	DeleteByID(id int) (*model.Campaign, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, user_id, draft_status, attrs, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
	var c model.Campaign
	var attrs []byte
	if err := row.Scan(&c.ID, &c.UserID, &c.DraftStatus, &attrs, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &c.Attrs); err != nil {
			return nil, err
		}
	}
	if c.Attrs == nil {
		c.Attrs = map[string]any{}
	}
	return &c, nil
}

// Create inserts a new campaign and assigns its ID.
func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Attrs == nil {
		c.Attrs = map[string]any{}
	}
	attrs, err := json.Marshal(c.Attrs)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO campaigns (user_id, draft_status, attrs, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	return r.DB.QueryRow(query, c.UserID, c.DraftStatus, attrs, c.CreatedAt).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1`
	c, err := scanCampaign(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

// ListByUser returns every campaign owned by userID, newest first.
func (r *CampaignRepository) ListByUser(userID int) ([]*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE user_id=$1 ORDER BY id DESC`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// UpdateAttrs shallow-merges attrs into the stored document and returns the
// updated row. user_id and draft_status are separate columns and cannot be
// touched here.
func (r *CampaignRepository) UpdateAttrs(id int, attrs map[string]any) (*model.Campaign, error) {
	if attrs == nil {
		attrs = map[string]any{}
	}
	patch, err := json.Marshal(attrs)
	if err != nil {
		return nil, err
	}
	query := `
        UPDATE campaigns
        SET attrs = attrs || $1::jsonb, updated_at = NOW()
        WHERE id = $2
        RETURNING ` + campaignColumns
	c, err := scanCampaign(r.DB.QueryRow(query, patch, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) UpdateDraftStatus(id int, status string) error {
	query := `UPDATE campaigns SET draft_status=$1, updated_at=$2 WHERE id=$3`
	_, err := r.DB.Exec(query, status, time.Now(), id)
	return err
}

// DeleteByID removes the campaign and returns the deleted row for
// confirmation.
func (r *CampaignRepository) DeleteByID(id int) (*model.Campaign, error) {
	query := `DELETE FROM campaigns WHERE id=$1 RETURNING ` + campaignColumns
	c, err := scanCampaign(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
