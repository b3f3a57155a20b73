// internal/adplatform/client.go
package adplatform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/adlift/adcampaign-backend/internal/model"
)

const (
	draftsEndpoint      = "%s/v1/campaignDrafts"
	draftStatusEndpoint = "%s/v1/campaignDrafts/%d"
)

// StatusSuccess is the only platform status treated as acceptance; anything
// else, or a transport error, counts as rejection.
const StatusSuccess = "success"

// DraftResponse is the platform's response envelope.
type DraftResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Client is the ad platform surface this service consumes.
type Client interface {
	CreateCampaignDraft(c *model.Campaign) (*DraftResponse, error)
	GetDraftStatus(campaignID int) (string, error)
}

// HTTPClient talks to the real platform API.
type HTTPClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateCampaignDraft submits the campaign as a provisional draft.
func (c *HTTPClient) CreateCampaignDraft(campaign *model.Campaign) (*DraftResponse, error) {
	body, err := json.Marshal(campaign)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(draftsEndpoint, c.BaseURL)
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("ad platform returned %d", resp.StatusCode)
	}

	var envelope DraftResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// GetDraftStatus fetches the current review status the platform holds for
// the draft created from campaignID.
func (c *HTTPClient) GetDraftStatus(campaignID int) (string, error) {
	endpoint := fmt.Sprintf(draftStatusEndpoint, c.BaseURL, campaignID)
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ad platform returned %d", resp.StatusCode)
	}

	var envelope DraftResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", err
	}
	if envelope.Status != StatusSuccess {
		return "", fmt.Errorf("ad platform status %q: %s", envelope.Status, envelope.Error)
	}

	var data struct {
		DraftStatus string `json:"draftStatus"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return "", err
	}
	return data.DraftStatus, nil
}

var _ Client = (*HTTPClient)(nil)
