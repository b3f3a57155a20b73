// internal/handler/campaign_handler.go
package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adlift/adcampaign-backend/internal/auth"
	appErrors "github.com/adlift/adcampaign-backend/internal/errors"
	"github.com/adlift/adcampaign-backend/internal/service"
)

// CampaignHandler holds the dependencies for campaign-related HTTP handlers
type CampaignHandler struct {
	Service *service.CampaignService
}

func NewCampaignHandler(svc *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{Service: svc}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("⚠️ failed to encode response:", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// campaignID parses the {id} route segment. A malformed id can never name an
// owned record, so it reads as not found rather than a bad request.
func campaignID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListCampaignsHandler returns all campaigns owned by the requester
func (h *CampaignHandler) ListCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.RequesterFrom(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Failed to fetch campaigns")
		return
	}

	campaigns, err := h.Service.ListCampaigns(requester)
	if err != nil {
		log.Println("⚠️ list campaigns failed:", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch campaigns")
		return
	}

	writeJSON(w, http.StatusOK, campaigns)
}

// CreateCampaignHandler persists a new campaign and requests an ad platform
// draft for it
func (h *CampaignHandler) CreateCampaignHandler(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.RequesterFrom(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Failed to create campaign")
		return
	}

	attrs := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&attrs); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	campaign, err := h.Service.CreateCampaign(requester, attrs)
	if err != nil {
		if err == appErrors.ErrDraftRejected {
			writeError(w, http.StatusBadRequest, "Failed to create campaign")
			return
		}
		log.Println("⚠️ create campaign failed:", err)
		writeError(w, http.StatusInternalServerError, "Failed to create campaign")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Campaign created successfully",
		"campaignId":  campaign.ID,
		"draftStatus": campaign.DraftStatus,
	})
}

// GetCampaignHandler returns a single owned campaign
func (h *CampaignHandler) GetCampaignHandler(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.RequesterFrom(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Failed to fetch campaign")
		return
	}

	id, ok := campaignID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Campaign not found")
		return
	}

	campaign, err := h.Service.GetCampaign(requester, id)
	if err != nil {
		if appErrors.IsCampaignNotFound(err) {
			writeError(w, http.StatusNotFound, "Campaign not found")
			return
		}
		log.Println("⚠️ get campaign failed:", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch campaign")
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}

// UpdateCampaignHandler merges the request body into an owned campaign
func (h *CampaignHandler) UpdateCampaignHandler(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.RequesterFrom(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Failed to update campaign")
		return
	}

	id, ok := campaignID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Campaign not found")
		return
	}

	attrs := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&attrs); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	campaign, err := h.Service.UpdateCampaign(requester, id, attrs)
	if err != nil {
		if appErrors.IsCampaignNotFound(err) {
			writeError(w, http.StatusNotFound, "Campaign not found")
			return
		}
		log.Println("⚠️ update campaign failed:", err)
		writeError(w, http.StatusInternalServerError, "Failed to update campaign")
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}

// DeleteCampaignHandler removes an owned campaign
func (h *CampaignHandler) DeleteCampaignHandler(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.RequesterFrom(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Failed to delete campaign")
		return
	}

	id, ok := campaignID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Campaign not found")
		return
	}

	if _, err := h.Service.DeleteCampaign(requester, id); err != nil {
		if appErrors.IsCampaignNotFound(err) {
			writeError(w, http.StatusNotFound, "Campaign not found")
			return
		}
		log.Println("⚠️ delete campaign failed:", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete campaign")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Campaign deleted successfully"})
}
