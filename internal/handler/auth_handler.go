// internal/handler/auth_handler.go
package handler

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/adlift/adcampaign-backend/internal/auth"
	"github.com/adlift/adcampaign-backend/internal/repository"
)

// AuthHandler exchanges a verified OAuth profile for a session token. The
// caller is the OAuth gateway in front of this service, which has already
// verified the profile with Google; it authenticates itself with the shared
// internal key.
type AuthHandler struct {
	Users         repository.UserRepositoryInterface
	SessionSecret []byte
	InternalKey   string
	SessionTTL    time.Duration
}

func (h *AuthHandler) GoogleCallbackHandler(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("X-Internal-Key")
	if h.InternalKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.InternalKey)) != 1 {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var profile struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		Email       string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil || profile.ID == "" {
		writeError(w, http.StatusBadRequest, "invalid profile")
		return
	}

	user, err := auth.ResolveOrCreateUser(h.Users, auth.GoogleProfile{
		ID:          profile.ID,
		DisplayName: profile.DisplayName,
		Email:       profile.Email,
	})
	if err != nil {
		log.Println("⚠️ resolve user failed:", err)
		writeError(w, http.StatusInternalServerError, "Failed to resolve user")
		return
	}

	ttl := h.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token, err := auth.MintSessionToken(h.SessionSecret, user.ID, ttl)
	if err != nil {
		log.Println("⚠️ mint session token failed:", err)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}
