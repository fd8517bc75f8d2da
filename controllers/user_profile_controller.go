package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"assume_server/models"
	"assume_server/services"
)

// UserProfileController handles HTTP requests for user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new UserProfileController instance
func NewUserProfileController(service *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: service}
}

// UpsertProfile creates or replaces a profile
func (uc *UserProfileController) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	saved, err := uc.UserProfileService.UpsertProfile(r.Context(), profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(saved)
}

// GetProfile fetches a profile by user id
func (uc *UserProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	profile, err := uc.UserProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			http.Error(w, `{"error": "Profile not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error": "Failed to fetch profile"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// GetUnsyncedInvites returns profiles whose invites are ahead of the chain.
// Consumed by the external reputation-sync scheduler.
func (uc *UserProfileController) GetUnsyncedInvites(w http.ResponseWriter, r *http.Request) {
	profiles, err := uc.UserProfileService.GetUsersWithUnsyncedInvites(r.Context())
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch unsynced profiles"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"profiles": profiles,
	})
}
