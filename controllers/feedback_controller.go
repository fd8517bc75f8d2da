package controllers

import (
	"encoding/json"
	"net/http"

	"assume_server/models"
	"assume_server/services"
)

// FeedbackController handles HTTP requests for post-chat feedback
type FeedbackController struct {
	FeedbackService *services.FeedbackService
}

// NewFeedbackController creates a new FeedbackController instance
func NewFeedbackController(service *services.FeedbackService) *FeedbackController {
	return &FeedbackController{FeedbackService: service}
}

// CreateFeedback stores a new feedback record
func (fc *FeedbackController) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	var feedback models.Feedback
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	created, err := fc.FeedbackService.CreateFeedback(r.Context(), feedback)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// GetFeedbackForUser fetches all feedback left about a user
func (fc *FeedbackController) GetFeedbackForUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	feedbacks, err := fc.FeedbackService.GetFeedbackForUser(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch feedback"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"feedback": feedbacks,
	})
}
