package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"assume_server/models"
	"assume_server/services"
)

// GameSessionController handles HTTP requests for room game sessions
type GameSessionController struct {
	GameSessionService *services.GameSessionService
}

// NewGameSessionController creates a new GameSessionController instance
func NewGameSessionController(service *services.GameSessionService) *GameSessionController {
	return &GameSessionController{GameSessionService: service}
}

// CreateGameSession stores a fresh session for a room
func (gc *GameSessionController) CreateGameSession(w http.ResponseWriter, r *http.Request) {
	var session models.GameSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	created, err := gc.GameSessionService.CreateGameSession(r.Context(), session)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// GetGameSession fetches the session for a room
func (gc *GameSessionController) GetGameSession(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	session, err := gc.GameSessionService.GetGameSession(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			http.Error(w, `{"error": "Game session not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error": "Failed to fetch game session"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

// UpdateGameSession merges updates into the session for a room
func (gc *GameSessionController) UpdateGameSession(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	var updates models.GameSession
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	updated, err := gc.GameSessionService.UpdateGameSession(r.Context(), roomID, updates)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			http.Error(w, `{"error": "Game session not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}
