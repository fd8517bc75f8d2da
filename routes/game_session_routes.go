package routes

import (
	"github.com/gorilla/mux"

	"assume_server/controllers"
	"assume_server/services"
)

// RegisterGameSessionRoutes sets up routes for game sessions under /api/game-session
func RegisterGameSessionRoutes(r *mux.Router, gameSessionService *services.GameSessionService) {
	controller := controllers.NewGameSessionController(gameSessionService)

	gameRouter := r.PathPrefix("/api/game-session").Subrouter()
	gameRouter.HandleFunc("", controller.CreateGameSession).Methods("POST")
	gameRouter.HandleFunc("/{roomId}", controller.GetGameSession).Methods("GET")
	gameRouter.HandleFunc("/{roomId}", controller.UpdateGameSession).Methods("PATCH")
}
