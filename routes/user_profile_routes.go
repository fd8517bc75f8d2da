package routes

import (
	"github.com/gorilla/mux"

	"assume_server/controllers"
	"assume_server/services"
)

// RegisterUserProfileRoutes sets up routes for profiles under /api/profile
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService) {
	controller := controllers.NewUserProfileController(userProfileService)

	profileRouter := r.PathPrefix("/api/profile").Subrouter()
	profileRouter.HandleFunc("", controller.UpsertProfile).Methods("POST", "PUT")
	profileRouter.HandleFunc("", controller.GetProfile).Methods("GET")
	profileRouter.HandleFunc("/unsynced-invites", controller.GetUnsyncedInvites).Methods("GET")
}
