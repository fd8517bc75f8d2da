package routes

import (
	"github.com/gorilla/mux"

	"assume_server/controllers"
	"assume_server/services"
)

// RegisterFeedbackRoutes sets up routes for feedback operations under /api/feedback
func RegisterFeedbackRoutes(r *mux.Router, feedbackService *services.FeedbackService) {
	controller := controllers.NewFeedbackController(feedbackService)

	feedbackRouter := r.PathPrefix("/api/feedback").Subrouter()
	feedbackRouter.HandleFunc("", controller.CreateFeedback).Methods("POST")
	feedbackRouter.HandleFunc("", controller.GetFeedbackForUser).Methods("GET")
}
