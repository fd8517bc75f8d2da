package routes

import (
	"github.com/gorilla/mux"

	"assume_server/controllers"
	"assume_server/services"
)

// RegisterReportRoutes sets up routes for report operations under /api/report
func RegisterReportRoutes(r *mux.Router, reportService *services.ReportService) {
	controller := controllers.NewReportController(reportService)

	reportRouter := r.PathPrefix("/api/report").Subrouter()
	reportRouter.HandleFunc("", controller.CreateReport).Methods("POST")
	reportRouter.HandleFunc("", controller.GetReports).Methods("GET")
}
