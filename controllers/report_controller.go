package controllers

import (
	"encoding/json"
	"net/http"

	"assume_server/models"
	"assume_server/services"
)

// ReportController handles HTTP requests for peer reports
type ReportController struct {
	ReportService *services.ReportService
}

// NewReportController creates a new ReportController instance
func NewReportController(service *services.ReportService) *ReportController {
	return &ReportController{ReportService: service}
}

// CreateReport stores a new report
func (rc *ReportController) CreateReport(w http.ResponseWriter, r *http.Request) {
	var report models.Report
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	created, err := rc.ReportService.CreateReport(r.Context(), report)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// GetReports fetches reports, optionally filtered by reported peer
func (rc *ReportController) GetReports(w http.ResponseWriter, r *http.Request) {
	peerID := r.URL.Query().Get("peerId")

	reports, err := rc.ReportService.GetReports(r.Context(), peerID)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch reports"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"reports": reports,
	})
}
