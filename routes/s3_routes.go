package routes

import (
	"github.com/gorilla/mux"

	"assume_server/controllers"
	"assume_server/services"
)

// RegisterS3Routes sets up presigned URL routes under /api/s3
func RegisterS3Routes(r *mux.Router, s3Service *services.S3Service) {
	controller := controllers.NewS3Controller(s3Service)

	s3Router := r.PathPrefix("/api/s3").Subrouter()
	s3Router.HandleFunc("/upload-url", controller.GetUploadURL).Methods("POST")
	s3Router.HandleFunc("/read-url", controller.GetReadURL).Methods("GET")
}
