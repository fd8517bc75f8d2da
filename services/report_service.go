package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"assume_server/models"
	"assume_server/utils"
)

// ReportService stores user reports filed against chat peers.
type ReportService struct {
	Dynamo *DynamoService
}

// CreateReport validates and stores a report.
func (s *ReportService) CreateReport(ctx context.Context, report models.Report) (models.Report, error) {
	if report.PeerID == "" {
		return models.Report{}, errors.New("peerId is required")
	}
	if report.Reasons == "" {
		return models.Report{}, errors.New("reasons is required")
	}
	report.ReportID = uuid.NewString()
	if report.Date == "" {
		report.Date = time.Now().UTC().Format(time.RFC3339)
	}

	if err := s.Dynamo.PutItem(ctx, models.ReportsTable, report); err != nil {
		return models.Report{}, fmt.Errorf("failed to store report: %w", err)
	}
	return report, nil
}

// GetReports returns all reports, optionally filtered to one reported peer.
func (s *ReportService) GetReports(ctx context.Context, peerID string) ([]models.Report, error) {
	var reports []models.Report
	err := s.Dynamo.ScanWithFilter(ctx, models.ReportsTable, func(item map[string]types.AttributeValue) bool {
		return peerID == "" || utils.ExtractString(item, "peerId") == peerID
	}, &reports)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, nil
}
