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

// FeedbackService stores post-chat ratings.
type FeedbackService struct {
	Dynamo *DynamoService
}

// CreateFeedback validates and stores a feedback record.
func (s *FeedbackService) CreateFeedback(ctx context.Context, feedback models.Feedback) (models.Feedback, error) {
	if feedback.FeedbackBy == "" || feedback.FeedbackTo == "" {
		return models.Feedback{}, errors.New("feedbackBy and feedbackTo are required")
	}
	if feedback.Comment == "" {
		return models.Feedback{}, errors.New("comment is required")
	}
	if feedback.Rating < 1 || feedback.Rating > 5 {
		return models.Feedback{}, errors.New("rating must be between 1 and 5")
	}
	feedback.FeedbackID = uuid.NewString()
	feedback.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.Dynamo.PutItem(ctx, models.FeedbacksTable, feedback); err != nil {
		return models.Feedback{}, fmt.Errorf("failed to store feedback: %w", err)
	}
	return feedback, nil
}

// GetFeedbackForUser returns all feedback left about a user.
func (s *FeedbackService) GetFeedbackForUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	err := s.Dynamo.ScanWithFilter(ctx, models.FeedbacksTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "feedbackTo") == userID
	}, &feedbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feedback for %s: %w", userID, err)
	}
	if feedbacks == nil {
		feedbacks = []models.Feedback{}
	}
	return feedbacks, nil
}
