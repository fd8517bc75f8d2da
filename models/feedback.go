package models

// Feedback is a post-chat rating left by one anonymous user about another.
type Feedback struct {
	FeedbackID string `dynamodbav:"feedbackId" json:"feedbackId"`
	FeedbackBy string `dynamodbav:"feedbackBy" json:"feedbackBy"`
	FeedbackTo string `dynamodbav:"feedbackTo" json:"feedbackTo"`
	Comment    string `dynamodbav:"comment" json:"comment"`
	Rating     int    `dynamodbav:"rating" json:"rating"` // 1..5
	IsBurst    bool   `dynamodbav:"isBurst" json:"isBurst"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

// FeedbacksTable is the DynamoDB table name for feedback records
const FeedbacksTable = "Feedbacks"
