package models

// Report is a user report filed against a chat peer.
type Report struct {
	ReportID string `dynamodbav:"reportId" json:"reportId"`
	PeerID   string `dynamodbav:"peerId" json:"peerId"`
	Reasons  string `dynamodbav:"reasons" json:"reasons"`
	Details  string `dynamodbav:"details,omitempty" json:"details,omitempty"`
	Date     string `dynamodbav:"date" json:"date"`
}

// ReportsTable is the DynamoDB table name for report records
const ReportsTable = "Reports"
