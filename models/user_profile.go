package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID            string `dynamodbav:"userId" json:"userId"`
	UserName          string `dynamodbav:"userName,omitempty" json:"userName,omitempty"`
	Bio               string `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Language          string `dynamodbav:"language,omitempty" json:"language,omitempty"`
	WalletAddress     string `dynamodbav:"walletAddress,omitempty" json:"walletAddress,omitempty"`
	PhotoKey          string `dynamodbav:"photoKey,omitempty" json:"photoKey,omitempty"`
	InviteCount       int    `dynamodbav:"inviteCount" json:"inviteCount"`
	InviteCountSynced int    `dynamodbav:"inviteCountSynced" json:"inviteCountSynced"`
	CreatedAt         string `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt         string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
