package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"assume_server/models"
	"assume_server/utils"
)

// UserProfileService stores the optional profiles users attach to their
// wallet address. Profiles are never required for matchmaking.
type UserProfileService struct {
	Dynamo *DynamoService
}

// UpsertProfile creates or replaces a profile.
func (s *UserProfileService) UpsertProfile(ctx context.Context, profile models.UserProfile) (models.UserProfile, error) {
	if profile.UserID == "" {
		return models.UserProfile{}, errors.New("userId is required")
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if profile.CreatedAt == "" {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	if err := s.Dynamo.PutItem(ctx, models.UserProfilesTable, profile); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to store profile: %w", err)
	}
	return profile, nil
}

// GetProfile fetches a profile by user id.
func (s *UserProfileService) GetProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	var profile models.UserProfile
	if err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key, &profile); err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}

// IncrementInviteCount bumps a user's invite counter.
func (s *UserProfileService) IncrementInviteCount(ctx context.Context, userID string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	_, err := s.Dynamo.UpdateItem(ctx, models.UserProfilesTable,
		"ADD inviteCount :one",
		key,
		map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to increment invite count for %s: %w", userID, err)
	}
	return nil
}

// GetUsersWithUnsyncedInvites returns profiles whose invite count is ahead of
// the on-chain synced count and that carry a wallet address. The external
// reputation-sync scheduler consumes this view.
func (s *UserProfileService) GetUsersWithUnsyncedInvites(ctx context.Context) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := s.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, func(item map[string]types.AttributeValue) bool {
		if utils.ExtractString(item, "walletAddress") == "" {
			return false
		}
		return utils.ExtractInt(item, "inviteCount") > utils.ExtractInt(item, "inviteCountSynced")
	}, &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsynced profiles: %w", err)
	}
	if profiles == nil {
		profiles = []models.UserProfile{}
	}
	return profiles, nil
}

// MarkInvitesSynced records that a user's invite count reached the chain.
func (s *UserProfileService) MarkInvitesSynced(ctx context.Context, userID string, syncedCount int) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	_, err := s.Dynamo.UpdateItem(ctx, models.UserProfilesTable,
		"SET inviteCountSynced = :count",
		key,
		map[string]types.AttributeValue{
			":count": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", syncedCount)},
		},
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to mark invites synced for %s: %w", userID, err)
	}
	return nil
}
