package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"assume_server/models"
)

// gameStatusTransitions lists the legal forward moves of a session.
var gameStatusTransitions = map[string][]string{
	models.GameStatusWaiting:        {models.GameStatusOnchainPending, models.GameStatusLive},
	models.GameStatusOnchainPending: {models.GameStatusLive},
	models.GameStatusLive:           {models.GameStatusMovesSubmitted},
	models.GameStatusMovesSubmitted: {models.GameStatusSettled},
	models.GameStatusSettled:        {},
}

// GameSessionService stores the on-chain mini-game documents attached to
// chat rooms. It only records state; transactions happen client-side.
type GameSessionService struct {
	Dynamo *DynamoService
}

// CreateGameSession stores a fresh session for a room in "waiting" state.
func (s *GameSessionService) CreateGameSession(ctx context.Context, session models.GameSession) (models.GameSession, error) {
	if session.RoomID == "" {
		return models.GameSession{}, errors.New("roomId is required")
	}
	if session.Status == "" {
		session.Status = models.GameStatusWaiting
	}
	if _, ok := gameStatusTransitions[session.Status]; !ok {
		return models.GameSession{}, fmt.Errorf("invalid status %q", session.Status)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	session.CreatedAt = now
	session.UpdatedAt = now

	if err := s.Dynamo.PutItem(ctx, models.GameSessionsTable, session); err != nil {
		return models.GameSession{}, fmt.Errorf("failed to store game session: %w", err)
	}
	return session, nil
}

// GetGameSession fetches the session for a room.
func (s *GameSessionService) GetGameSession(ctx context.Context, roomID string) (models.GameSession, error) {
	key := map[string]types.AttributeValue{
		"roomId": &types.AttributeValueMemberS{Value: roomID},
	}
	var session models.GameSession
	if err := s.Dynamo.GetItem(ctx, models.GameSessionsTable, key, &session); err != nil {
		return models.GameSession{}, err
	}
	return session, nil
}

// UpdateGameSession merges updates into an existing session. A status change
// must be a legal transition from the stored status.
func (s *GameSessionService) UpdateGameSession(ctx context.Context, roomID string, updates models.GameSession) (models.GameSession, error) {
	current, err := s.GetGameSession(ctx, roomID)
	if err != nil {
		return models.GameSession{}, err
	}

	if updates.Status != "" && updates.Status != current.Status {
		if !isLegalTransition(current.Status, updates.Status) {
			return models.GameSession{}, fmt.Errorf("illegal status transition %q -> %q", current.Status, updates.Status)
		}
		current.Status = updates.Status
	}
	if updates.MatchID != 0 {
		current.MatchID = updates.MatchID
	}
	if updates.StakeWei != "" {
		current.StakeWei = updates.StakeWei
	}
	if updates.InitiatorWallet != "" {
		current.InitiatorWallet = updates.InitiatorWallet
	}
	if updates.OpponentWallet != "" {
		current.OpponentWallet = updates.OpponentWallet
	}
	current.TxHashes = mergeStringMap(current.TxHashes, updates.TxHashes)
	current.Decisions = mergeStringMap(current.Decisions, updates.Decisions)
	current.Payoff = mergeStringMap(current.Payoff, updates.Payoff)
	current.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.Dynamo.PutItem(ctx, models.GameSessionsTable, current); err != nil {
		return models.GameSession{}, fmt.Errorf("failed to update game session: %w", err)
	}
	return current, nil
}

func isLegalTransition(from, to string) bool {
	for _, next := range gameStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
