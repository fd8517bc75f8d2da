package models

// Game session lifecycle statuses
const (
	GameStatusWaiting        = "waiting"
	GameStatusOnchainPending = "onchain_pending"
	GameStatusLive           = "live"
	GameStatusMovesSubmitted = "moves_submitted"
	GameStatusSettled        = "settled"
)

// GameSession records an on-chain mini-game played inside a chat room.
// The server only stores the session document; transactions happen client-side.
type GameSession struct {
	RoomID          string            `dynamodbav:"roomId" json:"roomId"`
	MatchID         int               `dynamodbav:"matchId,omitempty" json:"matchId,omitempty"`
	StakeWei        string            `dynamodbav:"stakeWei,omitempty" json:"stakeWei,omitempty"`
	InitiatorWallet string            `dynamodbav:"initiatorWallet,omitempty" json:"initiatorWallet,omitempty"`
	OpponentWallet  string            `dynamodbav:"opponentWallet,omitempty" json:"opponentWallet,omitempty"`
	Status          string            `dynamodbav:"status" json:"status"`
	TxHashes        map[string]string `dynamodbav:"txHashes,omitempty" json:"txHashes,omitempty"`
	Decisions       map[string]string `dynamodbav:"decisions,omitempty" json:"decisions,omitempty"`
	Payoff          map[string]string `dynamodbav:"payoff,omitempty" json:"payoff,omitempty"`
	CreatedAt       string            `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt       string            `dynamodbav:"updatedAt" json:"updatedAt"`
}

// GameSessionsTable is the DynamoDB table name for game sessions
const GameSessionsTable = "GameSessions"
