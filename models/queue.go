package models

// Queue namespace event names
const (
	QueueEventJoinQueue       = "joinQueue"
	QueueEventLeaveQueue      = "leaveQueue"
	QueueEventFinishChat      = "finishChat"
	QueueEventReconnectToRoom = "reconnectToRoom"

	QueueEventQueueUpdate  = "queueUpdate"
	QueueEventQueueStats   = "queueStats"
	QueueEventMatched      = "matched"
	QueueEventQueueTimeout = "queueTimeout"
	QueueEventPeerLeftChat = "peerLeftChat"
	QueueEventChatEnded    = "chatEnded"
	QueueEventReconnected  = "reconnectedToRoom"
)

// QueuedUser is a single waiting entry in the matchmaking queue.
// At most one entry exists per connection id across the whole queue store.
type QueuedUser struct {
	ConnectionID string            `json:"connectionId"`
	JoinedAt     int64             `json:"joinedAt"` // Unix millis
	Preferences  map[string]string `json:"preferences,omitempty"`
}

// QueueUpdate is sent to a connection whenever its queue standing changes.
type QueueUpdate struct {
	Position      *int    `json:"position"`
	InQueue       bool    `json:"inQueue"`
	InChat        bool    `json:"inChat"`
	CurrentRoom   *string `json:"currentRoom"`
	EstimatedWait *int    `json:"estimatedWait"` // seconds
}

// QueueStats is a coarse snapshot broadcast alongside queue updates.
type QueueStats struct {
	Waiting         int `json:"waiting"`
	Online          int `json:"online"`
	ActiveChatRooms int `json:"activeChatRooms"`
	TotalChatters   int `json:"totalChatters"`
}

// MatchedPayload tells a queued connection it has been paired.
type MatchedPayload struct {
	RoomID       string `json:"roomId"`
	Peer         string `json:"peer"`
	PeerJoinedAt int64  `json:"peerJoinedAt"`
}

// QueueTimeoutPayload is sent to a connection that waited too long unpaired.
type QueueTimeoutPayload struct {
	Message string `json:"message"`
}

// PeerLeftChatPayload notifies the remaining member that its peer is gone.
type PeerLeftChatPayload struct {
	RoomID string `json:"roomId"`
}

// ChatEndedPayload notifies room members that the session is over.
type ChatEndedPayload struct {
	RoomID string `json:"roomId"`
	Reason string `json:"reason,omitempty"`
}

// ReconnectedPayload acknowledges a successful reconnectToRoom request.
type ReconnectedPayload struct {
	RoomID string `json:"roomId"`
}
