package models

// Chat namespace event names
const (
	ChatEventJoinRoom   = "joinRoom"
	ChatEventJoinedRoom = "joinedRoom"
	ChatEventLeaveRoom  = "leaveRoom"
	ChatEventHandshake  = "handshake"
	ChatEventMessage    = "message"
	ChatEventTyping     = "typing"
	ChatEventStopTyping = "stopTyping"
	ChatEventPeerJoined = "peerJoined"
	ChatEventPeerLeft   = "peerLeft"

	// WebRTC call signaling, relayed verbatim between the two peers
	ChatEventVideoOffer        = "video-offer"
	ChatEventVideoAnswer       = "video-answer"
	ChatEventVideoICECandidate = "video-ice-candidate"
	ChatEventEndCall           = "end-call"
)

// ChatMessage is the authoritative message shape broadcast to a room.
type ChatMessage struct {
	RoomID     string `json:"roomId"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName,omitempty"`
	PeerID     string `json:"peerId"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"` // server-stamped Unix millis
}

// RoomPayload carries a bare room id (joinRoom, leaveRoom, end-call, ...).
type RoomPayload struct {
	RoomID string `json:"roomId"`
}

// MessagePayload is an inbound chat message before server stamping.
type MessagePayload struct {
	RoomID  string `json:"roomId"`
	Content string `json:"content"`
	PeerID  string `json:"peerId"`
}

// TypingPayload is an inbound typing/stopTyping indicator.
type TypingPayload struct {
	RoomID string `json:"roomId"`
	PeerID string `json:"peerId"`
}

// TypingNotice is the outbound form, addressed to the other member only.
type TypingNotice struct {
	SenderID string `json:"senderId"`
	PeerID   string `json:"peerId"`
}

// HandshakePayload carries session metadata for the peer. RoomID may be
// omitted, in which case it is resolved from the sender's current room.
type HandshakePayload struct {
	RoomID        string `json:"roomId,omitempty"`
	UserID        string `json:"userId"`
	UserName      string `json:"userName,omitempty"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

// HandshakeNotice is the outbound handshake forwarded to the other member.
type HandshakeNotice struct {
	PeerID        string `json:"peerId"`
	UserID        string `json:"userId"`
	UserName      string `json:"userName,omitempty"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

// PeerJoinedPayload announces a new room member to the existing one.
type PeerJoinedPayload struct {
	PeerID string `json:"peerId"`
	RoomID string `json:"roomId"`
}

// PeerLeftPayload announces a departed room member.
type PeerLeftPayload struct {
	PeerID string `json:"peerId"`
	RoomID string `json:"roomId"`
}

// SignalPayload is an inbound WebRTC signaling envelope. The description and
// candidate bodies are opaque to the relay.
type SignalPayload struct {
	RoomID      string      `json:"roomId"`
	Description interface{} `json:"description,omitempty"`
	Candidate   interface{} `json:"candidate,omitempty"`
}

// SignalDescription forwards an offer or answer to the other member.
type SignalDescription struct {
	Description interface{} `json:"description"`
	PeerID      string      `json:"peerId"`
}

// SignalCandidate forwards an ICE candidate to the other member.
type SignalCandidate struct {
	Candidate interface{} `json:"candidate"`
	PeerID    string      `json:"peerId"`
}

// EndCallNotice tells the other member the call was hung up.
type EndCallNotice struct {
	PeerID string `json:"peerId"`
}
