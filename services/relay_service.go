package services

import (
	"log"
	"strings"
	"sync"
	"time"

	"assume_server/models"
)

// RoomMember is the transport handle for a chat-namespace connection.
type RoomMember interface {
	Emitter
	Join(room string)
	Leave(room string)
}

// RoomBroadcaster fans events out to the connections in a transport room.
type RoomBroadcaster interface {
	BroadcastToRoom(room, event string, args ...interface{})
	ForEach(room string, f func(Emitter))
}

// RelayService forwards chat, typing and call-signaling traffic between the
// two members of a room. It never interprets signaling payloads; everything
// is addressed purely by room membership. Membership is tracked here rather
// than read back from the transport so disconnect handling works after the
// transport has already torn the connection down.
type RelayService struct {
	Broadcast RoomBroadcaster

	mu      sync.RWMutex
	members map[string]map[string]bool // room id -> connection ids
	roomsOf map[string]map[string]bool // connection id -> room ids

	clockMu sync.Mutex
	lastTS  int64
}

// NewRelayService creates a relay. The broadcaster is attached by the
// transport layer once the socket server exists.
func NewRelayService() *RelayService {
	return &RelayService{
		members: make(map[string]map[string]bool),
		roomsOf: make(map[string]map[string]bool),
	}
}

// JoinRoom admits a connection to a room and announces it to the peer.
func (r *RelayService) JoinRoom(c RoomMember, roomID string) {
	if roomID == "" {
		return
	}
	r.mu.Lock()
	if r.members[roomID] == nil {
		r.members[roomID] = make(map[string]bool)
	}
	if r.roomsOf[c.ID()] == nil {
		r.roomsOf[c.ID()] = make(map[string]bool)
	}
	r.members[roomID][c.ID()] = true
	r.roomsOf[c.ID()][roomID] = true
	r.mu.Unlock()

	c.Join(roomID)
	c.Emit(models.ChatEventJoinedRoom, models.RoomPayload{RoomID: roomID})
	r.emitToOthers(roomID, c.ID(), models.ChatEventPeerJoined, models.PeerJoinedPayload{
		PeerID: c.ID(),
		RoomID: roomID,
	})
	log.Printf("🛖 [Chat] %s joined room %s", c.ID(), roomID)
}

// LeaveRoom withdraws a single member; the room persists for the other one.
// Leaving a room the connection is not in is a no-op.
func (r *RelayService) LeaveRoom(c RoomMember, roomID string) {
	if roomID == "" || !r.forget(c.ID(), roomID) {
		return
	}
	r.emitToOthers(roomID, c.ID(), models.ChatEventPeerLeft, models.PeerLeftPayload{
		PeerID: c.ID(),
		RoomID: roomID,
	})
	c.Leave(roomID)
	log.Printf("⬅️ [Chat] %s left room %s", c.ID(), roomID)
}

// Handshake forwards session metadata to the other member. A missing room id
// is resolved from the sender's current membership.
func (r *RelayService) Handshake(c RoomMember, payload models.HandshakePayload) {
	roomID := payload.RoomID
	if roomID == "" {
		roomID = r.currentRoom(c.ID())
	}
	if roomID == "" {
		return
	}
	r.emitToOthers(roomID, c.ID(), models.ChatEventHandshake, models.HandshakeNotice{
		PeerID:        c.ID(),
		UserID:        payload.UserID,
		UserName:      payload.UserName,
		WalletAddress: payload.WalletAddress,
	})
}

// Message stamps and broadcasts a chat message to everyone in the room,
// sender included, so every client renders from one authoritative stream.
// Whitespace-only content is dropped without error.
func (r *RelayService) Message(c RoomMember, payload models.MessagePayload) {
	if payload.RoomID == "" || strings.TrimSpace(payload.Content) == "" {
		return
	}
	msg := models.ChatMessage{
		RoomID:    payload.RoomID,
		SenderID:  c.ID(),
		PeerID:    payload.PeerID,
		Content:   payload.Content,
		Timestamp: r.nowMillis(),
	}
	r.Broadcast.BroadcastToRoom(payload.RoomID, models.ChatEventMessage, msg)
	log.Printf("💬 [Chat] %s -> %s", c.ID(), payload.RoomID)
}

// Typing forwards a typing indicator to the other member only.
func (r *RelayService) Typing(c RoomMember, payload models.TypingPayload) {
	r.forwardTyping(c, payload, models.ChatEventTyping)
}

// StopTyping forwards a stop-typing indicator to the other member only.
func (r *RelayService) StopTyping(c RoomMember, payload models.TypingPayload) {
	r.forwardTyping(c, payload, models.ChatEventStopTyping)
}

// Offer relays a WebRTC offer verbatim to the other member.
func (r *RelayService) Offer(c RoomMember, payload models.SignalPayload) {
	if payload.RoomID == "" {
		return
	}
	r.emitToOthers(payload.RoomID, c.ID(), models.ChatEventVideoOffer, models.SignalDescription{
		Description: payload.Description,
		PeerID:      c.ID(),
	})
}

// Answer relays a WebRTC answer verbatim to the other member.
func (r *RelayService) Answer(c RoomMember, payload models.SignalPayload) {
	if payload.RoomID == "" {
		return
	}
	r.emitToOthers(payload.RoomID, c.ID(), models.ChatEventVideoAnswer, models.SignalDescription{
		Description: payload.Description,
		PeerID:      c.ID(),
	})
}

// Candidate relays an ICE candidate verbatim to the other member.
func (r *RelayService) Candidate(c RoomMember, payload models.SignalPayload) {
	if payload.RoomID == "" {
		return
	}
	r.emitToOthers(payload.RoomID, c.ID(), models.ChatEventVideoICECandidate, models.SignalCandidate{
		Candidate: payload.Candidate,
		PeerID:    c.ID(),
	})
}

// EndCall tells the other member the call was hung up.
func (r *RelayService) EndCall(c RoomMember, payload models.RoomPayload) {
	if payload.RoomID == "" {
		return
	}
	r.emitToOthers(payload.RoomID, c.ID(), models.ChatEventEndCall, models.EndCallNotice{PeerID: c.ID()})
}

// Disconnect is the implicit leave for every room the connection had joined.
func (r *RelayService) Disconnect(c RoomMember) {
	r.mu.Lock()
	var rooms []string
	for roomID := range r.roomsOf[c.ID()] {
		rooms = append(rooms, roomID)
	}
	r.mu.Unlock()

	for _, roomID := range rooms {
		if !r.forget(c.ID(), roomID) {
			continue
		}
		r.emitToOthers(roomID, c.ID(), models.ChatEventPeerLeft, models.PeerLeftPayload{
			PeerID: c.ID(),
			RoomID: roomID,
		})
	}
	if len(rooms) > 0 {
		log.Printf("❌ [Chat] %s disconnected from %d room(s)", c.ID(), len(rooms))
	}
}

func (r *RelayService) forwardTyping(c RoomMember, payload models.TypingPayload, event string) {
	if payload.RoomID == "" {
		return
	}
	r.emitToOthers(payload.RoomID, c.ID(), event, models.TypingNotice{
		SenderID: c.ID(),
		PeerID:   payload.PeerID,
	})
}

func (r *RelayService) emitToOthers(roomID, senderID, event string, payload interface{}) {
	r.Broadcast.ForEach(roomID, func(peer Emitter) {
		if peer.ID() != senderID {
			peer.Emit(event, payload)
		}
	})
}

// forget drops a membership entry and reports whether it existed. A room with
// no members left is deleted from the table.
func (r *RelayService) forget(connectionID, roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.members[roomID][connectionID] {
		return false
	}
	delete(r.members[roomID], connectionID)
	if len(r.members[roomID]) == 0 {
		delete(r.members, roomID)
	}
	delete(r.roomsOf[connectionID], roomID)
	if len(r.roomsOf[connectionID]) == 0 {
		delete(r.roomsOf, connectionID)
	}
	return true
}

// currentRoom returns one room the connection belongs to, or "".
func (r *RelayService) currentRoom(connectionID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for roomID := range r.roomsOf[connectionID] {
		return roomID
	}
	return ""
}

// nowMillis returns a server timestamp that never moves backwards, even when
// two messages land in the same millisecond or the wall clock steps.
func (r *RelayService) nowMillis() int64 {
	r.clockMu.Lock()
	defer r.clockMu.Unlock()
	now := time.Now().UnixMilli()
	if now <= r.lastTS {
		r.lastTS++
	} else {
		r.lastTS = now
	}
	return r.lastTS
}
