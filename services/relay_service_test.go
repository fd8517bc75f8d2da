package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assume_server/models"
	"assume_server/services"
)

func newRelayFixture() (*services.RelayService, *fakeBroadcaster) {
	relay := services.NewRelayService()
	b := newFakeBroadcaster()
	relay.Broadcast = b
	return relay, b
}

func joinedPair(relay *services.RelayService, b *fakeBroadcaster, roomID string) (*fakeMember, *fakeMember) {
	a := newFakeMember("a", b)
	c := newFakeMember("b", b)
	relay.JoinRoom(a, roomID)
	relay.JoinRoom(c, roomID)
	return a, c
}

func TestJoinRoomAnnouncesToBothSides(t *testing.T) {
	relay, b := newRelayFixture()
	a := newFakeMember("a", b)
	c := newFakeMember("b", b)

	relay.JoinRoom(a, "room-1")
	joined, ok := a.lastPayload(models.ChatEventJoinedRoom).(models.RoomPayload)
	require.True(t, ok)
	assert.Equal(t, "room-1", joined.RoomID)
	assert.Empty(t, a.eventsNamed(models.ChatEventPeerJoined), "first member has no peer yet")

	relay.JoinRoom(c, "room-1")
	peer, ok := a.lastPayload(models.ChatEventPeerJoined).(models.PeerJoinedPayload)
	require.True(t, ok)
	assert.Equal(t, "b", peer.PeerID)
	assert.Equal(t, "room-1", peer.RoomID)
	assert.Empty(t, c.eventsNamed(models.ChatEventPeerJoined), "joiner does not hear its own arrival")
}

func TestJoinRoomWithEmptyIDIsIgnored(t *testing.T) {
	relay, b := newRelayFixture()
	a := newFakeMember("a", b)

	relay.JoinRoom(a, "")
	assert.Empty(t, a.events)
}

func TestMessageReachesBothMembersWithServerTimestamp(t *testing.T) {
	relay, b := newRelayFixture()
	a, c := joinedPair(relay, b, "room-1")

	relay.Message(a, models.MessagePayload{RoomID: "room-1", Content: "hello", PeerID: "b"})

	for _, m := range []*fakeMember{a, c} {
		msgs := m.eventsNamed(models.ChatEventMessage)
		require.Len(t, msgs, 1, "%s must receive the message", m.ID())
		msg := msgs[0].Args[0].(models.ChatMessage)
		assert.Equal(t, "a", msg.SenderID)
		assert.Equal(t, "hello", msg.Content)
		assert.Equal(t, "room-1", msg.RoomID)
		assert.Positive(t, msg.Timestamp)
	}
}

func TestBlankMessageIsDropped(t *testing.T) {
	relay, b := newRelayFixture()
	a, c := joinedPair(relay, b, "room-1")

	relay.Message(a, models.MessagePayload{RoomID: "room-1", Content: "   \t\n"})
	relay.Message(a, models.MessagePayload{Content: "no room"})

	assert.Empty(t, a.eventsNamed(models.ChatEventMessage))
	assert.Empty(t, c.eventsNamed(models.ChatEventMessage))
}

func TestMessageTimestampsNeverDecrease(t *testing.T) {
	relay, b := newRelayFixture()
	a, c := joinedPair(relay, b, "room-1")

	for i := 0; i < 50; i++ {
		relay.Message(a, models.MessagePayload{RoomID: "room-1", Content: "m"})
	}

	msgs := c.eventsNamed(models.ChatEventMessage)
	require.Len(t, msgs, 50)
	var prev int64
	for _, e := range msgs {
		ts := e.Args[0].(models.ChatMessage).Timestamp
		assert.GreaterOrEqual(t, ts, prev)
		prev = ts
	}
}

func TestTypingIndicatorsGoToOtherMemberOnly(t *testing.T) {
	relay, b := newRelayFixture()
	a, c := joinedPair(relay, b, "room-1")

	relay.Typing(a, models.TypingPayload{RoomID: "room-1", PeerID: "b"})
	relay.StopTyping(a, models.TypingPayload{RoomID: "room-1", PeerID: "b"})

	typing := c.eventsNamed(models.ChatEventTyping)
	require.Len(t, typing, 1)
	assert.Equal(t, "a", typing[0].Args[0].(models.TypingNotice).SenderID)
	require.Len(t, c.eventsNamed(models.ChatEventStopTyping), 1)

	assert.Empty(t, a.eventsNamed(models.ChatEventTyping), "sender must not echo its own indicator")
	assert.Empty(t, a.eventsNamed(models.ChatEventStopTyping))
}

func TestHandshakeResolvesRoomFromMembership(t *testing.T) {
	relay, b := newRelayFixture()
	a, c := joinedPair(relay, b, "room-1")

	relay.Handshake(a, models.HandshakePayload{UserID: "user-1", UserName: "Ann"})

	notices := c.eventsNamed(models.ChatEventHandshake)
	require.Len(t, notices, 1)
	notice := notices[0].Args[0].(models.HandshakeNotice)
	assert.Equal(t, "a", notice.PeerID)
	assert.Equal(t, "user-1", notice.UserID)
	assert.Equal(t, "Ann", notice.UserName)
	assert.Empty(t, a.eventsNamed(models.ChatEventHandshake))
}

func TestHandshakeWithoutAnyRoomIsIgnored(t *testing.T) {
	relay, b := newRelayFixture()
	a := newFakeMember("a", b)

	relay.Handshake(a, models.HandshakePayload{UserID: "user-1"})
	assert.Empty(t, a.events)
}

func TestSignalingRelaysToOtherMemberVerbatim(t *testing.T) {
	relay, b := newRelayFixture()
	a, c := joinedPair(relay, b, "room-1")

	offer := map[string]interface{}{"type": "offer", "sdp": "v=0..."}
	relay.Offer(a, models.SignalPayload{RoomID: "room-1", Description: offer})
	answer := map[string]interface{}{"type": "answer", "sdp": "v=0..."}
	relay.Answer(c, models.SignalPayload{RoomID: "room-1", Description: answer})
	candidate := map[string]interface{}{"candidate": "candidate:0 1 UDP ..."}
	relay.Candidate(a, models.SignalPayload{RoomID: "room-1", Candidate: candidate})

	got, ok := c.lastPayload(models.ChatEventVideoOffer).(models.SignalDescription)
	require.True(t, ok)
	assert.Equal(t, offer, got.Description)
	assert.Equal(t, "a", got.PeerID)
	assert.Empty(t, a.eventsNamed(models.ChatEventVideoOffer), "offer must not bounce back")

	gotAnswer, ok := a.lastPayload(models.ChatEventVideoAnswer).(models.SignalDescription)
	require.True(t, ok)
	assert.Equal(t, answer, gotAnswer.Description)
	assert.Equal(t, "b", gotAnswer.PeerID)

	gotCand, ok := c.lastPayload(models.ChatEventVideoICECandidate).(models.SignalCandidate)
	require.True(t, ok)
	assert.Equal(t, candidate, gotCand.Candidate)
	assert.Equal(t, "a", gotCand.PeerID)
}

func TestEndCallNotifiesOtherMember(t *testing.T) {
	relay, b := newRelayFixture()
	a, c := joinedPair(relay, b, "room-1")

	relay.EndCall(a, models.RoomPayload{RoomID: "room-1"})

	notices := c.eventsNamed(models.ChatEventEndCall)
	require.Len(t, notices, 1)
	assert.Equal(t, "a", notices[0].Args[0].(models.EndCallNotice).PeerID)
	assert.Empty(t, a.eventsNamed(models.ChatEventEndCall))
}

func TestLeaveRoomNotifiesPeerAndIsIdempotent(t *testing.T) {
	relay, b := newRelayFixture()
	a, c := joinedPair(relay, b, "room-1")

	relay.LeaveRoom(a, "room-1")
	relay.LeaveRoom(a, "room-1") // second leave observes nothing

	left := c.eventsNamed(models.ChatEventPeerLeft)
	require.Len(t, left, 1)
	payload := left[0].Args[0].(models.PeerLeftPayload)
	assert.Equal(t, "a", payload.PeerID)
	assert.Equal(t, "room-1", payload.RoomID)

	// the departed member no longer receives room traffic
	relay.Message(c, models.MessagePayload{RoomID: "room-1", Content: "still here?"})
	assert.Empty(t, a.eventsNamed(models.ChatEventMessage))
	require.Len(t, c.eventsNamed(models.ChatEventMessage), 1)
}

func TestDisconnectLeavesEveryJoinedRoom(t *testing.T) {
	relay, b := newRelayFixture()
	a, c := joinedPair(relay, b, "room-1")

	relay.Disconnect(a)
	relay.Disconnect(a) // duplicate disconnects happen on flaky transports

	require.Len(t, c.eventsNamed(models.ChatEventPeerLeft), 1)

	// a later handshake can no longer resolve a room for the gone member
	relay.Handshake(a, models.HandshakePayload{UserID: "user-1"})
	assert.Empty(t, c.eventsNamed(models.ChatEventHandshake))
}
