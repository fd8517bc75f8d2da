package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assume_server/services"
)

func TestRoomService_CreateIndexesBothMembers(t *testing.T) {
	rooms := services.NewRoomService()
	room := rooms.Create("room-1", "a", "b")

	assert.Equal(t, "room-1", room.RoomID)
	assert.Equal(t, []string{"a", "b"}, room.Members)
	assert.False(t, room.CreatedAt.IsZero())

	for _, id := range []string{"a", "b"} {
		roomID, ok := rooms.RoomFor(id)
		require.True(t, ok)
		assert.Equal(t, "room-1", roomID)
	}
	assert.True(t, rooms.IsMember("room-1", "a"))
	assert.False(t, rooms.IsMember("room-1", "c"))
	assert.Equal(t, 1, rooms.Count())
	assert.Equal(t, 2, rooms.MemberCount())
}

func TestRoomService_RemoveMemberShrinksThenDeletes(t *testing.T) {
	rooms := services.NewRoomService()
	rooms.Create("room-1", "a", "b")

	remaining := rooms.RemoveMember("room-1", "a")
	assert.Equal(t, 1, remaining)
	_, ok := rooms.RoomFor("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, rooms.Members("room-1"))

	// zero members deletes the room immediately
	remaining = rooms.RemoveMember("room-1", "b")
	assert.Equal(t, 0, remaining)
	_, exists := rooms.Get("room-1")
	assert.False(t, exists)
	assert.Equal(t, 0, rooms.Count())
}

func TestRoomService_RemoveMemberUnknownRoomIsNoop(t *testing.T) {
	rooms := services.NewRoomService()
	assert.Equal(t, 0, rooms.RemoveMember("ghost-room", "a"))
}

func TestRoomService_DeleteReturnsMembersAndClearsIndex(t *testing.T) {
	rooms := services.NewRoomService()
	rooms.Create("room-1", "a", "b")

	members := rooms.Delete("room-1")
	assert.ElementsMatch(t, []string{"a", "b"}, members)
	assert.Equal(t, 0, rooms.MemberCount())

	// a second delete observes nothing
	assert.Nil(t, rooms.Delete("room-1"))
}

func TestRoomService_GetReturnsCopy(t *testing.T) {
	rooms := services.NewRoomService()
	rooms.Create("room-1", "a", "b")

	room, ok := rooms.Get("room-1")
	require.True(t, ok)
	room.Members[0] = "mutated"

	fresh, ok := rooms.Get("room-1")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, fresh.Members)
}
