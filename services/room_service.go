package services

import (
	"sync"
	"time"

	"assume_server/models"
)

// RoomService owns the room table and the connection→room index. It is
// in-process only: when the queue is redis-backed across instances, both
// members of a room must land on the instance that created it.
type RoomService struct {
	mu         sync.RWMutex
	rooms      map[string]*models.Room
	memberRoom map[string]string // connection id -> room id
}

// NewRoomService creates an empty room table.
func NewRoomService() *RoomService {
	return &RoomService{
		rooms:      make(map[string]*models.Room),
		memberRoom: make(map[string]string),
	}
}

// Create inserts a room with exactly two members and indexes both.
func (s *RoomService) Create(roomID, memberA, memberB string) models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	room := &models.Room{
		RoomID:    roomID,
		Members:   []string{memberA, memberB},
		CreatedAt: time.Now(),
	}
	s.rooms[roomID] = room
	s.memberRoom[memberA] = roomID
	s.memberRoom[memberB] = roomID
	return *room
}

// Get returns a copy of the room, if it exists.
func (s *RoomService) Get(roomID string) (models.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return models.Room{}, false
	}
	return copyRoom(room), true
}

// RoomFor returns the room id a connection currently belongs to.
func (s *RoomService) RoomFor(connectionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roomID, ok := s.memberRoom[connectionID]
	return roomID, ok
}

// IsMember reports whether a connection is a member of the given room.
func (s *RoomService) IsMember(roomID, connectionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memberRoom[connectionID] == roomID && roomID != ""
}

// Members returns the current members of a room.
func (s *RoomService) Members(roomID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]string, len(room.Members))
	copy(out, room.Members)
	return out
}

// RemoveMember drops a connection from a room and returns the remaining
// member count. A room that reaches zero members is deleted immediately.
// Unknown rooms or non-members return 0 remaining without error.
func (s *RoomService) RemoveMember(roomID, connectionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return 0
	}
	for i, m := range room.Members {
		if m == connectionID {
			room.Members = append(room.Members[:i], room.Members[i+1:]...)
			delete(s.memberRoom, connectionID)
			break
		}
	}
	if len(room.Members) == 0 {
		delete(s.rooms, roomID)
	}
	return len(room.Members)
}

// Delete removes a room and all its index entries, returning the members it
// had so callers can notify them. Unknown rooms return nil.
func (s *RoomService) Delete(roomID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	members := make([]string, len(room.Members))
	copy(members, room.Members)
	for _, m := range room.Members {
		delete(s.memberRoom, m)
	}
	delete(s.rooms, roomID)
	return members
}

// AllRooms returns copies of every live room.
func (s *RoomService) AllRooms() []models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, copyRoom(room))
	}
	return out
}

// Count returns the number of live rooms.
func (s *RoomService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// MemberCount returns the total members across all live rooms.
func (s *RoomService) MemberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.memberRoom)
}

func copyRoom(room *models.Room) models.Room {
	out := *room
	out.Members = make([]string, len(room.Members))
	copy(out.Members, room.Members)
	return out
}
