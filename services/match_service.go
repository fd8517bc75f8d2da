package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"assume_server/models"
)

// estimatedWaitPerPosition is the per-slot heuristic behind the estimatedWait
// field of queueUpdate.
const estimatedWaitPerPosition = 5 // seconds

// MatchService is the pairing engine. It owns all queue and room mutations:
// join, leave, disconnect, finish, reconnect, the per-user queue timeout and
// the room expiry sweep. Every mutating entry point serializes on one mutex,
// so in-process events see atomic queue/room state; cross-process races exist
// only against the shared queue store, which is why pairing re-validates
// liveness after every dequeue.
type MatchService struct {
	Queue     QueueStore
	Rooms     *RoomService
	Registry  *ConnectionRegistry
	Scheduler *Scheduler

	QueueTimeout  time.Duration
	RoomTTL       time.Duration
	SweepInterval time.Duration

	mu       sync.Mutex
	timeouts map[string]CancelFunc // connection id -> queue timeout cancel
}

// NewMatchService wires the pairing engine with its default timings.
func NewMatchService(queue QueueStore, rooms *RoomService, registry *ConnectionRegistry, scheduler *Scheduler) *MatchService {
	return &MatchService{
		Queue:         queue,
		Rooms:         rooms,
		Registry:      registry,
		Scheduler:     scheduler,
		QueueTimeout:  30 * time.Second,
		RoomTTL:       5 * time.Minute,
		SweepInterval: time.Minute,
		timeouts:      make(map[string]CancelFunc),
	}
}

// Start launches the room expiry sweep. The returned stop func halts it.
func (m *MatchService) Start() CancelFunc {
	return m.Scheduler.Every(m.SweepInterval, func() {
		m.SweepExpiredRooms(context.Background())
	})
}

// HandleConnect registers a new queue-namespace connection and tells it where
// it stands.
func (m *MatchService) HandleConnect(ctx context.Context, c Emitter) {
	m.Registry.Register(c)
	m.mu.Lock()
	defer m.mu.Unlock()
	c.Emit(models.QueueEventQueueUpdate, m.statusFor(ctx, c.ID()))
}

// JoinQueue admits a connection to the waiting list. A connection that is
// already queued or already in a room is left untouched.
func (m *MatchService) JoinQueue(ctx context.Context, c Emitter, preferences map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := c.ID()
	if roomID, ok := m.Rooms.RoomFor(id); ok {
		log.Printf("⚠️ [Queue] %s tried to join while in room %s, ignoring", id, roomID)
		return
	}
	if queued, err := m.Queue.Contains(ctx, id); err == nil && queued {
		return
	}
	user := models.QueuedUser{
		ConnectionID: id,
		JoinedAt:     time.Now().UnixMilli(),
		Preferences:  preferences,
	}
	if err := m.Queue.Enqueue(ctx, user); err != nil {
		log.Printf("❌ [Queue] failed to enqueue %s: %v", id, err)
		return
	}
	m.timeouts[id] = m.Scheduler.After("queue-timeout:"+id, m.QueueTimeout, func() {
		m.expireQueuedUser(context.Background(), id)
	})
	log.Printf("➡️ [Queue] %s joined", id)

	m.tryPair(ctx)
	m.broadcastQueueState(ctx)
}

// LeaveQueue removes a connection from the waiting list. Idempotent.
func (m *MatchService) LeaveQueue(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelQueueTimeout(id)
	if err := m.Queue.RemoveByID(ctx, id); err != nil {
		log.Printf("❌ [Queue] failed to remove %s: %v", id, err)
	} else {
		log.Printf("⬅️ [Queue] %s left", id)
	}
	m.tryPair(ctx)
	m.broadcastQueueState(ctx)
}

// FinishChat ends the session for both members of the caller's room.
// Calls from a connection without a room are a no-op.
func (m *MatchService) FinishChat(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	roomID, ok := m.Rooms.RoomFor(id)
	if !ok {
		return
	}
	m.endRoom(ctx, roomID, "")
}

// ReconnectToRoom re-acknowledges room membership after a transport blip.
// It succeeds iff the connection is currently a member of that room.
func (m *MatchService) ReconnectToRoom(ctx context.Context, c Emitter, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if roomID == "" || !m.Rooms.IsMember(roomID, c.ID()) {
		return
	}
	c.Emit(models.QueueEventReconnected, models.ReconnectedPayload{RoomID: roomID})
	log.Printf("🔁 [Queue] %s reconnected to %s", c.ID(), roomID)
}

// Disconnect is the implicit leave for both the queue and any room.
// Idempotent: a second call for the same id observes nothing to clean up.
func (m *MatchService) Disconnect(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelQueueTimeout(id)
	if err := m.Queue.RemoveByID(ctx, id); err != nil {
		log.Printf("❌ [Queue] failed to remove %s on disconnect: %v", id, err)
	}
	if roomID, ok := m.Rooms.RoomFor(id); ok {
		remaining := m.Rooms.RemoveMember(roomID, id)
		if remaining > 0 {
			payload := models.PeerLeftChatPayload{RoomID: roomID}
			for _, memberID := range m.Rooms.Members(roomID) {
				if peer, ok := m.Registry.Get(memberID); ok {
					peer.Emit(models.QueueEventPeerLeftChat, payload)
				}
			}
		}
		log.Printf("❌ [Queue] %s disconnected from room %s (%d remaining)", id, roomID, remaining)
	}
	m.Registry.Unregister(id)
	m.tryPair(ctx)
	m.broadcastQueueState(ctx)
}

// SweepExpiredRooms ends every room whose age exceeds the TTL. Rooms cleaned
// up concurrently are simply not seen; firing on none is a no-op.
func (m *MatchService) SweepExpiredRooms(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for _, room := range m.Rooms.AllRooms() {
		if now.Sub(room.CreatedAt) > m.RoomTTL {
			log.Printf("⏰ [Room] %s exceeded TTL, closing", room.RoomID)
			m.endRoom(ctx, room.RoomID, "timeout")
		}
	}
}

// expireQueuedUser fires when a user's queue timeout elapses. If the user
// already left the queue by any other path this is a no-op.
func (m *MatchService) expireQueuedUser(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.timeouts, id)
	queued, err := m.Queue.Contains(ctx, id)
	if err != nil {
		log.Printf("❌ [Queue] timeout check for %s failed: %v", id, err)
		return
	}
	if !queued {
		return
	}
	if err := m.Queue.RemoveByID(ctx, id); err != nil {
		log.Printf("❌ [Queue] failed to expire %s: %v", id, err)
		return
	}
	if c, ok := m.Registry.Get(id); ok {
		c.Emit(models.QueueEventQueueTimeout, models.QueueTimeoutPayload{
			Message: "No partner found in time, please try again.",
		})
	}
	log.Printf("⏰ [Queue] %s timed out waiting", id)
	m.broadcastQueueState(ctx)
}

// tryPair drains the queue two-at-a-time while pairs remain. Callers hold mu.
// A dequeued user that is no longer live is discarded; its partner goes back
// to the head of the queue and the attempt is retried on the next mutation.
func (m *MatchService) tryPair(ctx context.Context) {
	for {
		first, second, err := m.Queue.DequeueTwo(ctx)
		if err != nil {
			log.Printf("❌ [Queue] pairing aborted: %v", err)
			return
		}
		if first == nil || second == nil {
			return
		}

		// The shared store round trip may have raced a disconnect on another
		// event; commit nothing until both ends are known live.
		firstLive := m.Registry.IsLive(first.ConnectionID)
		secondLive := m.Registry.IsLive(second.ConnectionID)
		if !firstLive || !secondLive {
			if firstLive {
				if err := m.Queue.PushFront(ctx, *first); err != nil {
					log.Printf("❌ [Queue] failed to restore %s: %v", first.ConnectionID, err)
				}
			}
			if secondLive {
				if err := m.Queue.PushFront(ctx, *second); err != nil {
					log.Printf("❌ [Queue] failed to restore %s: %v", second.ConnectionID, err)
				}
			}
			return
		}

		m.cancelQueueTimeout(first.ConnectionID)
		m.cancelQueueTimeout(second.ConnectionID)

		roomID := "room-" + uuid.NewString()
		m.Rooms.Create(roomID, first.ConnectionID, second.ConnectionID)
		log.Printf("🤝 [Queue] matched %s and %s in %s", first.ConnectionID, second.ConnectionID, roomID)

		if a, ok := m.Registry.Get(first.ConnectionID); ok {
			a.Emit(models.QueueEventMatched, models.MatchedPayload{
				RoomID:       roomID,
				Peer:         second.ConnectionID,
				PeerJoinedAt: second.JoinedAt,
			})
		}
		if b, ok := m.Registry.Get(second.ConnectionID); ok {
			b.Emit(models.QueueEventMatched, models.MatchedPayload{
				RoomID:       roomID,
				Peer:         first.ConnectionID,
				PeerJoinedAt: first.JoinedAt,
			})
		}
	}
}

// endRoom deletes a room and notifies its members. Callers hold mu.
// An empty reason means an explicit finish.
func (m *MatchService) endRoom(ctx context.Context, roomID, reason string) {
	members := m.Rooms.Delete(roomID)
	if members == nil {
		return
	}
	payload := models.ChatEndedPayload{RoomID: roomID, Reason: reason}
	for _, memberID := range members {
		if c, ok := m.Registry.Get(memberID); ok {
			c.Emit(models.QueueEventChatEnded, payload)
		}
	}
	log.Printf("🏁 [Room] %s ended (reason=%q)", roomID, reason)
	m.broadcastQueueState(ctx)
}

// cancelQueueTimeout stops a user's pending queue timeout, if any.
// Callers hold mu.
func (m *MatchService) cancelQueueTimeout(id string) {
	if cancel, ok := m.timeouts[id]; ok {
		cancel()
		delete(m.timeouts, id)
	}
}

// broadcastQueueState pushes fresh queueUpdate and queueStats events to every
// waiting connection. Callers hold mu. Best effort: a failed snapshot skips
// the broadcast rather than corrupting state.
func (m *MatchService) broadcastQueueState(ctx context.Context) {
	snapshot, err := m.Queue.Snapshot(ctx)
	if err != nil {
		log.Printf("❌ [Queue] failed to snapshot queue: %v", err)
		return
	}
	stats := models.QueueStats{
		Waiting:         len(snapshot),
		Online:          m.Registry.Count(),
		ActiveChatRooms: m.Rooms.Count(),
		TotalChatters:   m.Rooms.MemberCount(),
	}
	for i, user := range snapshot {
		c, ok := m.Registry.Get(user.ConnectionID)
		if !ok {
			continue
		}
		position := i + 1
		wait := position * estimatedWaitPerPosition
		c.Emit(models.QueueEventQueueUpdate, models.QueueUpdate{
			Position:      &position,
			InQueue:       true,
			EstimatedWait: &wait,
		})
		c.Emit(models.QueueEventQueueStats, stats)
	}
}

// statusFor builds the queueUpdate for one connection. Callers hold mu.
func (m *MatchService) statusFor(ctx context.Context, id string) models.QueueUpdate {
	if roomID, ok := m.Rooms.RoomFor(id); ok {
		return models.QueueUpdate{InChat: true, CurrentRoom: &roomID}
	}
	snapshot, err := m.Queue.Snapshot(ctx)
	if err != nil {
		return models.QueueUpdate{}
	}
	for i, user := range snapshot {
		if user.ConnectionID == id {
			position := i + 1
			wait := position * estimatedWaitPerPosition
			return models.QueueUpdate{Position: &position, InQueue: true, EstimatedWait: &wait}
		}
	}
	return models.QueueUpdate{}
}
