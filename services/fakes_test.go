package services_test

import (
	"context"
	"errors"
	"sync"

	"assume_server/models"
	"assume_server/services"
)

// recordedEvent captures one Emit call on a fake connection.
type recordedEvent struct {
	Name string
	Args []interface{}
}

// fakeConn is a transport-free Emitter for exercising the matchmaking engine.
type fakeConn struct {
	id     string
	mu     sync.Mutex
	events []recordedEvent
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Emit(event string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, recordedEvent{Name: event, Args: args})
}

// eventsNamed returns every recorded event with the given name.
func (c *fakeConn) eventsNamed(name string) []recordedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []recordedEvent
	for _, e := range c.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// lastPayload returns the first argument of the most recent event with the
// given name, or nil.
func (c *fakeConn) lastPayload(name string) interface{} {
	events := c.eventsNamed(name)
	if len(events) == 0 || len(events[len(events)-1].Args) == 0 {
		return nil
	}
	return events[len(events)-1].Args[0]
}

// fakeBroadcaster is an in-memory stand-in for the chat namespace fan-out.
type fakeBroadcaster struct {
	mu    sync.Mutex
	rooms map[string][]*fakeMember
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{rooms: make(map[string][]*fakeMember)}
}

func (b *fakeBroadcaster) BroadcastToRoom(room, event string, args ...interface{}) {
	b.mu.Lock()
	members := append([]*fakeMember{}, b.rooms[room]...)
	b.mu.Unlock()
	for _, m := range members {
		m.Emit(event, args...)
	}
}

func (b *fakeBroadcaster) ForEach(room string, f func(services.Emitter)) {
	b.mu.Lock()
	members := append([]*fakeMember{}, b.rooms[room]...)
	b.mu.Unlock()
	for _, m := range members {
		f(m)
	}
}

func (b *fakeBroadcaster) add(room string, m *fakeMember) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.rooms[room] {
		if existing == m {
			return
		}
	}
	b.rooms[room] = append(b.rooms[room], m)
}

func (b *fakeBroadcaster) remove(room string, m *fakeMember) {
	b.mu.Lock()
	defer b.mu.Unlock()
	members := b.rooms[room]
	for i, existing := range members {
		if existing == m {
			b.rooms[room] = append(members[:i], members[i+1:]...)
			return
		}
	}
}

// fakeMember is a fakeConn that participates in fakeBroadcaster rooms.
type fakeMember struct {
	*fakeConn
	b *fakeBroadcaster
}

func newFakeMember(id string, b *fakeBroadcaster) *fakeMember {
	return &fakeMember{fakeConn: newFakeConn(id), b: b}
}

func (m *fakeMember) Join(room string)  { m.b.add(room, m) }
func (m *fakeMember) Leave(room string) { m.b.remove(room, m) }

// flakyQueueStore wraps an in-memory store and fails every call while
// failing is set, to drive the failover wrapper.
type flakyQueueStore struct {
	mu      sync.Mutex
	failing bool
	inner   *services.InMemoryQueueStore
}

func newFlakyQueueStore() *flakyQueueStore {
	return &flakyQueueStore{inner: services.NewInMemoryQueueStore()}
}

func (s *flakyQueueStore) setFailing(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}

func (s *flakyQueueStore) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("store unreachable")
	}
	return nil
}

func (s *flakyQueueStore) Enqueue(ctx context.Context, user models.QueuedUser) error {
	if err := s.err(); err != nil {
		return err
	}
	return s.inner.Enqueue(ctx, user)
}

func (s *flakyQueueStore) DequeueTwo(ctx context.Context) (*models.QueuedUser, *models.QueuedUser, error) {
	if err := s.err(); err != nil {
		return nil, nil, err
	}
	return s.inner.DequeueTwo(ctx)
}

func (s *flakyQueueStore) PushFront(ctx context.Context, user models.QueuedUser) error {
	if err := s.err(); err != nil {
		return err
	}
	return s.inner.PushFront(ctx, user)
}

func (s *flakyQueueStore) RemoveByID(ctx context.Context, connectionID string) error {
	if err := s.err(); err != nil {
		return err
	}
	return s.inner.RemoveByID(ctx, connectionID)
}

func (s *flakyQueueStore) Contains(ctx context.Context, connectionID string) (bool, error) {
	if err := s.err(); err != nil {
		return false, err
	}
	return s.inner.Contains(ctx, connectionID)
}

func (s *flakyQueueStore) Length(ctx context.Context) (int, error) {
	if err := s.err(); err != nil {
		return 0, err
	}
	return s.inner.Length(ctx)
}

func (s *flakyQueueStore) Snapshot(ctx context.Context) ([]models.QueuedUser, error) {
	if err := s.err(); err != nil {
		return nil, err
	}
	return s.inner.Snapshot(ctx)
}
