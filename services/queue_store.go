package services

import (
	"context"
	"sync"

	"assume_server/models"
)

// QueueStore is the ordered waiting list of connections seeking a partner.
// Two implementations exist: an in-process slice and a redis-backed list; a
// failover wrapper picks between them per call.
type QueueStore interface {
	// Enqueue appends a user to the tail. A connection id that is already
	// queued is left in place (silent no-op).
	Enqueue(ctx context.Context, user models.QueuedUser) error
	// DequeueTwo removes and returns the two oldest entries as one atomic
	// operation, or (nil, nil, nil) when fewer than two entries exist.
	DequeueTwo(ctx context.Context) (*models.QueuedUser, *models.QueuedUser, error)
	// PushFront restores a user to the head of the queue, ahead of everyone
	// waiting, preserving its original position fairness.
	PushFront(ctx context.Context, user models.QueuedUser) error
	// RemoveByID removes a queued user. Absent ids are a no-op.
	RemoveByID(ctx context.Context, connectionID string) error
	Contains(ctx context.Context, connectionID string) (bool, error)
	Length(ctx context.Context) (int, error)
	// Snapshot returns the queue contents in order, oldest first.
	Snapshot(ctx context.Context) ([]models.QueuedUser, error)
}

// InMemoryQueueStore is the single-process FIFO backing. It is also the
// fallback when the redis store is unreachable.
type InMemoryQueueStore struct {
	mu      sync.Mutex
	entries []models.QueuedUser
}

// NewInMemoryQueueStore creates an empty in-process queue.
func NewInMemoryQueueStore() *InMemoryQueueStore {
	return &InMemoryQueueStore{}
}

func (s *InMemoryQueueStore) Enqueue(_ context.Context, user models.QueuedUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ConnectionID == user.ConnectionID {
			return nil
		}
	}
	s.entries = append(s.entries, user)
	return nil
}

func (s *InMemoryQueueStore) DequeueTwo(_ context.Context) (*models.QueuedUser, *models.QueuedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) < 2 {
		return nil, nil, nil
	}
	first, second := s.entries[0], s.entries[1]
	s.entries = append([]models.QueuedUser{}, s.entries[2:]...)
	return &first, &second, nil
}

func (s *InMemoryQueueStore) PushFront(_ context.Context, user models.QueuedUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ConnectionID == user.ConnectionID {
			return nil
		}
	}
	s.entries = append([]models.QueuedUser{user}, s.entries...)
	return nil
}

func (s *InMemoryQueueStore) RemoveByID(_ context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ConnectionID == connectionID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *InMemoryQueueStore) Contains(_ context.Context, connectionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ConnectionID == connectionID {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryQueueStore) Length(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

func (s *InMemoryQueueStore) Snapshot(_ context.Context) ([]models.QueuedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.QueuedUser, len(s.entries))
	copy(out, s.entries)
	return out, nil
}
