package services

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"assume_server/models"
)

// FailoverQueueStore serves every queue operation from a primary (distributed)
// store and degrades to an in-process fallback when the primary errors.
// Callers never branch on which backing is active. Entries do not migrate
// across a switch; that inconsistency window is accepted and logged, not
// silently masked.
type FailoverQueueStore struct {
	Primary  QueueStore
	Fallback QueueStore

	// ProbeInterval is how long to serve from the fallback before retrying
	// the primary.
	ProbeInterval time.Duration

	healthy   atomic.Bool
	lastProbe atomic.Int64 // unix nanos of the last primary retry
}

// NewFailoverQueueStore wraps a primary store with an in-process fallback.
func NewFailoverQueueStore(primary, fallback QueueStore) *FailoverQueueStore {
	f := &FailoverQueueStore{
		Primary:       primary,
		Fallback:      fallback,
		ProbeInterval: 30 * time.Second,
	}
	f.healthy.Store(true)
	return f
}

// pick returns the store to try for this call. While unhealthy, the primary
// is retried at most once per probe interval.
func (f *FailoverQueueStore) pick() QueueStore {
	if f.healthy.Load() {
		return f.Primary
	}
	now := time.Now().UnixNano()
	last := f.lastProbe.Load()
	if now-last > int64(f.ProbeInterval) && f.lastProbe.CompareAndSwap(last, now) {
		return f.Primary
	}
	return f.Fallback
}

func (f *FailoverQueueStore) markDown(op string, err error) {
	if f.healthy.CompareAndSwap(true, false) {
		log.Printf("⚠️ Queue store unreachable during %s, switching to in-memory fallback: %v", op, err)
	}
	f.lastProbe.Store(time.Now().UnixNano())
}

func (f *FailoverQueueStore) markUp() {
	if f.healthy.CompareAndSwap(false, true) {
		log.Println("✅ Primary queue store recovered, leaving fallback mode")
	}
}

// Healthy reports whether the primary store served the last attempt.
func (f *FailoverQueueStore) Healthy() bool {
	return f.healthy.Load()
}

func (f *FailoverQueueStore) Enqueue(ctx context.Context, user models.QueuedUser) error {
	store := f.pick()
	err := store.Enqueue(ctx, user)
	if store == f.Primary {
		if err != nil {
			f.markDown("enqueue", err)
			return f.Fallback.Enqueue(ctx, user)
		}
		f.markUp()
	}
	return err
}

func (f *FailoverQueueStore) DequeueTwo(ctx context.Context) (*models.QueuedUser, *models.QueuedUser, error) {
	store := f.pick()
	first, second, err := store.DequeueTwo(ctx)
	if store == f.Primary {
		if err != nil {
			f.markDown("dequeueTwo", err)
			return f.Fallback.DequeueTwo(ctx)
		}
		f.markUp()
	}
	return first, second, err
}

func (f *FailoverQueueStore) PushFront(ctx context.Context, user models.QueuedUser) error {
	store := f.pick()
	err := store.PushFront(ctx, user)
	if store == f.Primary {
		if err != nil {
			f.markDown("pushFront", err)
			return f.Fallback.PushFront(ctx, user)
		}
		f.markUp()
	}
	return err
}

func (f *FailoverQueueStore) RemoveByID(ctx context.Context, connectionID string) error {
	store := f.pick()
	err := store.RemoveByID(ctx, connectionID)
	if store == f.Primary {
		if err != nil {
			f.markDown("removeById", err)
			return f.Fallback.RemoveByID(ctx, connectionID)
		}
		f.markUp()
	}
	return err
}

func (f *FailoverQueueStore) Contains(ctx context.Context, connectionID string) (bool, error) {
	store := f.pick()
	ok, err := store.Contains(ctx, connectionID)
	if store == f.Primary {
		if err != nil {
			f.markDown("contains", err)
			return f.Fallback.Contains(ctx, connectionID)
		}
		f.markUp()
	}
	return ok, err
}

func (f *FailoverQueueStore) Length(ctx context.Context) (int, error) {
	store := f.pick()
	n, err := store.Length(ctx)
	if store == f.Primary {
		if err != nil {
			f.markDown("length", err)
			return f.Fallback.Length(ctx)
		}
		f.markUp()
	}
	return n, err
}

func (f *FailoverQueueStore) Snapshot(ctx context.Context) ([]models.QueuedUser, error) {
	store := f.pick()
	users, err := store.Snapshot(ctx)
	if store == f.Primary {
		if err != nil {
			f.markDown("snapshot", err)
			return f.Fallback.Snapshot(ctx)
		}
		f.markUp()
	}
	return users, err
}
