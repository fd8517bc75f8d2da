package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assume_server/models"
	"assume_server/services"
)

func queuedUser(id string) models.QueuedUser {
	return models.QueuedUser{ConnectionID: id, JoinedAt: time.Now().UnixMilli()}
}

func TestInMemoryQueueStore_EnqueueDeduplicates(t *testing.T) {
	ctx := context.Background()
	store := services.NewInMemoryQueueStore()

	require.NoError(t, store.Enqueue(ctx, queuedUser("a")))
	require.NoError(t, store.Enqueue(ctx, queuedUser("a")))

	n, err := store.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInMemoryQueueStore_DequeueTwoFIFO(t *testing.T) {
	ctx := context.Background()
	store := services.NewInMemoryQueueStore()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Enqueue(ctx, queuedUser(id)))
	}

	first, second, err := store.DequeueTwo(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, "a", first.ConnectionID)
	assert.Equal(t, "b", second.ConnectionID)

	n, err := store.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInMemoryQueueStore_DequeueTwoNeedsTwoEntries(t *testing.T) {
	ctx := context.Background()
	store := services.NewInMemoryQueueStore()
	require.NoError(t, store.Enqueue(ctx, queuedUser("lonely")))

	first, second, err := store.DequeueTwo(ctx)
	require.NoError(t, err)
	assert.Nil(t, first)
	assert.Nil(t, second)

	// the lone entry must be untouched
	queued, err := store.Contains(ctx, "lonely")
	require.NoError(t, err)
	assert.True(t, queued)
}

func TestInMemoryQueueStore_PushFrontRestoresHead(t *testing.T) {
	ctx := context.Background()
	store := services.NewInMemoryQueueStore()
	require.NoError(t, store.Enqueue(ctx, queuedUser("b")))
	require.NoError(t, store.PushFront(ctx, queuedUser("a")))

	snapshot, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 2)
	assert.Equal(t, "a", snapshot[0].ConnectionID)
	assert.Equal(t, "b", snapshot[1].ConnectionID)
}

func TestInMemoryQueueStore_RemoveByIDIdempotent(t *testing.T) {
	ctx := context.Background()
	store := services.NewInMemoryQueueStore()
	require.NoError(t, store.Enqueue(ctx, queuedUser("a")))

	require.NoError(t, store.RemoveByID(ctx, "a"))
	require.NoError(t, store.RemoveByID(ctx, "a"))
	require.NoError(t, store.RemoveByID(ctx, "never-queued"))

	n, err := store.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestFailoverQueueStore_FallsBackWhenPrimaryFails(t *testing.T) {
	ctx := context.Background()
	primary := newFlakyQueueStore()
	fallback := services.NewInMemoryQueueStore()
	store := services.NewFailoverQueueStore(primary, fallback)

	primary.setFailing(true)

	// the in-flight enqueue must still complete via the fallback
	require.NoError(t, store.Enqueue(ctx, queuedUser("a")))
	assert.False(t, store.Healthy())

	queued, err := fallback.Contains(ctx, "a")
	require.NoError(t, err)
	assert.True(t, queued)

	// reads keep working while degraded
	snapshot, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "a", snapshot[0].ConnectionID)
}

func TestFailoverQueueStore_RecoversAfterProbe(t *testing.T) {
	ctx := context.Background()
	primary := newFlakyQueueStore()
	store := services.NewFailoverQueueStore(primary, services.NewInMemoryQueueStore())
	store.ProbeInterval = time.Millisecond

	primary.setFailing(true)
	require.NoError(t, store.Enqueue(ctx, queuedUser("a")))
	require.False(t, store.Healthy())

	primary.setFailing(false)
	time.Sleep(5 * time.Millisecond)

	// next call re-probes the primary and clears the degraded flag
	_, err := store.Length(ctx)
	require.NoError(t, err)
	assert.True(t, store.Healthy())
}

func TestFailoverQueueStore_HealthyPrimaryIsUsed(t *testing.T) {
	ctx := context.Background()
	primary := newFlakyQueueStore()
	fallback := services.NewInMemoryQueueStore()
	store := services.NewFailoverQueueStore(primary, fallback)

	require.NoError(t, store.Enqueue(ctx, queuedUser("a")))
	assert.True(t, store.Healthy())

	queued, err := primary.Contains(ctx, "a")
	require.NoError(t, err)
	assert.True(t, queued)

	n, err := fallback.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
