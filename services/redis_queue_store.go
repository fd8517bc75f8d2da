package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"assume_server/models"
)

const defaultQueueKey = "chat:waiting"

// dequeueTwoScript pops the two oldest entries server-side in one round trip,
// so no concurrent caller on any process can observe either removed entry.
const dequeueTwoScript = `
if redis.call('LLEN', KEYS[1]) < 2 then
  return nil
end
local first = redis.call('LPOP', KEYS[1])
local second = redis.call('LPOP', KEYS[1])
return {first, second}
`

// RedisQueueStore keeps the waiting list in a shared redis list so multiple
// server instances drain one queue. Entries are JSON-encoded QueuedUsers;
// order is RPUSH-to-tail, LPOP-from-head.
type RedisQueueStore struct {
	Pool   *redis.Pool
	Key    string
	script *redis.Script
}

// NewRedisQueueStore creates a store over the given pool. An empty key uses
// the default list name.
func NewRedisQueueStore(pool *redis.Pool, key string) *RedisQueueStore {
	if key == "" {
		key = defaultQueueKey
	}
	return &RedisQueueStore{
		Pool:   pool,
		Key:    key,
		script: redis.NewScript(1, dequeueTwoScript),
	}
}

// NewRedisPool builds a connection pool for the given address.
func NewRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr,
				redis.DialConnectTimeout(2*time.Second),
				redis.DialReadTimeout(2*time.Second),
				redis.DialWriteTimeout(2*time.Second))
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

func (s *RedisQueueStore) Enqueue(ctx context.Context, user models.QueuedUser) error {
	conn, err := s.Pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	queued, err := s.findRaw(conn, user.ConnectionID)
	if err != nil {
		return err
	}
	if queued != nil {
		return nil
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode queue entry: %w", err)
	}
	if _, err := conn.Do("RPUSH", s.Key, data); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", user.ConnectionID, err)
	}
	return nil
}

func (s *RedisQueueStore) DequeueTwo(ctx context.Context) (*models.QueuedUser, *models.QueuedUser, error) {
	conn, err := s.Pool.GetContext(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	reply, err := redis.ByteSlices(s.script.Do(conn, s.Key))
	if err == redis.ErrNil {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to pop pair: %w", err)
	}
	if len(reply) < 2 {
		return nil, nil, nil
	}

	var first, second models.QueuedUser
	if err := json.Unmarshal(reply[0], &first); err == nil {
		err = json.Unmarshal(reply[1], &second)
		if err == nil {
			return &first, &second, nil
		}
	}
	// Undecodable entry: restore both to the head in their original order
	// so no waiting user is dropped, and report the pair as unavailable.
	conn.Send("LPUSH", s.Key, reply[1])
	conn.Send("LPUSH", s.Key, reply[0])
	if err := conn.Flush(); err != nil {
		return nil, nil, fmt.Errorf("failed to restore queue entries: %w", err)
	}
	return nil, nil, fmt.Errorf("corrupt queue entry, pair restored")
}

func (s *RedisQueueStore) PushFront(ctx context.Context, user models.QueuedUser) error {
	conn, err := s.Pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode queue entry: %w", err)
	}
	if _, err := conn.Do("LPUSH", s.Key, data); err != nil {
		return fmt.Errorf("failed to restore %s to queue head: %w", user.ConnectionID, err)
	}
	return nil
}

func (s *RedisQueueStore) RemoveByID(ctx context.Context, connectionID string) error {
	conn, err := s.Pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	raw, err := s.findRaw(conn, connectionID)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	if _, err := conn.Do("LREM", s.Key, 1, raw); err != nil {
		return fmt.Errorf("failed to remove %s from queue: %w", connectionID, err)
	}
	return nil
}

func (s *RedisQueueStore) Contains(ctx context.Context, connectionID string) (bool, error) {
	conn, err := s.Pool.GetContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	raw, err := s.findRaw(conn, connectionID)
	if err != nil {
		return false, err
	}
	return raw != nil, nil
}

func (s *RedisQueueStore) Length(ctx context.Context) (int, error) {
	conn, err := s.Pool.GetContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	n, err := redis.Int(conn.Do("LLEN", s.Key))
	if err != nil {
		return 0, fmt.Errorf("failed to read queue length: %w", err)
	}
	return n, nil
}

func (s *RedisQueueStore) Snapshot(ctx context.Context) ([]models.QueuedUser, error) {
	conn, err := s.Pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	raws, err := redis.ByteSlices(conn.Do("LRANGE", s.Key, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("failed to read queue snapshot: %w", err)
	}
	users := make([]models.QueuedUser, 0, len(raws))
	for _, raw := range raws {
		var u models.QueuedUser
		if err := json.Unmarshal(raw, &u); err != nil {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

// Ping checks reachability of the backing redis.
func (s *RedisQueueStore) Ping(ctx context.Context) error {
	conn, err := s.Pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = conn.Do("PING")
	return err
}

// findRaw scans the list for the entry belonging to a connection id and
// returns its raw serialized form (needed for exact-value LREM).
func (s *RedisQueueStore) findRaw(conn redis.Conn, connectionID string) ([]byte, error) {
	raws, err := redis.ByteSlices(conn.Do("LRANGE", s.Key, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("failed to scan queue: %w", err)
	}
	for _, raw := range raws {
		var u models.QueuedUser
		if err := json.Unmarshal(raw, &u); err != nil {
			continue
		}
		if u.ConnectionID == connectionID {
			return raw, nil
		}
	}
	return nil, nil
}
