// Package idempotency replays responses for repeated terminal submissions.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL     = 24 * time.Hour
	DefaultLockTTL = 30 * time.Second
)

// ErrInProgress is returned while an earlier request with the same key is running.
var ErrInProgress = errors.New("a request with this idempotency key is still being processed")

// Response is the cached outcome of the first request carrying a key.
type Response struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type Store struct {
	rdb     redis.Cmdable
	ttl     time.Duration
	lockTTL time.Duration
}

func NewStore(rdb redis.Cmdable, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl, lockTTL: DefaultLockTTL}
}

// Key namespaces a client supplied key by the caller that sent it and the route.
func Key(caller, route, key string) string {
	return fmt.Sprintf("idemp:%s:%s:%s", caller, route, key)
}

func lockKey(key string) string {
	return key + ":lock"
}

// Get returns the cached response for key, if any.
func (s *Store) Get(ctx context.Context, key string) (Response, bool, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Response{}, false, nil
	}
	if err != nil {
		return Response{}, false, fmt.Errorf("failed to read idempotency key: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(val, &resp); err != nil {
		return Response{}, false, fmt.Errorf("failed to decode idempotency entry: %w", err)
	}
	return resp, true, nil
}

// Acquire takes the in-flight lock for key. It returns false when another
// request holding the same key is still being processed.
func (s *Store) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, lockKey(key), "locked", s.lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire idempotency lock: %w", err)
	}
	return ok, nil
}

// Save stores resp under key and releases the lock.
func (s *Store) Save(ctx context.Context, key string, resp Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, key, string(payload), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency entry: %w", err)
	}
	return s.Release(ctx, key)
}

// Release drops the lock without caching, so the client may retry.
func (s *Store) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, lockKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency lock: %w", err)
	}
	return nil
}
