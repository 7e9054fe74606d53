package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crisphq/crisp-backend/internal/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore is the injected persistence adapter for session snapshots:
// save-on-change, load-at-init. The state machine itself never touches it.
type SessionStore interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, candidateID uuid.UUID) (*Snapshot, error)
	Delete(ctx context.Context, candidateID uuid.UUID) error
}

// RedisSessionStore persists snapshots as JSON under a fixed per-candidate
// key, so a mid-interview session (including a paused one) survives both
// client reloads and server restarts.
type RedisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func (s *RedisSessionStore) Save(ctx context.Context, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal session snapshot: %w", err)
	}
	key := config.CacheKey.InterviewSessionKey(snap.CandidateID.String())
	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("save session snapshot: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Load(ctx context.Context, candidateID uuid.UUID) (*Snapshot, error) {
	key := config.CacheKey.InterviewSessionKey(candidateID.String())
	raw, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal session snapshot: %w", err)
	}
	return &snap, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, candidateID uuid.UUID) error {
	key := config.CacheKey.InterviewSessionKey(candidateID.String())
	return s.rdb.Del(ctx, key).Err()
}
