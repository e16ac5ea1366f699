// Package draft persists the in-progress seat selection so it survives a
// page reload. It is a scratch pad keyed by session id, not a system of
// record: entries carry a TTL and are cleared on cancel and completion.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Store interface {
	SaveSelectedSeats(ctx context.Context, sessionID string, seatIDs []string) error
	LoadSelectedSeats(ctx context.Context, sessionID string) ([]string, error)
	Clear(ctx context.Context, sessionID string) error
}

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration, log *zap.Logger) Store {
	return &redisStore{
		rdb: rdb,
		ttl: ttl,
		log: log.With(zap.String("store", "draft")),
	}
}

func draftKey(sessionID string) string {
	return "draft:" + sessionID
}

// SaveSelectedSeats overwrites the draft for the session. An empty slice is a
// valid draft (the selection was purged or expired) and is stored, not deleted.
func (s *redisStore) SaveSelectedSeats(ctx context.Context, sessionID string, seatIDs []string) error {
	if seatIDs == nil {
		seatIDs = []string{}
	}

	payload, err := json.Marshal(seatIDs)
	if err != nil {
		return fmt.Errorf("encode draft seats: %w", err)
	}

	if err := s.rdb.Set(ctx, draftKey(sessionID), payload, s.ttl).Err(); err != nil {
		s.log.Error("Failed to save draft",
			zap.Error(err),
			zap.String("session_id", sessionID),
			zap.Int("seats", len(seatIDs)),
		)
		return fmt.Errorf("save draft for session %s: %w", sessionID, err)
	}

	return nil
}

// LoadSelectedSeats returns the drafted seat ids, or nil when no draft exists.
func (s *redisStore) LoadSelectedSeats(ctx context.Context, sessionID string) ([]string, error) {
	payload, err := s.rdb.Get(ctx, draftKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("Failed to load draft", zap.Error(err), zap.String("session_id", sessionID))
		return nil, fmt.Errorf("load draft for session %s: %w", sessionID, err)
	}

	var seatIDs []string
	if err := json.Unmarshal(payload, &seatIDs); err != nil {
		return nil, fmt.Errorf("decode draft for session %s: %w", sessionID, err)
	}

	return seatIDs, nil
}

func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, draftKey(sessionID)).Err(); err != nil {
		s.log.Error("Failed to clear draft", zap.Error(err), zap.String("session_id", sessionID))
		return fmt.Errorf("clear draft for session %s: %w", sessionID, err)
	}
	return nil
}
