package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiz-scoreboard/internal/domain"

	"github.com/redis/go-redis/v9"
)

// SnapshotStore keeps the latest snapshot of each game as JSON:
// SET game:{gameID}:snapshot {json} EX ttl
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl}
}

func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snapshot domain.GameSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(snapshot.GameID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) LoadSnapshot(ctx context.Context, gameID string) (domain.GameSnapshot, bool, error) {
	raw, err := s.client.Get(ctx, s.key(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.GameSnapshot{}, false, nil
	}
	if err != nil {
		return domain.GameSnapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	var snapshot domain.GameSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return domain.GameSnapshot{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snapshot, true, nil
}

func (s *SnapshotStore) key(gameID string) string {
	return "game:" + gameID + ":snapshot"
}
