package memory

import (
	"context"
	"sync"

	"quiz-scoreboard/internal/domain"
)

// SnapshotStore keeps the latest snapshot per game in process memory.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.GameSnapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: make(map[string]domain.GameSnapshot)}
}

func (s *SnapshotStore) SaveSnapshot(_ context.Context, snapshot domain.GameSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.GameID] = snapshot
	return nil
}

func (s *SnapshotStore) LoadSnapshot(_ context.Context, gameID string) (domain.GameSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[gameID]
	return snapshot, ok, nil
}
