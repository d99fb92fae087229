package app

import (
	"sync"
	"time"

	"quiz-scoreboard/internal/domain"
	"quiz-scoreboard/internal/scoring"
)

// Session is the in-memory state of one game. The mutex is the single
// writer lock around the ScoreManager, which has none of its own.
type Session struct {
	id          string
	rule        string
	now         func() time.Time
	mu          sync.Mutex
	manager     *scoring.ScoreManager
	viewers     int
	subscribers map[chan domain.GameSnapshot]struct{}
}

func newSessionWithClock(id, rule string, manager *scoring.ScoreManager, now func() time.Time) *Session {
	return &Session{
		id:          id,
		rule:        rule,
		now:         now,
		manager:     manager,
		subscribers: make(map[chan domain.GameSnapshot]struct{}),
	}
}

func (s *Session) join() domain.GameSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewers++
	return s.snapshotLocked()
}

func (s *Session) leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewers > 0 {
		s.viewers--
	}
}

func (s *Session) apply(payload domain.Payload) (domain.GameSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.manager.Apply(payload); err != nil {
		return domain.GameSnapshot{}, err
	}
	return s.broadcastLocked(), nil
}

func (s *Session) undo() (domain.GameSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.manager.Undo() {
		return s.snapshotLocked(), false
	}
	return s.broadcastLocked(), true
}

func (s *Session) redo() (domain.GameSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.manager.Redo() {
		return s.snapshotLocked(), false
	}
	return s.broadcastLocked(), true
}

func (s *Session) snapshot() domain.GameSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) isEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewers == 0
}

// IsEmpty reports whether no viewer is attached to the session.
func (s *Session) IsEmpty() bool {
	return s.isEmpty()
}

func (s *Session) subscribe() (<-chan domain.GameSnapshot, func()) {
	ch := make(chan domain.GameSnapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	// the channel is empty here, so this cannot block and no broadcast can
	// overtake the initial snapshot
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() domain.GameSnapshot {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// slow subscriber: drop its oldest update
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (s *Session) snapshotLocked() domain.GameSnapshot {
	return domain.GameSnapshot{
		GameID:     s.id,
		Rule:       s.rule,
		Scoreboard: s.manager.Scoreboard(),
		CanUndo:    s.manager.CanUndo(),
		CanRedo:    s.manager.CanRedo(),
		UpdatedAt:  s.now(),
	}
}
