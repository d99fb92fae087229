package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"quiz-scoreboard/internal/domain"
	"quiz-scoreboard/internal/scoring"

	"github.com/google/uuid"
)

// SessionRepository abstracts how live game sessions are held (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(gameID string, build func() *Session) *Session
	Get(gameID string) (*Session, bool)
	DeleteIfEmpty(gameID string)
}

// RosterRepository loads rosters (from cache/backing store).
type RosterRepository interface {
	GetRoster(ctx context.Context, rosterID string) (domain.Roster, error)
}

// SnapshotStore keeps the latest scoreboard of a game so it can be resumed
// after its session was dropped.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot domain.GameSnapshot) error
	LoadSnapshot(ctx context.Context, gameID string) (domain.GameSnapshot, bool, error)
}

// EventRecorder appends session actions to a durable log.
type EventRecorder interface {
	Record(ctx context.Context, event domain.GameEvent) error
}

// GameConfig selects the scoring rule every new session is played with.
type GameConfig struct {
	Rule          string
	WinThreshold  int
	LoseThreshold int
	KeepRedo      bool
}

// ServiceOption configures optional collaborators of GameService.
type ServiceOption func(*GameService)

// WithEventRecorder logs every applied, undone and redone event.
func WithEventRecorder(r EventRecorder) ServiceOption {
	return func(s *GameService) { s.events = r }
}

// WithClock sets the time source stamped on snapshots and events.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *GameService) { s.now = now }
}

// WithIDGenerator replaces the uuid generator used for games opened without an id.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *GameService) { s.newID = fn }
}

// GameService contains the scoreboard use cases.
type GameService struct {
	sessions  SessionRepository
	rosters   RosterRepository
	snapshots SnapshotStore
	events    EventRecorder
	game      GameConfig
	newID     func() string
	now       func() time.Time
}

// NewGameService fails with domain.ErrInvalidConfig when the game config
// does not describe a playable rule.
func NewGameService(store SessionRepository, rosters RosterRepository, snapshots SnapshotStore, game GameConfig, opts ...ServiceOption) (*GameService, error) {
	if _, err := scoring.NewOperation(game.Rule, game.WinThreshold, game.LoseThreshold); err != nil {
		return nil, err
	}
	s := &GameService{
		sessions:  store,
		rosters:   rosters,
		snapshots: snapshots,
		game:      game,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id, rule string, manager *scoring.ScoreManager) *Session {
	return newSessionWithClock(id, rule, manager, time.Now)
}

// Open joins a viewer to a game, creating the session on first use. A new
// session resumes from the saved snapshot when there is one, otherwise it is
// seated from the roster. An empty gameID opens a fresh game.
func (s *GameService) Open(ctx context.Context, gameID, rosterID string) (domain.GameSnapshot, error) {
	if gameID == "" {
		gameID = s.newID()
	}
	if session, ok := s.sessions.Get(gameID); ok {
		return session.join(), nil
	}

	op, err := scoring.NewOperation(s.game.Rule, s.game.WinThreshold, s.game.LoseThreshold)
	if err != nil {
		return domain.GameSnapshot{}, err
	}
	scoreboard, err := s.initialScoreboard(ctx, gameID, rosterID)
	if err != nil {
		return domain.GameSnapshot{}, err
	}

	var opts []scoring.ManagerOption
	if s.game.KeepRedo {
		opts = append(opts, scoring.KeepRedoOnApply())
	}
	manager := scoring.NewScoreManager(scoreboard, op, opts...)

	session := s.sessions.GetOrCreate(gameID, func() *Session {
		return newSessionWithClock(gameID, s.game.Rule, manager, s.now)
	})
	snapshot := session.join()
	s.saveSnapshot(ctx, snapshot)
	return snapshot, nil
}

func (s *GameService) initialScoreboard(ctx context.Context, gameID, rosterID string) (domain.Scoreboard, error) {
	saved, ok, err := s.snapshots.LoadSnapshot(ctx, gameID)
	if err != nil {
		log.Printf("load snapshot %s: %v", gameID, err)
	}
	if ok && saved.Rule == s.game.Rule {
		return saved.Scoreboard, nil
	}

	if rosterID == "" {
		return domain.Scoreboard{}, fmt.Errorf("%w: no roster given for new game %s", domain.ErrRosterNotFound, gameID)
	}
	roster, err := s.rosters.GetRoster(ctx, rosterID)
	if err != nil {
		return domain.Scoreboard{}, err
	}
	return domain.NewScoreboardFromRoster(roster.Entries)
}

// Apply scores one event and broadcasts the new scoreboard.
func (s *GameService) Apply(ctx context.Context, gameID string, payload domain.Payload) (domain.GameSnapshot, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.GameSnapshot{}, domain.ErrSessionNotFound
	}
	snapshot, err := session.apply(payload)
	if err != nil {
		return domain.GameSnapshot{}, err
	}
	s.persist(ctx, snapshot, domain.ActionApply, &payload)
	return snapshot, nil
}

// Undo steps the game back one event. moved is false at the start of history.
func (s *GameService) Undo(ctx context.Context, gameID string) (snapshot domain.GameSnapshot, moved bool, err error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.GameSnapshot{}, false, domain.ErrSessionNotFound
	}
	snapshot, moved = session.undo()
	if moved {
		s.persist(ctx, snapshot, domain.ActionUndo, nil)
	}
	return snapshot, moved, nil
}

// Redo replays the last undone event. moved is false when nothing was undone.
func (s *GameService) Redo(ctx context.Context, gameID string) (snapshot domain.GameSnapshot, moved bool, err error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.GameSnapshot{}, false, domain.ErrSessionNotFound
	}
	snapshot, moved = session.redo()
	if moved {
		s.persist(ctx, snapshot, domain.ActionRedo, nil)
	}
	return snapshot, moved, nil
}

// Snapshot returns the current state of a live game.
func (s *GameService) Snapshot(_ context.Context, gameID string) (domain.GameSnapshot, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.GameSnapshot{}, domain.ErrSessionNotFound
	}
	return session.snapshot(), nil
}

// Subscribe returns a channel that receives scoreboard updates for a game.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, gameID string) (<-chan domain.GameSnapshot, func(), error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave detaches a viewer and drops the session once nobody watches it.
// The saved snapshot outlives the session.
func (s *GameService) Leave(_ context.Context, gameID string) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return
	}
	session.leave()
	if session.isEmpty() {
		s.sessions.DeleteIfEmpty(gameID)
	}
}

func (s *GameService) persist(ctx context.Context, snapshot domain.GameSnapshot, action domain.HistoryAction, payload *domain.Payload) {
	s.saveSnapshot(ctx, snapshot)
	if s.events == nil {
		return
	}
	event := domain.GameEvent{
		GameID:        snapshot.GameID,
		Action:        action,
		Payload:       payload,
		QuestionCount: snapshot.Scoreboard.QuestionCount(),
		At:            snapshot.UpdatedAt,
	}
	if err := s.events.Record(ctx, event); err != nil {
		log.Printf("record %s event for %s: %v", action, snapshot.GameID, err)
	}
}

func (s *GameService) saveSnapshot(ctx context.Context, snapshot domain.GameSnapshot) {
	if err := s.snapshots.SaveSnapshot(ctx, snapshot); err != nil {
		log.Printf("save snapshot %s: %v", snapshot.GameID, err)
	}
}
