package app_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"quiz-scoreboard/internal/app"
	"quiz-scoreboard/internal/domain"
	"quiz-scoreboard/internal/infra/memory"
	"quiz-scoreboard/internal/scoring"
)

func TestOpenAndScoring(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, app.GameConfig{Rule: scoring.RuleNoMx, WinThreshold: 2, LoseThreshold: 2})

	snap, err := service.Open(ctx, "game-1", "finals")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if snap.Scoreboard.Len() != 2 || snap.Rule != scoring.RuleNoMx || snap.CanUndo {
		t.Fatalf("unexpected opening snapshot %+v", snap)
	}

	if _, err := service.Apply(ctx, "game-1", domain.Right(1)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	snap, err = service.Apply(ctx, "game-1", domain.Right(1))
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	bob, _ := snap.Scoreboard.Player(1)
	if bob.Answers != 2 || bob.State != domain.StateWin {
		t.Fatalf("expected Bob to win with 2 answers, got %+v", bob)
	}
	if snap.Scoreboard.QuestionCount() != 3 || !snap.CanUndo {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	if _, err := service.Apply(ctx, "game-1", domain.Miss(1)); !errors.Is(err, domain.ErrPlayerFinished) {
		t.Fatalf("expected finished error, got %v", err)
	}
}

func TestUndoRedo(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, app.GameConfig{Rule: scoring.RuleTenUpDown})

	if _, err := service.Open(ctx, "game-1", "finals"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if _, moved, err := service.Undo(ctx, "game-1"); err != nil || moved {
		t.Fatalf("expected no-op undo, got moved=%v err=%v", moved, err)
	}

	applied, _ := service.Apply(ctx, "game-1", domain.Right(0))
	snap, moved, err := service.Undo(ctx, "game-1")
	if err != nil || !moved {
		t.Fatalf("expected undo, got moved=%v err=%v", moved, err)
	}
	alice, _ := snap.Scoreboard.Player(0)
	if alice.Score != 0 || !snap.CanRedo || snap.CanUndo {
		t.Fatalf("unexpected snapshot after undo %+v", snap)
	}

	snap, moved, err = service.Redo(ctx, "game-1")
	if err != nil || !moved {
		t.Fatalf("expected redo, got moved=%v err=%v", moved, err)
	}
	if !snap.Scoreboard.Equal(applied.Scoreboard) {
		t.Fatalf("redo did not restore the applied board")
	}
	if _, moved, _ := service.Redo(ctx, "game-1"); moved {
		t.Fatalf("expected no-op redo")
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, app.GameConfig{Rule: scoring.RuleFreeze10})

	if _, err := service.Open(ctx, "game-1", "finals"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	ch, cancel, err := service.Subscribe(ctx, "game-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	<-ch // initial snapshot

	if _, err := service.Apply(ctx, "game-1", domain.Miss(0)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	update := <-ch
	alice, _ := update.Scoreboard.Player(0)
	if alice.Breaks != 1 || update.Scoreboard.QuestionCount() != 2 {
		t.Fatalf("expected frozen alice at question 2, got %+v", update.Scoreboard.Players())
	}
}

func TestRequiresSession(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, app.GameConfig{Rule: scoring.RuleSwedish10})

	if _, err := service.Apply(ctx, "unknown", domain.Through()); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}
	if _, _, err := service.Undo(ctx, "unknown"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}
	if _, err := service.Snapshot(ctx, "unknown"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}
	if _, err := service.Open(ctx, "game-2", "missing"); !errors.Is(err, domain.ErrRosterNotFound) {
		t.Fatalf("expected roster error, got %v", err)
	}
	if _, err := service.Open(ctx, "game-2", ""); !errors.Is(err, domain.ErrRosterNotFound) {
		t.Fatalf("expected roster error without roster id, got %v", err)
	}
}

func TestLeaveAndResume(t *testing.T) {
	ctx := context.Background()
	service, recorder := newTestService(t, app.GameConfig{Rule: scoring.RuleTenByTen})

	if _, err := service.Open(ctx, "game-1", "finals"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if _, err := service.Apply(ctx, "game-1", domain.Right(0)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	service.Leave(ctx, "game-1")
	if _, err := service.Snapshot(ctx, "game-1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session dropped after last viewer left, got %v", err)
	}

	snap, err := service.Open(ctx, "game-1", "")
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	alice, _ := snap.Scoreboard.Player(0)
	if alice.Score != 10 || snap.Scoreboard.QuestionCount() != 2 {
		t.Fatalf("expected resumed board, got %+v", snap.Scoreboard.Players())
	}
	if snap.CanUndo {
		t.Fatalf("history does not survive a resume")
	}

	events := recorder.all()
	if len(events) != 1 || events[0].Action != domain.ActionApply || events[0].QuestionCount != 2 {
		t.Fatalf("unexpected recorded events %+v", events)
	}
}

func TestOpenWithoutGameIDGeneratesOne(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, app.GameConfig{Rule: scoring.RuleNoMx, WinThreshold: 7, LoseThreshold: 3})

	snap, err := service.Open(ctx, "", "finals")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if snap.GameID != "generated-1" {
		t.Fatalf("expected generated id, got %q", snap.GameID)
	}
}

func TestNewGameServiceValidatesRule(t *testing.T) {
	_, err := app.NewGameService(memory.NewSessionStore(), nil, memory.NewSnapshotStore(), app.GameConfig{Rule: scoring.RuleNoMx})
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestSnapshotsUseServiceClock(t *testing.T) {
	ctx := context.Background()
	service, recorder := newTestService(t, app.GameConfig{Rule: scoring.RuleFreeze10})

	snap, err := service.Open(ctx, "game-1", "finals")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if !snap.UpdatedAt.Equal(gameStart) {
		t.Fatalf("expected opening snapshot at %v, got %v", gameStart, snap.UpdatedAt)
	}
	if _, err := service.Apply(ctx, "game-1", domain.Through()); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	events := recorder.all()
	if len(events) != 1 || !events[0].At.Equal(gameStart) || events[0].Payload == nil || events[0].Payload.Type() != domain.PayloadThrough {
		t.Fatalf("unexpected recorded events %+v", events)
	}
}

func TestConcurrentApplyUndoRedo(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, app.GameConfig{Rule: scoring.RuleNoMx, WinThreshold: 1000, LoseThreshold: 1000})
	if _, err := service.Open(ctx, "game-1", "finals"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	updates, cancel, err := service.Subscribe(ctx, "game-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()
	go func() {
		for range updates {
		}
	}()

	var wg sync.WaitGroup
	errs := make(chan error, 300)
	for i := 0; i < 100; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			if _, err := service.Apply(ctx, "game-1", domain.Right(i%2)); err != nil {
				errs <- err
			}
		}(i)
		go func() {
			defer wg.Done()
			if _, _, err := service.Undo(ctx, "game-1"); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, _, err := service.Redo(ctx, "game-1"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent call failed: %v", err)
	}

	snap, err := service.Snapshot(ctx, "game-1")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	answers := 0
	for _, p := range snap.Scoreboard.Players() {
		answers += p.Answers
		if p.Misses != 0 {
			t.Fatalf("unexpected misses %+v", p)
		}
	}
	if answers+1 != snap.Scoreboard.QuestionCount() {
		t.Fatalf("board torn: %d answers at question %d", answers, snap.Scoreboard.QuestionCount())
	}
}

func TestSubscriberLastFrameIsCurrentBoard(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, app.GameConfig{Rule: scoring.RuleTenByTen})
	if _, err := service.Open(ctx, "game-1", "finals"); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	for round := 0; round < 50; round++ {
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 4; i++ {
				_, _ = service.Apply(ctx, "game-1", domain.Through())
			}
		}()
		updates, cancel, err := service.Subscribe(ctx, "game-1")
		if err != nil {
			t.Fatalf("subscribe failed: %v", err)
		}
		<-done

		var last domain.GameSnapshot
	drain:
		for {
			select {
			case last = <-updates:
			default:
				break drain
			}
		}
		cancel()

		current, err := service.Snapshot(ctx, "game-1")
		if err != nil {
			t.Fatalf("snapshot failed: %v", err)
		}
		if last.Scoreboard.QuestionCount() != current.Scoreboard.QuestionCount() {
			t.Fatalf("round %d: last frame at question %d, board at %d", round, last.Scoreboard.QuestionCount(), current.Scoreboard.QuestionCount())
		}
	}
}

var gameStart = time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)

type recordingEvents struct {
	mu     sync.Mutex
	events []domain.GameEvent
}

func (r *recordingEvents) Record(_ context.Context, event domain.GameEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEvents) all() []domain.GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.GameEvent(nil), r.events...)
}

func newTestService(t *testing.T, game app.GameConfig) (*app.GameService, *recordingEvents) {
	t.Helper()
	rosters := memory.NewRosterRepository(memory.NewStaticRosterLoader(map[string]domain.Roster{
		"finals": {
			ID: "finals",
			Entries: []domain.RosterEntry{
				{PlayerID: 1, Name: "Alice"},
				{PlayerID: 2, Name: "Bob"},
			},
		},
	}), 5*time.Minute)
	recorder := &recordingEvents{}
	n := 0
	service, err := app.NewGameService(memory.NewSessionStore(), rosters, memory.NewSnapshotStore(), game,
		app.WithEventRecorder(recorder),
		app.WithClock(func() time.Time { return gameStart }),
		app.WithIDGenerator(func() string {
			n++
			return "generated-" + strconv.Itoa(n)
		}),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service, recorder
}
