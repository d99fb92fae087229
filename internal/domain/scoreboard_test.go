package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"quiz-scoreboard/internal/domain"
)

func newBoard(t *testing.T) domain.Scoreboard {
	t.Helper()
	sb, err := domain.NewScoreboard([]domain.PlayerScore{
		domain.NewPlayerScore(1, "Alice"),
		domain.NewPlayerScore(2, "Bob"),
	}, 1)
	if err != nil {
		t.Fatalf("new scoreboard: %v", err)
	}
	return sb
}

func TestNewScoreboard(t *testing.T) {
	sb := newBoard(t)
	if sb.Len() != 2 {
		t.Fatalf("expected 2 players, got %d", sb.Len())
	}
	if sb.QuestionCount() != 1 {
		t.Fatalf("expected question count 1, got %d", sb.QuestionCount())
	}
	p, err := sb.Player(1)
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	if p.PlayerID != 2 || p.Name != "Bob" || p.State != domain.StateNormal {
		t.Fatalf("unexpected player %+v", p)
	}
}

func TestNewScoreboardFromRoster(t *testing.T) {
	sb, err := domain.NewScoreboardFromRoster([]domain.RosterEntry{
		{PlayerID: 1, Name: "Alice"},
		{PlayerID: 2, Name: "Bob"},
		{PlayerID: 2, Name: "Bobby"},
	})
	if err != nil {
		t.Fatalf("from roster: %v", err)
	}
	if sb.Len() != 3 {
		t.Fatalf("expected roster length 3, got %d", sb.Len())
	}

	_, err = domain.NewScoreboardFromRoster([]domain.RosterEntry{
		{PlayerID: 1, Name: "Alice"},
		{PlayerID: 1, Name: "Alice"},
	})
	if !errors.Is(err, domain.ErrDuplicatePlayer) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestNewScoreboardInvalidQuestionCount(t *testing.T) {
	if _, err := domain.NewScoreboard(nil, 0); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestAddPlayers(t *testing.T) {
	sb := newBoard(t)
	next, err := sb.AddPlayers(domain.NewPlayerScore(3, "Charlie"), domain.NewPlayerScore(4, "David"))
	if err != nil {
		t.Fatalf("add players: %v", err)
	}
	if next.Len() != 4 {
		t.Fatalf("expected 4 players, got %d", next.Len())
	}
	if sb.Len() != 2 {
		t.Fatalf("receiver changed: %d players", sb.Len())
	}
	p, _ := next.Player(3)
	if p.Name != "David" {
		t.Fatalf("expected David at seat 3, got %+v", p)
	}
}

func TestAddPlayersIsAllOrNothing(t *testing.T) {
	sb := newBoard(t)

	cases := map[string][]domain.PlayerScore{
		"collides with existing": {domain.NewPlayerScore(3, "Charlie"), domain.NewPlayerScore(1, "Alice")},
		"collides within batch":  {domain.NewPlayerScore(3, "Charlie"), domain.NewPlayerScore(3, "Charlie")},
	}
	for name, batch := range cases {
		t.Run(name, func(t *testing.T) {
			next, err := sb.AddPlayers(batch...)
			if !errors.Is(err, domain.ErrDuplicatePlayer) {
				t.Fatalf("expected duplicate error, got %v", err)
			}
			if !next.Equal(sb) || next.Len() != 2 {
				t.Fatalf("expected unchanged scoreboard, got %d players", next.Len())
			}
		})
	}
}

func TestSamePlayerNeedsBothIDAndName(t *testing.T) {
	sb := newBoard(t)
	next, err := sb.AddPlayers(domain.NewPlayerScore(1, "Bob"), domain.NewPlayerScore(3, "Alice"))
	if err != nil {
		t.Fatalf("expected distinct players, got %v", err)
	}
	if next.Len() != 4 {
		t.Fatalf("expected 4 players, got %d", next.Len())
	}
}

func TestPlayerIndexOutOfRange(t *testing.T) {
	sb := newBoard(t)
	for _, idx := range []int{-1, 2, 10} {
		if _, err := sb.Player(idx); !errors.Is(err, domain.ErrIndexOutOfRange) {
			t.Fatalf("index %d: expected out of range, got %v", idx, err)
		}
	}
}

func TestReplacePlayer(t *testing.T) {
	sb := newBoard(t)
	p, _ := sb.Player(0)
	next, err := sb.ReplacePlayer(0, p.AddAnswer().WithScore(1))
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, _ := next.Player(0)
	if got.Answers != 1 || got.Score != 1 {
		t.Fatalf("expected replaced counters, got %+v", got)
	}
	orig, _ := sb.Player(0)
	if orig.Answers != 0 {
		t.Fatalf("original scoreboard mutated: %+v", orig)
	}

	if _, err := sb.ReplacePlayer(0, domain.NewPlayerScore(2, "Bob")); !errors.Is(err, domain.ErrDuplicatePlayer) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, err := sb.ReplacePlayer(5, p); !errors.Is(err, domain.ErrIndexOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
}

func TestQuestionCount(t *testing.T) {
	sb := newBoard(t)
	next, err := sb.AdvanceQuestionCount(1)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if next.QuestionCount() != 2 || sb.QuestionCount() != 1 {
		t.Fatalf("unexpected counts %d/%d", next.QuestionCount(), sb.QuestionCount())
	}
	if _, err := next.AdvanceQuestionCount(-1); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
	reset, err := next.WithQuestionCount(1)
	if err != nil || reset.QuestionCount() != 1 {
		t.Fatalf("reset failed: %v", err)
	}
	if _, err := next.WithQuestionCount(0); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestPlayersReturnsCopy(t *testing.T) {
	sb := newBoard(t)
	players := sb.Players()
	players[0].Answers = 99
	p, _ := sb.Player(0)
	if p.Answers != 0 {
		t.Fatalf("scoreboard aliased by Players(): %+v", p)
	}
}

func TestScoreboardJSON(t *testing.T) {
	sb := newBoard(t)
	sb, _ = sb.UpdatePlayer(1, func(p domain.PlayerScore) domain.PlayerScore {
		return p.AddMiss().WithState(domain.StateLose)
	})
	data, err := json.Marshal(sb)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded domain.Scoreboard
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Equal(sb) {
		t.Fatalf("decoded scoreboard differs: %s", data)
	}

	bad := []byte(`{"players":[{"playerId":1,"name":"A"},{"playerId":1,"name":"A"}],"questionCount":1}`)
	if err := json.Unmarshal(bad, &decoded); !errors.Is(err, domain.ErrDuplicatePlayer) {
		t.Fatalf("expected duplicate error on decode, got %v", err)
	}
}
