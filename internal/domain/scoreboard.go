package domain

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Scoreboard is the ordered set of player records plus the shared question
// counter. Seat order is the addressing key. Every method that changes the
// board returns a new Scoreboard on a cloned slice, so earlier values stay
// valid as history snapshots.
type Scoreboard struct {
	players       []PlayerScore
	questionCount int
}

// NewScoreboard validates the question count and player uniqueness.
func NewScoreboard(players []PlayerScore, questionCount int) (Scoreboard, error) {
	if questionCount < 1 {
		return Scoreboard{}, fmt.Errorf("%w: question count must be at least 1, got %d", ErrInvalidConfig, questionCount)
	}
	sb := Scoreboard{questionCount: questionCount}
	return sb.AddPlayers(players...)
}

// NewScoreboardFromRoster builds one fresh record per roster entry, starting at question 1.
func NewScoreboardFromRoster(entries []RosterEntry) (Scoreboard, error) {
	players := make([]PlayerScore, 0, len(entries))
	for _, e := range entries {
		players = append(players, NewPlayerScore(e.PlayerID, e.Name))
	}
	return NewScoreboard(players, 1)
}

// AddPlayers appends the batch or nothing at all.
func (s Scoreboard) AddPlayers(players ...PlayerScore) (Scoreboard, error) {
	next := make([]PlayerScore, len(s.players), len(s.players)+len(players))
	copy(next, s.players)
	for _, p := range players {
		for _, existing := range next {
			if p.IsSamePlayer(existing) {
				return s, fmt.Errorf("%w: id=%d name=%q", ErrDuplicatePlayer, p.PlayerID, p.Name)
			}
		}
		next = append(next, p)
	}
	return Scoreboard{players: next, questionCount: s.questionCount}, nil
}

func (s Scoreboard) Len() int {
	return len(s.players)
}

func (s Scoreboard) QuestionCount() int {
	return s.questionCount
}

// Players returns a copy of the records in seat order.
func (s Scoreboard) Players() []PlayerScore {
	return slices.Clone(s.players)
}

// Player returns the record at index.
func (s Scoreboard) Player(index int) (PlayerScore, error) {
	if err := s.checkIndex(index); err != nil {
		return PlayerScore{}, err
	}
	return s.players[index], nil
}

// ReplacePlayer swaps the record at index. The replacement must not collide
// with any other seat.
func (s Scoreboard) ReplacePlayer(index int, p PlayerScore) (Scoreboard, error) {
	if err := s.checkIndex(index); err != nil {
		return s, err
	}
	for i, existing := range s.players {
		if i != index && p.IsSamePlayer(existing) {
			return s, fmt.Errorf("%w: id=%d name=%q", ErrDuplicatePlayer, p.PlayerID, p.Name)
		}
	}
	next := slices.Clone(s.players)
	next[index] = p
	return Scoreboard{players: next, questionCount: s.questionCount}, nil
}

// UpdatePlayer applies fn to the record at index.
func (s Scoreboard) UpdatePlayer(index int, fn func(PlayerScore) PlayerScore) (Scoreboard, error) {
	p, err := s.Player(index)
	if err != nil {
		return s, err
	}
	return s.ReplacePlayer(index, fn(p))
}

// AdvanceQuestionCount moves the counter forward by delta.
func (s Scoreboard) AdvanceQuestionCount(delta int) (Scoreboard, error) {
	if delta < 0 {
		return s, fmt.Errorf("%w: question count cannot move backwards (delta %d)", ErrInvalidConfig, delta)
	}
	return Scoreboard{players: slices.Clone(s.players), questionCount: s.questionCount + delta}, nil
}

// WithQuestionCount resets the counter explicitly.
func (s Scoreboard) WithQuestionCount(n int) (Scoreboard, error) {
	if n < 1 {
		return s, fmt.Errorf("%w: question count must be at least 1, got %d", ErrInvalidConfig, n)
	}
	return Scoreboard{players: slices.Clone(s.players), questionCount: n}, nil
}

// Equal compares every counter of every seat and the question count.
func (s Scoreboard) Equal(other Scoreboard) bool {
	return s.questionCount == other.questionCount && slices.Equal(s.players, other.players)
}

func (s Scoreboard) checkIndex(index int) error {
	if index < 0 || index >= len(s.players) {
		return fmt.Errorf("%w: %d (players=%d)", ErrIndexOutOfRange, index, len(s.players))
	}
	return nil
}

type scoreboardJSON struct {
	Players       []PlayerScore `json:"players"`
	QuestionCount int           `json:"questionCount"`
}

func (s Scoreboard) MarshalJSON() ([]byte, error) {
	players := s.players
	if players == nil {
		players = []PlayerScore{}
	}
	return json.Marshal(scoreboardJSON{Players: players, QuestionCount: s.questionCount})
}

// UnmarshalJSON re-validates the decoded board.
func (s *Scoreboard) UnmarshalJSON(b []byte) error {
	var raw scoreboardJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	sb, err := NewScoreboard(raw.Players, raw.QuestionCount)
	if err != nil {
		return err
	}
	*s = sb
	return nil
}
