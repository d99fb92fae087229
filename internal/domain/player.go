package domain

import (
	"fmt"
	"strings"
)

// PlayerState is the outcome of a player. Win and Lose are terminal.
type PlayerState int

const (
	StateLose   PlayerState = -1
	StateNormal PlayerState = 0
	StateWin    PlayerState = 1
)

func (s PlayerState) String() string {
	switch s {
	case StateWin:
		return "win"
	case StateLose:
		return "lose"
	default:
		return "normal"
	}
}

func (s PlayerState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *PlayerState) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "normal", "":
		*s = StateNormal
	case "win":
		*s = StateWin
	case "lose":
		*s = StateLose
	default:
		return fmt.Errorf("unknown player state %q", string(b))
	}
	return nil
}

// PlayerScore holds the counters of one player. It is a value: every method
// returns an updated copy and leaves the receiver untouched.
type PlayerScore struct {
	PlayerID int         `json:"playerId"`
	Name     string      `json:"name"`
	Answers  int         `json:"answers"`
	Misses   int         `json:"misses"`
	Score    int         `json:"score"`
	Penalty  int         `json:"penalty"`
	Breaks   int         `json:"breaks"`
	State    PlayerState `json:"state"`
}

// NewPlayerScore returns a fresh record for the given identity.
func NewPlayerScore(playerID int, name string) PlayerScore {
	return PlayerScore{PlayerID: playerID, Name: name}
}

// IsSamePlayer reports whether both records carry the same identity.
func (p PlayerScore) IsSamePlayer(other PlayerScore) bool {
	return p.PlayerID == other.PlayerID && p.Name == other.Name
}

// Finished reports whether the player reached a terminal state.
func (p PlayerScore) Finished() bool {
	return p.State != StateNormal
}

func (p PlayerScore) AddAnswer() PlayerScore {
	p.Answers++
	return p
}

func (p PlayerScore) AddMiss() PlayerScore {
	p.Misses++
	return p
}

func (p PlayerScore) WithScore(score int) PlayerScore {
	p.Score = score
	return p
}

func (p PlayerScore) WithPenalty(penalty int) PlayerScore {
	p.Penalty = penalty
	return p
}

func (p PlayerScore) WithBreaks(breaks int) PlayerScore {
	p.Breaks = breaks
	return p
}

func (p PlayerScore) WithState(state PlayerState) PlayerScore {
	p.State = state
	return p
}

// ReduceBreaks decays the freeze counter by one, never below zero.
func (p PlayerScore) ReduceBreaks() PlayerScore {
	if p.Breaks > 0 {
		p.Breaks--
	}
	return p
}
