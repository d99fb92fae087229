package domain

import "time"

// RosterEntry is one seat of the initial roster.
type RosterEntry struct {
	PlayerID int    `json:"playerId"`
	Name     string `json:"name"`
}

// Roster is the ordered player list a game is opened with.
type Roster struct {
	ID      string        `json:"id"`
	Entries []RosterEntry `json:"entries"`
}

// GameSnapshot is the read-only view handed to transport and persistence
// after every change.
type GameSnapshot struct {
	GameID     string     `json:"gameId"`
	Rule       string     `json:"rule"`
	Scoreboard Scoreboard `json:"scoreboard"`
	CanUndo    bool       `json:"canUndo"`
	CanRedo    bool       `json:"canRedo"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// HistoryAction names what changed a session.
type HistoryAction string

const (
	ActionApply HistoryAction = "apply"
	ActionUndo  HistoryAction = "undo"
	ActionRedo  HistoryAction = "redo"
)

// GameEvent is an entry of the append-only action log.
type GameEvent struct {
	GameID        string
	Action        HistoryAction
	Payload       *Payload
	QuestionCount int
	At            time.Time
}
