package domain

import "errors"

var (
	// ErrInvalidConfig is returned for non-positive thresholds, an unknown rule or a question count below 1.
	ErrInvalidConfig = errors.New("invalid scoring config")
	// ErrDuplicatePlayer is returned when two records share the same player id and name.
	ErrDuplicatePlayer = errors.New("players must be different")
	// ErrIndexOutOfRange indicates a player index outside the scoreboard.
	ErrIndexOutOfRange = errors.New("player index out of range")
	// ErrInvalidPayload indicates a malformed event, e.g. a right or miss without a player index.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrPlayerFinished is returned when an event targets a player who already won or lost.
	ErrPlayerFinished = errors.New("player already finished")
	// ErrPlayerFrozen is returned when an event targets a player still serving breaks.
	ErrPlayerFrozen = errors.New("player is frozen")
	// ErrSessionNotFound is returned when a game session has not been opened.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrRosterNotFound indicates the roster could not be loaded.
	ErrRosterNotFound = errors.New("roster not found")
)
