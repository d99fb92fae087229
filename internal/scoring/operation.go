package scoring

import (
	"fmt"

	"quiz-scoreboard/internal/domain"
)

// Operation computes the next scoreboard for each kind of event. The input
// scoreboard is never modified.
type Operation interface {
	AnswerRight(sb domain.Scoreboard, index int) (domain.Scoreboard, error)
	MakeMiss(sb domain.Scoreboard, index int) (domain.Scoreboard, error)
	Through(sb domain.Scoreboard) (domain.Scoreboard, error)
}

// RuleNoMx selects NewNoMxOperation in NewOperation.
const RuleNoMx = "nomx"

// Apply routes a payload to the matching handler of op.
func Apply(op Operation, sb domain.Scoreboard, payload domain.Payload) (domain.Scoreboard, error) {
	switch payload.Type() {
	case domain.PayloadRight:
		index, err := payload.Index()
		if err != nil {
			return sb, err
		}
		return op.AnswerRight(sb, index)
	case domain.PayloadMiss:
		index, err := payload.Index()
		if err != nil {
			return sb, err
		}
		return op.MakeMiss(sb, index)
	case domain.PayloadThrough:
		return op.Through(sb)
	}
	return sb, fmt.Errorf("%w: unknown event %s", domain.ErrInvalidPayload, payload.Type())
}

// NewOperation builds the operation for a configured rule name. win and lose
// are only read by the nomx rule.
func NewOperation(rule string, win, lose int) (Operation, error) {
	if rule == RuleNoMx {
		op, err := NewNoMxOperation(win, lose)
		if err != nil {
			return nil, err
		}
		return op, nil
	}
	r, err := LookupRule(rule)
	if err != nil {
		return nil, err
	}
	return NewRuleOperation(r), nil
}

// activePlayer returns the player at index, rejecting finished players.
func activePlayer(sb domain.Scoreboard, index int) (domain.PlayerScore, error) {
	p, err := sb.Player(index)
	if err != nil {
		return p, err
	}
	if p.Finished() {
		return p, fmt.Errorf("%w: seat %d is %s", domain.ErrPlayerFinished, index, p.State)
	}
	return p, nil
}
