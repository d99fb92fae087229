package scoring

import (
	"fmt"

	"quiz-scoreboard/internal/domain"
)

// NoMxOperation scores "n-right m-miss" buzzer games: a player wins at
// WinThreshold right answers and is out at LoseThreshold misses.
type NoMxOperation struct {
	WinThreshold  int
	LoseThreshold int
}

func NewNoMxOperation(winThreshold, loseThreshold int) (*NoMxOperation, error) {
	if winThreshold <= 0 {
		return nil, fmt.Errorf("%w: win threshold must be positive, got %d", domain.ErrInvalidConfig, winThreshold)
	}
	if loseThreshold <= 0 {
		return nil, fmt.Errorf("%w: lose threshold must be positive, got %d", domain.ErrInvalidConfig, loseThreshold)
	}
	return &NoMxOperation{WinThreshold: winThreshold, LoseThreshold: loseThreshold}, nil
}

func (o *NoMxOperation) AnswerRight(sb domain.Scoreboard, index int) (domain.Scoreboard, error) {
	p, err := activePlayer(sb, index)
	if err != nil {
		return sb, err
	}
	p = p.AddAnswer()
	if p.Answers >= o.WinThreshold {
		p = p.WithState(domain.StateWin)
	}
	next, err := sb.ReplacePlayer(index, p)
	if err != nil {
		return sb, err
	}
	return next.AdvanceQuestionCount(1)
}

func (o *NoMxOperation) MakeMiss(sb domain.Scoreboard, index int) (domain.Scoreboard, error) {
	p, err := activePlayer(sb, index)
	if err != nil {
		return sb, err
	}
	p = p.AddMiss()
	if p.Misses >= o.LoseThreshold {
		p = p.WithState(domain.StateLose)
	}
	next, err := sb.ReplacePlayer(index, p)
	if err != nil {
		return sb, err
	}
	return next.AdvanceQuestionCount(1)
}

func (o *NoMxOperation) Through(sb domain.Scoreboard) (domain.Scoreboard, error) {
	return sb.AdvanceQuestionCount(1)
}
