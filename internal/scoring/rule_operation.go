package scoring

import (
	"fmt"

	"quiz-scoreboard/internal/domain"
)

// RuleOperation plays a Rule on a scoreboard. Each question decays the
// breaks of every player except the one who just answered; a player with
// breaks left may not answer.
type RuleOperation struct {
	rule Rule
}

func NewRuleOperation(rule Rule) *RuleOperation {
	return &RuleOperation{rule: rule}
}

func (o *RuleOperation) Rule() Rule {
	return o.rule
}

func (o *RuleOperation) AnswerRight(sb domain.Scoreboard, index int) (domain.Scoreboard, error) {
	return o.answer(sb, index, o.rule.OnCorrect)
}

func (o *RuleOperation) MakeMiss(sb domain.Scoreboard, index int) (domain.Scoreboard, error) {
	return o.answer(sb, index, o.rule.OnWrong)
}

func (o *RuleOperation) Through(sb domain.Scoreboard) (domain.Scoreboard, error) {
	next, err := decayBreaks(sb, -1)
	if err != nil {
		return sb, err
	}
	return next.AdvanceQuestionCount(1)
}

func (o *RuleOperation) answer(sb domain.Scoreboard, index int, fn func(domain.PlayerScore) domain.PlayerScore) (domain.Scoreboard, error) {
	p, err := activePlayer(sb, index)
	if err != nil {
		return sb, err
	}
	if p.Breaks > 0 {
		return sb, fmt.Errorf("%w: seat %d has %d breaks left", domain.ErrPlayerFrozen, index, p.Breaks)
	}
	next, err := sb.ReplacePlayer(index, fn(p))
	if err != nil {
		return sb, err
	}
	next, err = decayBreaks(next, index)
	if err != nil {
		return sb, err
	}
	return next.AdvanceQuestionCount(1)
}

// decayBreaks reduces the breaks of every seat except skip.
func decayBreaks(sb domain.Scoreboard, skip int) (domain.Scoreboard, error) {
	var err error
	for i, p := range sb.Players() {
		if i == skip || p.Breaks == 0 {
			continue
		}
		sb, err = sb.UpdatePlayer(i, domain.PlayerScore.ReduceBreaks)
		if err != nil {
			return sb, err
		}
	}
	return sb, nil
}
