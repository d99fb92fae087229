package scoring

import (
	"fmt"
	"sort"

	"quiz-scoreboard/internal/domain"
)

// Rule is a per-player point and penalty policy. OnCorrect and OnWrong update
// the counters and then check the rule's own win or lose predicate. They do
// not look at the current state; callers must not feed events to finished
// players.
type Rule interface {
	Name() string
	OnCorrect(p domain.PlayerScore) domain.PlayerScore
	OnWrong(p domain.PlayerScore) domain.PlayerScore
	Point(p domain.PlayerScore) int
}

const (
	RuleTenByTen  = "10by10"
	RuleTenUpDown = "10updown"
	RuleSwedish10 = "swedish10"
	RuleFreeze10  = "freeze10"
)

var rules = map[string]Rule{
	RuleTenByTen:  TenByTen{},
	RuleTenUpDown: TenUpDown{},
	RuleSwedish10: Swedish10{},
	RuleFreeze10:  Freeze10{},
}

// LookupRule returns the rule registered under name.
func LookupRule(name string) (Rule, error) {
	r, ok := rules[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown rule %q", domain.ErrInvalidConfig, name)
	}
	return r, nil
}

// RuleNames lists the registered rules in sorted order.
func RuleNames() []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TenByTen: point = answers × (10 − misses). Win at 100 points, lose at 6 misses.
type TenByTen struct{}

func (TenByTen) Name() string { return RuleTenByTen }

func (TenByTen) Point(p domain.PlayerScore) int {
	return p.Answers * (10 - p.Misses)
}

func (r TenByTen) OnCorrect(p domain.PlayerScore) domain.PlayerScore {
	p = p.AddAnswer()
	p = p.WithScore(r.Point(p))
	if p.Score >= 100 {
		p = p.WithState(domain.StateWin)
	}
	return p
}

func (r TenByTen) OnWrong(p domain.PlayerScore) domain.PlayerScore {
	p = p.AddMiss()
	p = p.WithScore(r.Point(p))
	if p.Misses >= 6 {
		p = p.WithState(domain.StateLose)
	}
	return p
}

// TenUpDown: one point per right answer, back to zero on a miss.
// Win at 10 points, lose at 2 misses.
type TenUpDown struct{}

func (TenUpDown) Name() string { return RuleTenUpDown }

func (TenUpDown) Point(p domain.PlayerScore) int { return p.Score }

func (TenUpDown) OnCorrect(p domain.PlayerScore) domain.PlayerScore {
	p = p.AddAnswer().WithScore(p.Score + 1)
	if p.Score >= 10 {
		p = p.WithState(domain.StateWin)
	}
	return p
}

func (TenUpDown) OnWrong(p domain.PlayerScore) domain.PlayerScore {
	p = p.AddMiss().WithScore(0)
	if p.Misses >= 2 {
		p = p.WithState(domain.StateLose)
	}
	return p
}

// Swedish10: point = answers. A miss adds a penalty banded by the current point.
// Win at 10 answers, lose at 10 penalty.
type Swedish10 struct{}

func (Swedish10) Name() string { return RuleSwedish10 }

func (Swedish10) Point(p domain.PlayerScore) int { return p.Answers }

func (r Swedish10) OnCorrect(p domain.PlayerScore) domain.PlayerScore {
	p = p.AddAnswer()
	p = p.WithScore(r.Point(p))
	if p.Score >= 10 {
		p = p.WithState(domain.StateWin)
	}
	return p
}

func (r Swedish10) OnWrong(p domain.PlayerScore) domain.PlayerScore {
	p = p.AddMiss()
	p = p.WithPenalty(p.Penalty + swedishPenalty(r.Point(p)))
	if p.Penalty >= 10 {
		p = p.WithState(domain.StateLose)
	}
	return p
}

func swedishPenalty(point int) int {
	switch {
	case point <= 0:
		return 1
	case point <= 2:
		return 2
	case point <= 5:
		return 3
	default:
		return 4
	}
}

// Freeze10: point = answers, and every miss freezes the player for as many
// questions as misses so far. Win at 10 answers; there is no lose condition.
type Freeze10 struct{}

func (Freeze10) Name() string { return RuleFreeze10 }

func (Freeze10) Point(p domain.PlayerScore) int { return p.Answers }

func (r Freeze10) OnCorrect(p domain.PlayerScore) domain.PlayerScore {
	p = p.AddAnswer()
	p = p.WithScore(r.Point(p))
	if p.Answers >= 10 {
		p = p.WithState(domain.StateWin)
	}
	return p
}

func (Freeze10) OnWrong(p domain.PlayerScore) domain.PlayerScore {
	p = p.AddMiss()
	return p.WithBreaks(p.Misses)
}
