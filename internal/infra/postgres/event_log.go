package postgres

import (
	"context"
	"fmt"

	"quiz-scoreboard/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// EventLog appends session actions to scoreboard_events.
type EventLog struct {
	pool *pgxpool.Pool
}

func NewEventLog(pool *pgxpool.Pool) *EventLog {
	return &EventLog{pool: pool}
}

func (l *EventLog) Record(ctx context.Context, event domain.GameEvent) error {
	var kind *string
	var index *int
	if event.Payload != nil {
		k := event.Payload.Type().String()
		kind = &k
		if i, err := event.Payload.Index(); err == nil {
			index = &i
		}
	}
	_, err := l.pool.Exec(ctx,
		`INSERT INTO scoreboard_events (game_id, action, event, player_index, question_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		event.GameID, string(event.Action), kind, index, event.QuestionCount, event.At)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// Count returns how many actions were logged for a game.
func (l *EventLog) Count(ctx context.Context, gameID string) (int, error) {
	var n int
	if err := l.pool.QueryRow(ctx, `SELECT count(*) FROM scoreboard_events WHERE game_id=$1`, gameID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
