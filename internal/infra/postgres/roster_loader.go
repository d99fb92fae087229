package postgres

import (
	"context"
	"fmt"

	"quiz-scoreboard/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RosterLoader loads rosters from the roster_entries table, in seat order.
type RosterLoader struct {
	pool *pgxpool.Pool
}

func NewRosterLoader(pool *pgxpool.Pool) *RosterLoader {
	return &RosterLoader{pool: pool}
}

func (l *RosterLoader) LoadRoster(ctx context.Context, rosterID string) (domain.Roster, error) {
	rows, err := l.pool.Query(ctx, `SELECT player_id, name FROM roster_entries WHERE roster_id=$1 ORDER BY seat`, rosterID)
	if err != nil {
		return domain.Roster{}, fmt.Errorf("load roster: %w", err)
	}
	defer rows.Close()

	roster := domain.Roster{ID: rosterID}
	for rows.Next() {
		var entry domain.RosterEntry
		if err := rows.Scan(&entry.PlayerID, &entry.Name); err != nil {
			return domain.Roster{}, fmt.Errorf("scan roster entry: %w", err)
		}
		roster.Entries = append(roster.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return domain.Roster{}, fmt.Errorf("load roster: %w", err)
	}
	if len(roster.Entries) == 0 {
		return domain.Roster{}, fmt.Errorf("%w: %s", domain.ErrRosterNotFound, rosterID)
	}
	return roster, nil
}
