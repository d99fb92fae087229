package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"quiz-scoreboard/internal/domain"

	_ "modernc.org/sqlite" // driver: sqlite
)

const schema = `
CREATE TABLE IF NOT EXISTS roster_entries (
  roster_id TEXT NOT NULL,
  seat INTEGER NOT NULL,
  player_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  PRIMARY KEY (roster_id, seat)
);`

// Open opens a local roster database and ensures its schema exists.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = "file:rosters.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

// RosterStore reads and writes rosters in a SQLite file, for single-host setups
// without Postgres.
type RosterStore struct {
	db *sql.DB
}

func NewRosterStore(db *sql.DB) *RosterStore {
	return &RosterStore{db: db}
}

func (s *RosterStore) LoadRoster(ctx context.Context, rosterID string) (domain.Roster, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, name FROM roster_entries WHERE roster_id = ? ORDER BY seat`, rosterID)
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

// SaveRoster replaces every seat of the roster in one transaction.
func (s *RosterStore) SaveRoster(ctx context.Context, roster domain.Roster) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM roster_entries WHERE roster_id = ?`, roster.ID); err != nil {
		return fmt.Errorf("clear roster: %w", err)
	}
	for seat, entry := range roster.Entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO roster_entries (roster_id, seat, player_id, name) VALUES (?, ?, ?, ?)`,
			roster.ID, seat, entry.PlayerID, entry.Name); err != nil {
			return fmt.Errorf("insert seat %d: %w", seat, err)
		}
	}
	return tx.Commit()
}
