package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"quiz-scoreboard/internal/config"
	"quiz-scoreboard/internal/domain"
	sqlitestore "quiz-scoreboard/internal/infra/sqlite"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// rosterFile is the YAML layout accepted by `roster import`.
type rosterFile struct {
	ID      string `yaml:"id"`
	Entries []struct {
		PlayerID int    `yaml:"playerId"`
		Name     string `yaml:"name"`
	} `yaml:"entries"`
}

// NewRosterCmd groups roster maintenance commands.
func NewRosterCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage rosters in the local SQLite store",
	}
	cmd.AddCommand(newRosterImportCmd(configPath))
	return cmd
}

func newRosterImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import a roster from YAML into sqlite.path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return importRoster(cmd.Context(), cfg, args[0])
		},
	}
}

func importRoster(ctx context.Context, cfg config.Config, path string) error {
	if cfg.SQLite.Path == "" {
		return fmt.Errorf("sqlite path not configured")
	}
	roster, err := readRosterFile(path)
	if err != nil {
		return err
	}
	// seats must form a valid scoreboard before they are stored
	if _, err := domain.NewScoreboardFromRoster(roster.Entries); err != nil {
		return fmt.Errorf("roster %s: %w", roster.ID, err)
	}

	db, err := sqlitestore.Open(ctx, cfg.SQLite.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqlitestore.NewRosterStore(db).SaveRoster(ctx, roster); err != nil {
		return err
	}
	log.Printf("imported roster %s with %d seats", roster.ID, len(roster.Entries))
	return nil
}

func readRosterFile(path string) (domain.Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Roster{}, err
	}
	var raw rosterFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.Roster{}, fmt.Errorf("parse roster: %w", err)
	}
	if raw.ID == "" {
		return domain.Roster{}, fmt.Errorf("%w: roster id is required", domain.ErrInvalidConfig)
	}
	roster := domain.Roster{ID: raw.ID}
	for _, e := range raw.Entries {
		roster.Entries = append(roster.Entries, domain.RosterEntry{PlayerID: e.PlayerID, Name: e.Name})
	}
	return roster, nil
}
