package cli

import (
	"fmt"

	"quiz-scoreboard/internal/scoring"

	"github.com/spf13/cobra"
)

// NewRulesCmd lists the rule names accepted by game.rule.
func NewRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List available scoring rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\t(win/lose thresholds from game.win and game.lose)\n", scoring.RuleNoMx)
			for _, name := range scoring.RuleNames() {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}
