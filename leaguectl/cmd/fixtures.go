// leaguectl/cmd/fixtures.go
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ftotnem/LEAGUE-SERVICES/leaguectl/board"
)

func newFixturesCmd(a *app) *cobra.Command {
	var team, status string

	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Show a team's fixtures and results, newest first",
		Example: `  leaguectl fixtures --team Arsenal
  leaguectl fixtures --team 3 --status FT`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := parseStatusFlag(status)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			teams, err := a.client.Teams(ctx)
			if err != nil {
				return fmt.Errorf("failed to load teams from %s: %w", a.client.BaseURL(), err)
			}
			t, err := resolveTeam(teams, team)
			if err != nil {
				return err
			}

			matches, err := a.loader.Fixtures(ctx, t.ID, st)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d matches\n", t.Name, len(matches))
			board.RenderFixtures(out, matches, board.TeamNames(teams), t.ID, time.Local)
			return nil
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "Team id or name (required)")
	cmd.Flags().StringVar(&status, "status", "", "Only matches with this status (SCHEDULED, LIVE, FT)")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func newMatchesCmd(a *app) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "matches",
		Short: "List all matches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := parseStatusFlag(status)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			teams, err := a.client.Teams(ctx)
			if err != nil {
				return fmt.Errorf("failed to load teams from %s: %w", a.client.BaseURL(), err)
			}
			matches, err := a.client.Matches(ctx, st)
			if err != nil {
				return fmt.Errorf("failed to load matches from %s: %w", a.client.BaseURL(), err)
			}
			// Providers may ignore the status query.
			matches = board.FilterStatus(matches, st)
			board.SortHistory(matches)
			board.RenderFixtures(cmd.OutOrStdout(), matches, board.TeamNames(teams), "", time.Local)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only matches with this status (SCHEDULED, LIVE, FT)")
	return cmd
}
