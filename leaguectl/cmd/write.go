// leaguectl/cmd/write.go
package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/service"
)

func newAddMatchCmd(a *app) *cobra.Command {
	var home, away, kickoff, venue string

	cmd := &cobra.Command{
		Use:     "add-match",
		Short:   "Create a scheduled fixture",
		Example: `  leaguectl add-match --home Arsenal --away Chelsea --kickoff 2025-08-16T14:00:00Z`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			teams, err := a.client.Teams(ctx)
			if err != nil {
				return fmt.Errorf("failed to load teams from %s: %w", a.client.BaseURL(), err)
			}
			h, err := resolveTeam(teams, home)
			if err != nil {
				return err
			}
			aw, err := resolveTeam(teams, away)
			if err != nil {
				return err
			}

			req := service.CreateMatchRequest{HomeTeamID: h.ID, AwayTeamID: aw.ID, Venue: venue}
			if kickoff != "" {
				k, err := models.ParseKickoff(kickoff)
				if err != nil {
					return err
				}
				req.Kickoff = &k
			}

			m, err := a.client.CreateMatch(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to create match: %w", err)
			}
			printMatch(cmd.OutOrStdout(), "Match created", m, h.Name, aw.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&home, "home", "", "Home team id or name (required)")
	cmd.Flags().StringVar(&away, "away", "", "Away team id or name (required)")
	cmd.Flags().StringVar(&kickoff, "kickoff", "", "Kickoff time, ISO-8601 (e.g. 2025-08-16T14:00:00Z)")
	cmd.Flags().StringVar(&venue, "venue", "", "Venue")
	_ = cmd.MarkFlagRequired("home")
	_ = cmd.MarkFlagRequired("away")
	return cmd
}

type submitResultFlags struct {
	matchID   string
	homeGoals int
	awayGoals int
	live      bool
	homeTeam  string
	awayTeam  string
}

func newSubmitResultCmd(a *app) *cobra.Command {
	var f submitResultFlags

	cmd := &cobra.Command{
		Use:   "submit-result",
		Short: "Record the score of a match",
		Long: `Record the score of a match, by match id or by teams.

With --home-team and --away-team the earliest unfinished fixture between the two teams, in that
home/away orientation, is completed.`,
		Example: `  leaguectl submit-result --match 12 --home 2 --away 1
  leaguectl submit-result --match 12 --home 1 --away 0 --live
  leaguectl submit-result --home-team Arsenal --away-team Chelsea --home 1 --away 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.homeGoals < 0 || f.awayGoals < 0 {
				return errors.New("scores must be non-negative")
			}
			ctx := cmd.Context()

			matchID := models.ParseID(f.matchID)
			if matchID == "" {
				if f.homeTeam == "" || f.awayTeam == "" {
					return errors.New("either --match or both --home-team and --away-team are required")
				}
				if f.live {
					return errors.New("--live needs --match")
				}
				teams, err := a.client.Teams(ctx)
				if err != nil {
					return fmt.Errorf("failed to load teams from %s: %w", a.client.BaseURL(), err)
				}
				h, err := resolveTeam(teams, f.homeTeam)
				if err != nil {
					return err
				}
				aw, err := resolveTeam(teams, f.awayTeam)
				if err != nil {
					return err
				}
				m, err := a.client.RecordResultByTeams(ctx, service.ResultByTeamsRequest{
					HomeTeamID: h.ID,
					AwayTeamID: aw.ID,
					HomeGoals:  service.Goals(f.homeGoals),
					AwayGoals:  service.Goals(f.awayGoals),
				})
				if err != nil {
					return fmt.Errorf("failed to record result: %w", err)
				}
				printMatch(cmd.OutOrStdout(), "Result saved", m, h.Name, aw.Name)
				return nil
			}

			req := service.ResultRequest{HomeGoals: service.Goals(f.homeGoals), AwayGoals: service.Goals(f.awayGoals)}
			if f.live {
				req.Status = models.StatusLive
			}
			m, err := a.client.SubmitResult(ctx, matchID, req)
			if err != nil {
				return fmt.Errorf("failed to submit result for match %s: %w", matchID, err)
			}
			printMatch(cmd.OutOrStdout(), "Result saved", m, "", "")
			return nil
		},
	}

	cmd.Flags().StringVar(&f.matchID, "match", "", "Match id")
	cmd.Flags().IntVar(&f.homeGoals, "home", 0, "Home goals")
	cmd.Flags().IntVar(&f.awayGoals, "away", 0, "Away goals")
	cmd.Flags().BoolVar(&f.live, "live", false, "Record an in-play score instead of the final result")
	cmd.Flags().StringVar(&f.homeTeam, "home-team", "", "Home team id or name, instead of --match")
	cmd.Flags().StringVar(&f.awayTeam, "away-team", "", "Away team id or name, instead of --match")
	_ = cmd.MarkFlagRequired("home")
	_ = cmd.MarkFlagRequired("away")
	return cmd
}

func newSetOwnerCmd(a *app) *cobra.Command {
	var team, owner string

	cmd := &cobra.Command{
		Use:     "set-owner",
		Short:   "Set the owner of a team",
		Example: `  leaguectl set-owner --team Arsenal --owner "Stan Kroenke"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			teams, err := a.client.Teams(ctx)
			if err != nil {
				return fmt.Errorf("failed to load teams from %s: %w", a.client.BaseURL(), err)
			}
			t, err := resolveTeam(teams, team)
			if err != nil {
				return err
			}
			updated, err := a.client.SetOwner(ctx, t.ID, owner)
			if err != nil {
				return fmt.Errorf("failed to set owner of %s: %w", t.Name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Owner set for %s (%s) -> %s\n", updated.Name, updated.ID, updated.Owner)
			return nil
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "Team id or name (required)")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner name (required)")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func printMatch(out io.Writer, label string, m *models.ProviderMatch, home, away string) {
	if home == "" {
		home = fmt.Sprintf("team %s", m.HomeTeamID)
	}
	if away == "" {
		away = fmt.Sprintf("team %s", m.AwayTeamID)
	}
	if m.Status == models.StatusScheduled {
		fmt.Fprintf(out, "%s: #%s %s vs %s\n", label, m.ID, home, away)
		return
	}
	fmt.Fprintf(out, "%s: #%s %s %d-%d %s (%s)\n", label, m.ID, home, m.HomeGoals, m.AwayGoals, away, m.Status)
}
