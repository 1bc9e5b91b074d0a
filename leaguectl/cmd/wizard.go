// leaguectl/cmd/wizard.go
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/service"
)

func newWizardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "Create a fixture, fill in missing owners and submit its result interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := &wizard{
				client: a.client,
				in:     bufio.NewReader(cmd.InOrStdin()),
				out:    cmd.OutOrStdout(),
				now:    time.Now,
			}
			return w.run(cmd.Context())
		},
	}
}

type wizard struct {
	client *service.LeagueServiceClient
	in     *bufio.Reader
	out    io.Writer
	now    func() time.Time
}

func (w *wizard) run(ctx context.Context) error {
	fmt.Fprintf(w.out, "League wizard: create fixture, set owners if missing, submit result\n")
	fmt.Fprintf(w.out, "Provider: %s\n", w.client.BaseURL())

	teams, err := w.client.Teams(ctx)
	if err != nil {
		return fmt.Errorf("failed to load teams from %s: %w", w.client.BaseURL(), err)
	}
	if len(teams) < 2 {
		return fmt.Errorf("need at least two teams, provider has %d", len(teams))
	}
	fmt.Fprintf(w.out, "Loaded %d teams.\n", len(teams))

	home, err := w.pickTeam("Home team (name)", teams, "")
	if err != nil {
		return err
	}
	away, err := w.pickTeam("Away team (name)", teams, home.ID)
	if err != nil {
		return err
	}
	kickoff, err := w.askKickoff()
	if err != nil {
		return err
	}

	m, err := w.client.CreateMatch(ctx, service.CreateMatchRequest{HomeTeamID: home.ID, AwayTeamID: away.ID, Kickoff: &kickoff})
	if err != nil {
		return fmt.Errorf("failed to create fixture: %w", err)
	}
	fmt.Fprintf(w.out, "Fixture created. Match ID: %s\n", m.ID)

	for _, t := range []models.ProviderTeam{home, away} {
		if err := w.ensureOwner(ctx, t); err != nil {
			return err
		}
	}

	homeGoals, err := w.askGoals("Home score")
	if err != nil {
		return err
	}
	awayGoals, err := w.askGoals("Away score")
	if err != nil {
		return err
	}
	result, err := w.client.SubmitResult(ctx, m.ID, service.ResultRequest{
		HomeGoals: service.Goals(homeGoals),
		AwayGoals: service.Goals(awayGoals),
		Status:    models.StatusFullTime,
	})
	if err != nil {
		return fmt.Errorf("failed to submit result for match %s: %w", m.ID, err)
	}
	fmt.Fprintf(w.out, "Result saved for match %s: %s %d-%d %s\n", result.ID, home.Name, result.HomeGoals, result.AwayGoals, away.Name)
	return nil
}

// ask prompts for one line. A closed input is an error so the wizard never loops forever.
func (w *wizard) ask(label string) (string, error) {
	fmt.Fprintf(w.out, "%s: ", label)
	line, err := w.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("input closed before the wizard finished")
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (w *wizard) pickTeam(label string, teams []models.ProviderTeam, exclude models.ID) (models.ProviderTeam, error) {
	for {
		name, err := w.ask(label)
		if err != nil {
			return models.ProviderTeam{}, err
		}
		for _, t := range teams {
			if !strings.EqualFold(t.Name, name) {
				continue
			}
			if t.ID == exclude {
				fmt.Fprintf(w.out, "Away team must differ from home team.\n")
				break
			}
			return t, nil
		}
		if !teamNamed(teams, name) {
			fmt.Fprintf(w.out, "Unknown team %q. Options: %s\n", name, strings.Join(sortedNames(teams), ", "))
		}
	}
}

// askKickoff reads an ISO-8601 time; an empty answer means now.
func (w *wizard) askKickoff() (time.Time, error) {
	for {
		s, err := w.ask("Kickoff (ISO-8601, empty for now)")
		if err != nil {
			return time.Time{}, err
		}
		if s == "" {
			return w.now().UTC().Truncate(time.Minute), nil
		}
		k, err := models.ParseKickoff(s)
		if err == nil {
			return k, nil
		}
		fmt.Fprintf(w.out, "%v\n", err)
	}
}

func (w *wizard) ensureOwner(ctx context.Context, t models.ProviderTeam) error {
	if t.Owner != "" {
		return nil
	}
	for {
		owner, err := w.ask(fmt.Sprintf("Owner for %s", t.Name))
		if err != nil {
			return err
		}
		if owner == "" {
			fmt.Fprintf(w.out, "Owner must not be empty.\n")
			continue
		}
		if _, err := w.client.SetOwner(ctx, t.ID, owner); err != nil {
			return fmt.Errorf("failed to set owner of %s: %w", t.Name, err)
		}
		fmt.Fprintf(w.out, "Owner set for %s -> %s\n", t.Name, owner)
		return nil
	}
}

func (w *wizard) askGoals(label string) (int, error) {
	for {
		s, err := w.ask(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(s)
		if err == nil && n >= 0 {
			return n, nil
		}
		fmt.Fprintf(w.out, "Enter a whole number >= 0.\n")
	}
}

func teamNamed(teams []models.ProviderTeam, name string) bool {
	for _, t := range teams {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

func sortedNames(teams []models.ProviderTeam) []string {
	names := make([]string, len(teams))
	for i, t := range teams {
		names[i] = t.Name
	}
	sort.Strings(names)
	return names
}
