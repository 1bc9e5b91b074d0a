// Package board loads league data from a provider and prepares it for display.
package board

import (
	"context"
	"fmt"
	"sort"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/service"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/standings"
)

// Source tells where the table rows came from.
type Source string

const (
	SourceAPI      Source = "api"
	SourceComputed Source = "computed"
)

// SortMode selects the table ordering.
type SortMode string

const (
	SortPoints SortMode = "points"
	SortName   SortMode = "name"
)

// ParseSortMode accepts "points" (also the empty string) and "name".
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortPoints:
		return SortPoints, nil
	case SortName:
		return SortName, nil
	}
	return "", fmt.Errorf("invalid sort mode %q: expected %s or %s", s, SortPoints, SortName)
}

type Options struct {
	// TablePath is the provider's pre-aggregated table endpoint, "/table" when empty.
	TablePath string
	// Status filters Board.Matches. The table always uses every match.
	Status models.MatchStatus
	Sort   SortMode
}

// Board is one consistent view of the league.
type Board struct {
	Teams   []models.ProviderTeam
	Matches []models.ProviderMatch
	Rows    []models.ProviderRow
	Source  Source
	// TableErr is why the provider table was not used, when Source is computed.
	TableErr error
}

// TeamNames maps team ids to display names.
func (b *Board) TeamNames() map[models.ID]string {
	return TeamNames(b.Teams)
}

func TeamNames(teams []models.ProviderTeam) map[models.ID]string {
	names := make(map[models.ID]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names
}

// Loader fetches boards from a league provider.
type Loader struct {
	client *service.LeagueServiceClient
	lggr   logger.Logger
}

func NewLoader(client *service.LeagueServiceClient, lggr logger.Logger) *Loader {
	return &Loader{client: client, lggr: lggr.Named("board")}
}

// Load fetches teams and matches, then the provider table. When the table cannot be fetched
// or decoded, standings are computed from the matches instead.
func (l *Loader) Load(ctx context.Context, opts Options) (*Board, error) {
	teams, err := l.client.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams from %s: %w", l.client.BaseURL(), err)
	}
	matches, err := l.client.Matches(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load matches from %s: %w", l.client.BaseURL(), err)
	}

	b := &Board{Teams: teams, Matches: FilterStatus(matches, opts.Status)}

	tablePath := opts.TablePath
	if tablePath == "" {
		tablePath = "/table"
	}
	rows, err := l.client.Table(ctx, tablePath, b.TeamNames())
	if err != nil {
		l.lggr.Debugf("Table endpoint %s unavailable, computing standings: %v", tablePath, err)
		b.Rows = standings.Compute(teams, matches)
		b.Source = SourceComputed
		b.TableErr = err
	} else {
		b.Rows = rows
		b.Source = SourceAPI
	}

	if opts.Sort == SortName {
		standings.SortByName(b.Rows)
	} else {
		standings.Sort(b.Rows)
	}
	return b, nil
}

// Fixtures returns a team's matches, newest first. Providers without a per-team endpoint are
// served by filtering the full match list.
func (l *Loader) Fixtures(ctx context.Context, teamID models.ID, status models.MatchStatus) ([]models.ProviderMatch, error) {
	matches, err := l.client.TeamFixtures(ctx, teamID, status)
	if err != nil {
		l.lggr.Debugf("Team fixtures endpoint unavailable, filtering matches: %v", err)
		all, err := l.client.Matches(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("failed to load matches from %s: %w", l.client.BaseURL(), err)
		}
		matches = nil
		for _, m := range FilterStatus(all, status) {
			if m.Involves(teamID) {
				matches = append(matches, m)
			}
		}
	}
	SortHistory(matches)
	return matches, nil
}

// SortHistory orders matches by kickoff descending with unknown kickoffs last, then by id
// descending.
func SortHistory(ms []models.ProviderMatch) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i].Kickoff, ms[j].Kickoff
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return models.CompareIDs(ms[i].ID, ms[j].ID) > 0
	})
}

// FilterStatus keeps the matches with the given status; an empty status keeps all of them.
func FilterStatus(ms []models.ProviderMatch, status models.MatchStatus) []models.ProviderMatch {
	if status == "" {
		return ms
	}
	out := make([]models.ProviderMatch, 0, len(ms))
	for _, m := range ms {
		if m.Status == status {
			out = append(out, m)
		}
	}
	return out
}
