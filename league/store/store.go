// league/store/store.go
package store

import (
	"context"
	"errors"
	"sort"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
)

// ErrNotFound is returned when a team, match or snapshot does not exist.
var ErrNotFound = errors.New("not found")

// TeamStore persists teams. Teams are created by seeding only.
type TeamStore interface {
	// ListTeams returns all teams ordered by id.
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetTeam(ctx context.Context, id int64) (*models.Team, error)
	SetOwner(ctx context.Context, id int64, owner string) (*models.Team, error)
	// EnsureTeams inserts teams whose id is not stored yet and reports how many were added.
	EnsureTeams(ctx context.Context, teams []models.Team) (int, error)
}

// MatchStore persists matches. List results are ordered by kickoff (unknown kickoff last), then id.
type MatchStore interface {
	// ListMatches returns all matches, or those with the given status when status is not empty.
	ListMatches(ctx context.Context, status models.MatchStatus) ([]models.Match, error)
	GetMatch(ctx context.Context, id int64) (*models.Match, error)
	// CreateMatch stores m and assigns its ID.
	CreateMatch(ctx context.Context, m *models.Match) error
	UpdateResult(ctx context.Context, id int64, homeGoals, awayGoals int, status models.MatchStatus) (*models.Match, error)
	TeamMatches(ctx context.Context, teamID int64, status models.MatchStatus) ([]models.Match, error)
	// OpenFixtureBetween returns the earliest match between home and away that is not FT.
	OpenFixtureBetween(ctx context.Context, homeTeamID, awayTeamID int64) (*models.Match, error)
	// EnsureMatches inserts matches whose id is not stored yet and reports how many were added.
	EnsureMatches(ctx context.Context, matches []models.Match) (int, error)
}

// SnapshotStore persists standings snapshots.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s *models.StandingsSnapshot) error
	LatestSnapshot(ctx context.Context) (*models.StandingsSnapshot, error)
}

// SortMatches orders matches by kickoff ascending with unknown kickoffs last, then by id.
func SortMatches(ms []models.Match) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i].Kickoff, ms[j].Kickoff
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return ms[i].ID < ms[j].ID
	})
}

func firstOpenBetween(ms []models.Match, home, away int64) (*models.Match, error) {
	for _, m := range ms {
		if m.HomeTeamID == home && m.AwayTeamID == away && !m.Finished() {
			return &m, nil
		}
	}
	return nil, ErrNotFound
}
