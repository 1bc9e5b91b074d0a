// league/seed/seed.go
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Ftotnem/LEAGUE-SERVICES/league/store"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
)

//go:embed default.yaml
var defaultSeed []byte

// File is the on-disk layout of a seed file, in YAML or TOML.
type File struct {
	Teams   []TeamEntry  `yaml:"teams" toml:"teams"`
	Matches []MatchEntry `yaml:"matches" toml:"matches"`
}

type TeamEntry struct {
	ID        int64  `yaml:"id" toml:"id"`
	Name      string `yaml:"name" toml:"name"`
	ShortName string `yaml:"shortName" toml:"shortName"`
	City      string `yaml:"city" toml:"city"`
	Owner     string `yaml:"owner" toml:"owner"`
}

type MatchEntry struct {
	ID         int64  `yaml:"id" toml:"id"`
	HomeTeamID int64  `yaml:"homeTeamId" toml:"homeTeamId"`
	AwayTeamID int64  `yaml:"awayTeamId" toml:"awayTeamId"`
	HomeGoals  int    `yaml:"homeGoals" toml:"homeGoals"`
	AwayGoals  int    `yaml:"awayGoals" toml:"awayGoals"`
	Status     string `yaml:"status" toml:"status"`
	Kickoff    string `yaml:"kickoff" toml:"kickoff"`
	Venue      string `yaml:"venue" toml:"venue"`
}

// Data is a validated seed.
type Data struct {
	Teams   []models.Team
	Matches []models.Match
}

// Load reads a seed file; the format follows the extension (.yaml, .yml or .toml). An empty
// path loads the built-in seed.
func Load(path string) (*Data, error) {
	if path == "" {
		return Parse(defaultSeed, "yaml")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	data, err := Parse(raw, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return data, nil
}

// Parse decodes and validates a seed in the given format.
func Parse(raw []byte, format string) (*Data, error) {
	var f File
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("failed to parse YAML seed: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("failed to parse TOML seed: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported seed format %q", format)
	}
	return f.validate()
}

func (f File) validate() (*Data, error) {
	data := &Data{
		Teams:   make([]models.Team, 0, len(f.Teams)),
		Matches: make([]models.Match, 0, len(f.Matches)),
	}

	known := make(map[int64]bool, len(f.Teams))
	for i, t := range f.Teams {
		if t.ID <= 0 {
			return nil, fmt.Errorf("team %d: id must be positive", i)
		}
		if known[t.ID] {
			return nil, fmt.Errorf("team %d: duplicate id %d", i, t.ID)
		}
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("team %d: name is required", t.ID)
		}
		known[t.ID] = true
		data.Teams = append(data.Teams, models.Team{
			ID:        t.ID,
			Name:      strings.TrimSpace(t.Name),
			ShortName: t.ShortName,
			City:      t.City,
			Owner:     strings.TrimSpace(t.Owner),
		})
	}

	seen := make(map[int64]bool, len(f.Matches))
	for i, m := range f.Matches {
		if m.ID <= 0 {
			return nil, fmt.Errorf("match %d: id must be positive", i)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("match %d: duplicate id %d", i, m.ID)
		}
		seen[m.ID] = true
		if !known[m.HomeTeamID] || !known[m.AwayTeamID] {
			return nil, fmt.Errorf("match %d: unknown team", m.ID)
		}
		if m.HomeTeamID == m.AwayTeamID {
			return nil, fmt.Errorf("match %d: a team cannot play itself", m.ID)
		}
		if m.HomeGoals < 0 || m.AwayGoals < 0 {
			return nil, fmt.Errorf("match %d: goals must be non-negative", m.ID)
		}
		status, err := models.ParseMatchStatus(m.Status)
		if err != nil {
			return nil, fmt.Errorf("match %d: %w", m.ID, err)
		}

		match := models.Match{
			ID:         m.ID,
			HomeTeamID: m.HomeTeamID,
			AwayTeamID: m.AwayTeamID,
			Status:     status,
			Venue:      m.Venue,
		}
		if status != models.StatusScheduled {
			match.HomeGoals, match.AwayGoals = m.HomeGoals, m.AwayGoals
		}
		if m.Kickoff != "" {
			k, err := models.ParseKickoff(m.Kickoff)
			if err != nil {
				return nil, fmt.Errorf("match %d: %w", m.ID, err)
			}
			match.Kickoff = &k
		}
		data.Matches = append(data.Matches, match)
	}
	return data, nil
}

// Apply inserts the seed's teams and matches that are not stored yet. Existing records are
// left untouched, so it is safe to run on every start.
func Apply(ctx context.Context, data *Data, teams store.TeamStore, matches store.MatchStore, lggr logger.Logger) error {
	addedTeams, err := teams.EnsureTeams(ctx, data.Teams)
	if err != nil {
		return fmt.Errorf("failed to seed teams: %w", err)
	}
	addedMatches, err := matches.EnsureMatches(ctx, data.Matches)
	if err != nil {
		return fmt.Errorf("failed to seed matches: %w", err)
	}
	lggr.Infof("Seed applied: %d/%d teams and %d/%d matches added",
		addedTeams, len(data.Teams), addedMatches, len(data.Matches))
	return nil
}
