package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ftotnem/LEAGUE-SERVICES/league/store"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
)

func TestLoad_Default(t *testing.T) {
	data, err := Load("")
	require.NoError(t, err)
	assert.Len(t, data.Teams, 8)
	assert.Len(t, data.Matches, 4)
	for _, m := range data.Matches {
		assert.Equal(t, models.StatusScheduled, m.Status)
		assert.NotNil(t, m.Kickoff)
	}
}

func TestLoad_YAMLAndTOML(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "league.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
teams:
  - id: 1
    name: " Arsenal "
  - id: 2
    name: Brentford
    owner: Bea
matches:
  - id: 7
    homeTeamId: 1
    awayTeamId: 2
    homeGoals: 2
    awayGoals: 2
    status: ft
    kickoff: "2025-08-16 14:00:00"
`), 0o600))

	tomlPath := filepath.Join(dir, "league.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
[[teams]]
id = 1
name = "Arsenal"

[[teams]]
id = 2
name = "Brentford"
owner = "Bea"

[[matches]]
id = 7
homeTeamId = 1
awayTeamId = 2
homeGoals = 2
awayGoals = 2
status = "FT"
kickoff = "2025-08-16T14:00:00Z"
`), 0o600))

	fromYAML, err := Load(yamlPath)
	require.NoError(t, err)
	fromTOML, err := Load(tomlPath)
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromTOML)
	assert.Equal(t, "Arsenal", fromYAML.Teams[0].Name)
	assert.Equal(t, "Bea", fromYAML.Teams[1].Owner)
	require.Len(t, fromYAML.Matches, 1)
	assert.Equal(t, models.StatusFullTime, fromYAML.Matches[0].Status)
	assert.Equal(t, 2, fromYAML.Matches[0].AwayGoals)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", "teams: [{id: 1}]"},
		{"zero id", "teams: [{id: 0, name: A}]"},
		{"duplicate team", "teams: [{id: 1, name: A}, {id: 1, name: B}]"},
		{"unknown team", "teams: [{id: 1, name: A}]\nmatches: [{id: 1, homeTeamId: 1, awayTeamId: 2}]"},
		{"same team", "teams: [{id: 1, name: A}]\nmatches: [{id: 1, homeTeamId: 1, awayTeamId: 1}]"},
		{"negative goals", "teams: [{id: 1, name: A}, {id: 2, name: B}]\nmatches: [{id: 1, homeTeamId: 1, awayTeamId: 2, homeGoals: -1, status: FT}]"},
		{"bad status", "teams: [{id: 1, name: A}, {id: 2, name: B}]\nmatches: [{id: 1, homeTeamId: 1, awayTeamId: 2, status: HT}]"},
		{"bad kickoff", "teams: [{id: 1, name: A}, {id: 2, name: B}]\nmatches: [{id: 1, homeTeamId: 1, awayTeamId: 2, kickoff: soon}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body), "yaml")
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("{}"), "json")
	assert.ErrorContains(t, err, "unsupported seed format")
}

func TestApply_Idempotent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	data, err := Load("")
	require.NoError(t, err)

	require.NoError(t, Apply(ctx, data, mem, mem, logger.Test(t)))
	_, err = mem.SetOwner(ctx, 1, "Stan")
	require.NoError(t, err)
	require.NoError(t, Apply(ctx, data, mem, mem, logger.Test(t)))

	teams, err := mem.ListTeams(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 8)
	assert.Equal(t, "Stan", teams[0].Owner)

	matches, err := mem.ListMatches(ctx, "")
	require.NoError(t, err)
	assert.Len(t, matches, 4)

	// New matches continue after the seeded ids.
	m := &models.Match{HomeTeamID: 1, AwayTeamID: 3, Status: models.StatusScheduled}
	require.NoError(t, mem.CreateMatch(ctx, m))
	assert.Equal(t, int64(5), m.ID)
}
