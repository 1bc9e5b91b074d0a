package board

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/api"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/service"
)

const (
	providerTeams = `[
		{"teamId": "1", "teamName": "Arsenal"},
		{"team_id": 2, "short_name": "Brentford"},
		{"id": 3, "name": "Chelsea"}
	]`
	providerMatches = `[
		{"id": 1, "home_team_id": 1, "away_team_id": 2, "home_goals": 2, "away_goals": 0, "status": "ft", "kickoff_at": "2025-08-16T14:00:00Z"},
		{"id": 2, "homeId": 3, "awayId": 1, "homeGoals": 1, "awayGoals": 1, "status": "FT", "date": "2025-08-23"},
		{"id": 3, "homeTeamId": 2, "awayTeamId": 3, "homeGoals": 4, "status": "LIVE", "kickoff": "2025-08-30T11:30:00Z"},
		{"id": 4, "homeTeamId": 1, "awayTeamId": 3}
	]`
)

// newProvider serves a third-party style provider; routes missing from extra return 404.
func newProvider(t *testing.T, extra map[string]string) *httptest.Server {
	t.Helper()
	routes := map[string]string{"/teams": providerTeams, "/matches": providerMatches}
	for k, v := range extra {
		routes[k] = v
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			api.WriteNotFound(w, "no such endpoint")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newLoader(t *testing.T, srv *httptest.Server) *Loader {
	t.Helper()
	lggr := logger.Test(t)
	return NewLoader(service.NewLeagueClient(srv.URL, nil, lggr), lggr)
}

func TestLoad_FallsBackToComputed(t *testing.T) {
	srv := newProvider(t, nil)
	b, err := newLoader(t, srv).Load(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, SourceComputed, b.Source)
	require.ErrorIs(t, b.TableErr, api.ErrNotFound)
	require.Len(t, b.Rows, 3)
	assert.Len(t, b.Matches, 4)

	// LIVE match 3 does not count.
	assert.Equal(t, "Arsenal", b.Rows[0].TeamName)
	assert.Equal(t, 4, b.Rows[0].Points)
	assert.Equal(t, "Chelsea", b.Rows[1].TeamName)
	assert.Equal(t, 1, b.Rows[1].Points)
	assert.Equal(t, "Brentford", b.Rows[2].TeamName)
	assert.Equal(t, 1, b.Rows[2].Played)
}

func TestLoad_UsesProviderTable(t *testing.T) {
	srv := newProvider(t, map[string]string{
		"/standings": `[
			{"team_id": 2, "P": 1, "W": 1, "D": 0, "L": 0, "F": 3, "A": 0, "Pts": 3},
			{"teamId": 1, "team": "Arsenal", "played": 1, "lost": 1, "goalsAgainst": 3, "points": 0},
			{"id": 9, "pts": 0}
		]`,
	})
	b, err := newLoader(t, srv).Load(context.Background(), Options{TablePath: "/standings", Status: models.StatusFullTime})
	require.NoError(t, err)

	assert.Equal(t, SourceAPI, b.Source)
	assert.NoError(t, b.TableErr)
	require.Len(t, b.Rows, 3)
	assert.Equal(t, "Brentford", b.Rows[0].TeamName)
	assert.Equal(t, 1, b.Rows[0].Position)
	assert.Equal(t, "Team 9", b.Rows[1].TeamName)
	assert.Equal(t, "Arsenal", b.Rows[2].TeamName)

	assert.Len(t, b.Matches, 2)
}

func TestLoad_SortByName(t *testing.T) {
	srv := newProvider(t, nil)
	b, err := newLoader(t, srv).Load(context.Background(), Options{Sort: SortName})
	require.NoError(t, err)
	assert.Equal(t, []string{"Arsenal", "Brentford", "Chelsea"},
		[]string{b.Rows[0].TeamName, b.Rows[1].TeamName, b.Rows[2].TeamName})
}

func TestLoad_ProviderDown(t *testing.T) {
	srv := newProvider(t, nil)
	srv.Close()

	_, err := newLoader(t, srv).Load(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load teams from "+srv.URL)
}

func TestLoad_MalformedMatches(t *testing.T) {
	srv := newProvider(t, map[string]string{"/matches": `{"matches": []}`})
	_, err := newLoader(t, srv).Load(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load matches")
}

func TestFixtures_Fallback(t *testing.T) {
	srv := newProvider(t, nil)
	matches, err := newLoader(t, srv).Fixtures(context.Background(), "1", "")
	require.NoError(t, err)
	// Newest kickoff first, unknown kickoff last.
	assert.Equal(t, []models.ID{"2", "1", "4"}, matchIDs(matches))

	matches, err = newLoader(t, srv).Fixtures(context.Background(), "3", models.StatusLive)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, models.ID("3"), matches[0].ID)
}

func TestFixtures_TeamEndpoint(t *testing.T) {
	srv := newProvider(t, map[string]string{
		"/teams/2/fixtures": `[{"id": 1, "homeTeamId": 1, "awayTeamId": 2, "status": "FT", "homeGoals": 2}]`,
	})
	matches, err := newLoader(t, srv).Fixtures(context.Background(), "2", "")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].HomeGoals)
}

func TestLoad_StringIDs(t *testing.T) {
	srv := newProvider(t, map[string]string{
		"/teams": `[{"id": "ARS", "name": "Arsenal"}, {"id": "BRE", "name": "Brentford"}, {"id": "CHE", "name": "Chelsea"}]`,
		"/matches": `[
			{"id": "m1", "homeTeamId": "ARS", "awayTeamId": "BRE", "homeGoals": 2, "awayGoals": 0, "status": "FT", "kickoff": "2025-08-16T14:00:00Z"},
			{"id": "m2", "homeTeamId": "CHE", "awayTeamId": "ARS", "homeGoals": 1, "awayGoals": 1, "status": "FT", "kickoff": "2025-08-23T14:00:00Z"},
			{"id": "m3", "homeTeamId": "BRE", "awayTeamId": "CHE", "status": "SCHEDULED"}
		]`,
	})
	l := newLoader(t, srv)

	b, err := l.Load(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, SourceComputed, b.Source)
	require.Len(t, b.Rows, 3)
	assert.Equal(t, models.ID("ARS"), b.Rows[0].TeamID)
	assert.Equal(t, 4, b.Rows[0].Points)
	assert.Equal(t, "Chelsea", b.TeamNames()[b.Rows[1].TeamID])

	matches, err := l.Fixtures(context.Background(), "ARS", "")
	require.NoError(t, err)
	assert.Equal(t, []models.ID{"m2", "m1"}, matchIDs(matches))

	var buf bytes.Buffer
	RenderFixtures(&buf, matches, b.TeamNames(), "ARS", nil)
	assert.Contains(t, buf.String(), "Chelsea")
	assert.Contains(t, buf.String(), "win")
	assert.Contains(t, buf.String(), "draw")
}

func matchIDs(ms []models.ProviderMatch) []models.ID {
	ids := make([]models.ID, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return ids
}

func TestParseSortMode(t *testing.T) {
	m, err := ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, SortPoints, m)
	m, err = ParseSortMode("name")
	require.NoError(t, err)
	assert.Equal(t, SortName, m)
	_, err = ParseSortMode("goals")
	assert.Error(t, err)
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, []models.ProviderRow{
		{Position: 1, TeamID: "1", TeamName: "Arsenal", Played: 2, Won: 1, Drawn: 1, GoalsFor: 3, GoalsAgainst: 1, Points: 4},
		{Position: 2, TeamID: "2", TeamName: "Brentford", Played: 1, Lost: 1, GoalsAgainst: 2},
	})
	out := buf.String()
	assert.Contains(t, out, "Pts")
	assert.Contains(t, out, "Arsenal")
	assert.Contains(t, out, "+2")
	assert.Contains(t, out, "-2")
	assert.Less(t, strings.Index(out, "Arsenal"), strings.Index(out, "Brentford"))
}

func TestRenderFixtures(t *testing.T) {
	kickoff := time.Date(2025, 8, 16, 14, 0, 0, 0, time.UTC)
	matches := []models.ProviderMatch{
		{ID: "1", HomeTeamID: "1", AwayTeamID: "2", HomeGoals: 0, AwayGoals: 2, Status: models.StatusFullTime, Kickoff: &kickoff},
		{ID: "2", HomeTeamID: "2", AwayTeamID: "7", Status: models.StatusScheduled},
	}
	names := map[models.ID]string{"1": "Arsenal", "2": "Brentford"}

	var buf bytes.Buffer
	RenderFixtures(&buf, matches, names, "", nil)
	out := buf.String()
	assert.Contains(t, out, "2025-08-16 14:00 UTC")
	assert.Contains(t, out, "0 - 2")
	assert.Contains(t, out, "Away win")
	assert.Contains(t, out, "Away 7")
	assert.Contains(t, out, "TBD")

	buf.Reset()
	RenderFixtures(&buf, matches, names, "1", nil)
	assert.Contains(t, buf.String(), "loss")
	assert.Contains(t, buf.String(), "pending")
}
