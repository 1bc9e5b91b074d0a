package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTeams_Aliases(t *testing.T) {
	body := []byte(`[
		{"id": 1, "name": "Arsenal", "owner": "Stan"},
		{"teamId": "2", "teamName": "Brentford"},
		{"team_id": 3, "short_name": "CHE"},
		{"id": 4}
	]`)

	teams, err := DecodeTeams(body)
	require.NoError(t, err)
	require.Len(t, teams, 4)

	assert.Equal(t, ProviderTeam{ID: "1", Name: "Arsenal", Owner: "Stan"}, teams[0])
	assert.Equal(t, ID("2"), teams[1].ID)
	assert.Equal(t, "Brentford", teams[1].Name)
	assert.Equal(t, "CHE", teams[2].Name)
	assert.Equal(t, "CHE", teams[2].ShortName)
	assert.Equal(t, "Team 4", teams[3].Name)
}

func TestDecodeMatches_Aliases(t *testing.T) {
	body := []byte(`[
		{"id": 10, "homeTeamId": 1, "awayTeamId": 2, "homeGoals": 2, "awayGoals": 1, "status": "ft", "kickoff": "2025-08-16T14:00:00Z"},
		{"id": 11, "home_team_id": "2", "away_team_id": "3", "home_goals": null, "status": "SCHEDULED", "kickoff_at": "2025-08-23 15:00:00"},
		{"id": 12, "homeId": 3, "awayId": 1, "date": "2025-08-30"},
		{"id": 13, "homeTeamId": 1, "awayTeamId": 3, "status": "postponed"}
	]`)

	matches, err := DecodeMatches(body)
	require.NoError(t, err)
	require.Len(t, matches, 4)

	assert.Equal(t, StatusFullTime, matches[0].Status)
	assert.Equal(t, 2, matches[0].HomeGoals)
	require.NotNil(t, matches[0].Kickoff)
	assert.Equal(t, time.Date(2025, 8, 16, 14, 0, 0, 0, time.UTC), *matches[0].Kickoff)

	assert.Equal(t, ID("2"), matches[1].HomeTeamID)
	assert.Equal(t, ID("3"), matches[1].AwayTeamID)
	assert.Equal(t, 0, matches[1].HomeGoals)
	require.NotNil(t, matches[1].Kickoff)
	assert.Equal(t, 15, matches[1].Kickoff.Hour())

	assert.Equal(t, ID("3"), matches[2].HomeTeamID)
	assert.Equal(t, StatusScheduled, matches[2].Status)
	require.NotNil(t, matches[2].Kickoff)

	assert.Equal(t, MatchStatus("POSTPONED"), matches[3].Status)
	assert.False(t, matches[3].Finished())
	assert.Nil(t, matches[3].Kickoff)
}

func TestDecodeMatches_BadKickoff(t *testing.T) {
	_, err := DecodeMatches([]byte(`[{"id": 1, "homeTeamId": 1, "awayTeamId": 2, "kickoff": "next tuesday"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 0")
}

func TestDecodeStandings_NameFallback(t *testing.T) {
	body := []byte(`[
		{"teamId": 1, "teamName": "Arsenal", "played": 2, "won": 1, "drawn": 1, "lost": 0, "goalsFor": 3, "goalsAgainst": 1, "points": 4, "goalDifference": 99},
		{"team_id": 2, "P": 1, "W": 0, "D": 0, "L": 1, "F": 0, "A": 2, "Pts": 0},
		{"id": 3, "p": "1", "d": 1, "gf": 1, "ga": 1, "pts": 1}
	]`)

	rows, err := DecodeStandings(body, map[ID]string{"2": "Brentford"})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Arsenal", rows[0].TeamName)
	assert.Equal(t, 2, rows[0].GoalDifference())
	assert.Equal(t, 4, rows[0].Points)

	assert.Equal(t, "Brentford", rows[1].TeamName)
	assert.Equal(t, 1, rows[1].Lost)
	assert.Equal(t, 2, rows[1].GoalsAgainst)

	assert.Equal(t, "Team 3", rows[2].TeamName)
	assert.Equal(t, 1, rows[2].Played)
	assert.Equal(t, 1, rows[2].Drawn)
}

func TestDecode_StringIDs(t *testing.T) {
	teams, err := DecodeTeams([]byte(`[{"id": "ARS", "name": "Arsenal"}, {"teamId": " che "}, {"id": 7.0}]`))
	require.NoError(t, err)
	require.Len(t, teams, 3)
	assert.Equal(t, ID("ARS"), teams[0].ID)
	assert.Equal(t, ID("che"), teams[1].ID)
	assert.Equal(t, "Team che", teams[1].Name)
	assert.Equal(t, ID("7"), teams[2].ID)

	matches, err := DecodeMatches([]byte(`[{"id": "m-1", "homeTeamId": "ARS", "awayTeamId": "che", "homeGoals": "2", "awayGoals": 0, "status": "FT"}]`))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, ProviderMatch{ID: "m-1", HomeTeamID: "ARS", AwayTeamID: "che", HomeGoals: 2, Status: StatusFullTime}, matches[0])
	assert.True(t, matches[0].Involves("ARS"))

	rows, err := DecodeStandings([]byte(`[{"teamId": "ARS", "pts": 3}]`), map[ID]string{"ARS": "Arsenal"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Arsenal", rows[0].TeamName)
	assert.Equal(t, 3, rows[0].Points)
}

func TestDecodeMatches_NegativeGoals(t *testing.T) {
	_, err := DecodeMatches([]byte(`[
		{"id": 1, "homeTeamId": 1, "awayTeamId": 2, "homeGoals": 1, "awayGoals": 0, "status": "FT"},
		{"id": 2, "homeTeamId": 1, "awayTeamId": 2, "homeGoals": -3, "awayGoals": 0, "status": "FT"}
	]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 1")
	assert.Contains(t, err.Error(), "negative goals")
}

func TestID_JSON(t *testing.T) {
	var v struct {
		Home ID `json:"home"`
		Away ID `json:"away"`
		None ID `json:"none"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"home": 12, "away": "ARS", "none": null}`), &v))
	assert.Equal(t, ID("12"), v.Home)
	assert.Equal(t, ID("ARS"), v.Away)
	assert.Equal(t, ID(""), v.None)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"home": 12, "away": "ARS", "none": ""}`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"home": [1]}`), &v))
}

func TestCompareIDs(t *testing.T) {
	assert.Equal(t, -1, CompareIDs("9", "10"))
	assert.Equal(t, 1, CompareIDs("b", "a"))
	assert.Equal(t, 0, CompareIDs("7", FormatID(7)))
	assert.Equal(t, ID("7"), ParseID(" 007 "))
}

func TestDecode_RejectsNonArray(t *testing.T) {
	for _, body := range []string{``, `{"teams": []}`, `null`, `"x"`} {
		_, err := DecodeTeams([]byte(body))
		assert.Error(t, err, body)
		_, err = DecodeMatches([]byte(body))
		assert.Error(t, err, body)
		_, err = DecodeStandings([]byte(body), nil)
		assert.Error(t, err, body)
	}
}

func TestParseMatchStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    MatchStatus
		wantErr bool
	}{
		{"", StatusScheduled, false},
		{"scheduled", StatusScheduled, false},
		{" Live ", StatusLive, false},
		{"FT", StatusFullTime, false},
		{"HT", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMatchStatus(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidStatus)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestStandingsRow_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(StandingsRow{Position: 1, TeamID: 5, TeamName: "X", GoalsFor: 4, GoalsAgainst: 1})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.EqualValues(t, 3, out["goalDifference"])
	assert.EqualValues(t, 5, out["teamId"])
	assert.EqualValues(t, "X", out["teamName"])
}

func TestProviderRow_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(ProviderRow{TeamID: "ARS", TeamName: "Arsenal", GoalsAgainst: 2})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "ARS", out["teamId"])
	assert.EqualValues(t, -2, out["goalDifference"])
}
