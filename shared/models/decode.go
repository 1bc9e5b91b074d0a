// shared/models/decode.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Providers disagree on field names; each canonical key lists the accepted aliases in
// priority order.
var (
	teamAliases = map[string][]string{
		"id":        {"id", "teamId", "team_id"},
		"name":      {"name", "teamName", "team_name", "shortName", "short_name"},
		"shortName": {"shortName", "short_name"},
		"city":      {"city"},
		"owner":     {"owner"},
	}

	matchAliases = map[string][]string{
		"id":         {"id", "matchId", "match_id"},
		"homeTeamId": {"homeTeamId", "home_team_id", "homeId"},
		"awayTeamId": {"awayTeamId", "away_team_id", "awayId"},
		"homeGoals":  {"homeGoals", "home_goals"},
		"awayGoals":  {"awayGoals", "away_goals"},
		"status":     {"status"},
		"kickoff":    {"kickoff", "kickoff_at", "kickoffAt", "date"},
		"venue":      {"venue"},
	}

	rowAliases = map[string][]string{
		"teamId":       {"teamId", "team_id", "id"},
		"teamName":     {"teamName", "team", "name"},
		"played":       {"played", "p", "playedGames", "P"},
		"won":          {"won", "w", "W"},
		"drawn":        {"drawn", "draw", "d", "D"},
		"lost":         {"lost", "l", "L"},
		"goalsFor":     {"goalsFor", "goals_for", "gf", "F"},
		"goalsAgainst": {"goalsAgainst", "goals_against", "ga", "A"},
		"points":       {"points", "pts", "Pts"},
	}
)

var kickoffLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

type rawTeam struct {
	ID        string `mapstructure:"id"`
	Name      string `mapstructure:"name"`
	ShortName string `mapstructure:"shortName"`
	City      string `mapstructure:"city"`
	Owner     string `mapstructure:"owner"`
}

type rawMatch struct {
	ID         string `mapstructure:"id"`
	HomeTeamID string `mapstructure:"homeTeamId"`
	AwayTeamID string `mapstructure:"awayTeamId"`
	HomeGoals  int    `mapstructure:"homeGoals"`
	AwayGoals  int    `mapstructure:"awayGoals"`
	Status     string `mapstructure:"status"`
	Kickoff    string `mapstructure:"kickoff"`
	Venue      string `mapstructure:"venue"`
}

type rawRow struct {
	TeamID       string `mapstructure:"teamId"`
	TeamName     string `mapstructure:"teamName"`
	Played       int    `mapstructure:"played"`
	Won          int    `mapstructure:"won"`
	Drawn        int    `mapstructure:"drawn"`
	Lost         int    `mapstructure:"lost"`
	GoalsFor     int    `mapstructure:"goalsFor"`
	GoalsAgainst int    `mapstructure:"goalsAgainst"`
	Points       int    `mapstructure:"points"`
}

// DecodeTeams decodes a JSON array of team objects using any supported naming convention.
// Identifiers may be numbers or strings.
func DecodeTeams(body []byte) ([]ProviderTeam, error) {
	objs, err := decodeArray(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode teams: %w", err)
	}
	teams := make([]ProviderTeam, 0, len(objs))
	for i, obj := range objs {
		var rt rawTeam
		if err := weakDecode(canonicalize(obj, teamAliases), &rt); err != nil {
			return nil, fmt.Errorf("failed to decode team at index %d: %w", i, err)
		}
		t := ProviderTeam{
			ID:        ParseID(rt.ID),
			Name:      rt.Name,
			ShortName: rt.ShortName,
			City:      rt.City,
			Owner:     rt.Owner,
		}
		if t.Name == "" {
			t.Name = fmt.Sprintf("Team %s", t.ID)
		}
		teams = append(teams, t)
	}
	return teams, nil
}

// DecodeMatches decodes a JSON array of match objects using any supported naming convention.
// Unknown statuses are kept upper-cased so they never count as finished. Negative goals are
// rejected.
func DecodeMatches(body []byte) ([]ProviderMatch, error) {
	objs, err := decodeArray(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode matches: %w", err)
	}
	matches := make([]ProviderMatch, 0, len(objs))
	for i, obj := range objs {
		var rm rawMatch
		if err := weakDecode(canonicalize(obj, matchAliases), &rm); err != nil {
			return nil, fmt.Errorf("failed to decode match at index %d: %w", i, err)
		}
		if rm.HomeGoals < 0 || rm.AwayGoals < 0 {
			return nil, fmt.Errorf("failed to decode match at index %d: negative goals %d-%d", i, rm.HomeGoals, rm.AwayGoals)
		}
		m := ProviderMatch{
			ID:         ParseID(rm.ID),
			HomeTeamID: ParseID(rm.HomeTeamID),
			AwayTeamID: ParseID(rm.AwayTeamID),
			HomeGoals:  rm.HomeGoals,
			AwayGoals:  rm.AwayGoals,
			Venue:      rm.Venue,
		}
		if status, err := ParseMatchStatus(rm.Status); err == nil {
			m.Status = status
		} else {
			m.Status = MatchStatus(strings.ToUpper(strings.TrimSpace(rm.Status)))
		}
		if rm.Kickoff != "" {
			kickoff, err := ParseKickoff(rm.Kickoff)
			if err != nil {
				return nil, fmt.Errorf("failed to decode match at index %d: %w", i, err)
			}
			m.Kickoff = &kickoff
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// DecodeStandings decodes a pre-aggregated table. Missing team names are looked up in
// teamNames, then fall back to "Team <id>". Goal difference sent by the provider is ignored.
func DecodeStandings(body []byte, teamNames map[ID]string) ([]ProviderRow, error) {
	objs, err := decodeArray(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode standings: %w", err)
	}
	rows := make([]ProviderRow, 0, len(objs))
	for i, obj := range objs {
		var rr rawRow
		if err := weakDecode(canonicalize(obj, rowAliases), &rr); err != nil {
			return nil, fmt.Errorf("failed to decode standings row at index %d: %w", i, err)
		}
		row := ProviderRow{
			TeamID:       ParseID(rr.TeamID),
			TeamName:     rr.TeamName,
			Played:       rr.Played,
			Won:          rr.Won,
			Drawn:        rr.Drawn,
			Lost:         rr.Lost,
			GoalsFor:     rr.GoalsFor,
			GoalsAgainst: rr.GoalsAgainst,
			Points:       rr.Points,
		}
		if row.TeamName == "" {
			if name, ok := teamNames[row.TeamID]; ok {
				row.TeamName = name
			} else {
				row.TeamName = fmt.Sprintf("Team %s", row.TeamID)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseKickoff accepts RFC3339 timestamps and a few looser layouts (assumed UTC).
func ParseKickoff(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range kickoffLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid kickoff %q: expected ISO-8601, e.g. 2025-08-09T15:00:00Z", s)
}

func decodeArray(body []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("unexpected payload: not a JSON array")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var objs []map[string]any
	if err := dec.Decode(&objs); err != nil {
		return nil, err
	}
	return objs, nil
}

// canonicalize copies the first non-null alias of each canonical key.
func canonicalize(obj map[string]any, aliases map[string][]string) map[string]any {
	out := make(map[string]any, len(aliases))
	for key, names := range aliases {
		for _, name := range names {
			if v, ok := obj[name]; ok && v != nil {
				out[key] = v
				break
			}
		}
	}
	return out
}

func weakDecode(input map[string]any, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
