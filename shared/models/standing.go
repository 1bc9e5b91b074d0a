// shared/models/standing.go
package models

import (
	"encoding/json"
	"time"
)

// StandingsRowOf is one team's line in the league table.
// Goal difference is always derived from GoalsFor and GoalsAgainst.
type StandingsRowOf[K Key] struct {
	Position     int    `bson:"position" json:"position"`
	TeamID       K      `bson:"team_id" json:"teamId"`
	TeamName     string `bson:"team_name" json:"teamName"`
	Played       int    `bson:"played" json:"played"`
	Won          int    `bson:"won" json:"won"`
	Drawn        int    `bson:"drawn" json:"drawn"`
	Lost         int    `bson:"lost" json:"lost"`
	GoalsFor     int    `bson:"goals_for" json:"goalsFor"`
	GoalsAgainst int    `bson:"goals_against" json:"goalsAgainst"`
	Points       int    `bson:"points" json:"points"`
}

// StandingsRow is a table row computed by the league service.
type StandingsRow = StandingsRowOf[int64]

// ProviderRow is a table row computed by, or for, a provider.
type ProviderRow = StandingsRowOf[ID]

// GoalDifference returns GoalsFor - GoalsAgainst.
func (r StandingsRowOf[K]) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

// MarshalJSON adds the derived goalDifference field.
func (r StandingsRowOf[K]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Position       int    `json:"position"`
		TeamID         K      `json:"teamId"`
		TeamName       string `json:"teamName"`
		Played         int    `json:"played"`
		Won            int    `json:"won"`
		Drawn          int    `json:"drawn"`
		Lost           int    `json:"lost"`
		GoalsFor       int    `json:"goalsFor"`
		GoalsAgainst   int    `json:"goalsAgainst"`
		GoalDifference int    `json:"goalDifference"`
		Points         int    `json:"points"`
	}{
		Position:       r.Position,
		TeamID:         r.TeamID,
		TeamName:       r.TeamName,
		Played:         r.Played,
		Won:            r.Won,
		Drawn:          r.Drawn,
		Lost:           r.Lost,
		GoalsFor:       r.GoalsFor,
		GoalsAgainst:   r.GoalsAgainst,
		GoalDifference: r.GoalDifference(),
		Points:         r.Points,
	})
}

// StandingsSnapshot is a persisted copy of the table.
type StandingsSnapshot struct {
	ID      string         `bson:"_id" json:"id"`
	TakenAt time.Time      `bson:"taken_at" json:"takenAt"`
	Rows    []StandingsRow `bson:"rows" json:"rows"`
}
