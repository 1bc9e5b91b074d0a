// shared/models/match.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	StatusScheduled MatchStatus = "SCHEDULED"
	StatusLive      MatchStatus = "LIVE"
	StatusFullTime  MatchStatus = "FT"
)

// ErrInvalidStatus is returned by ParseMatchStatus for values outside the enumeration.
var ErrInvalidStatus = fmt.Errorf("invalid match status")

// ParseMatchStatus parses a status case-insensitively. An empty string is SCHEDULED.
func ParseMatchStatus(s string) (MatchStatus, error) {
	switch MatchStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case "", StatusScheduled:
		return StatusScheduled, nil
	case StatusLive:
		return StatusLive, nil
	case StatusFullTime:
		return StatusFullTime, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// MatchOf is a fixture between two teams. Goals are only meaningful once the match is LIVE or FT.
type MatchOf[K Key] struct {
	ID         K           `bson:"_id" json:"id"`
	HomeTeamID K           `bson:"home_team_id" json:"homeTeamId"`
	AwayTeamID K           `bson:"away_team_id" json:"awayTeamId"`
	HomeGoals  int         `bson:"home_goals" json:"homeGoals"`
	AwayGoals  int         `bson:"away_goals" json:"awayGoals"`
	Status     MatchStatus `bson:"status" json:"status"`
	Kickoff    *time.Time  `bson:"kickoff,omitempty" json:"kickoff,omitempty"`
	Venue      string      `bson:"venue,omitempty" json:"venue,omitempty"`
}

// Match is a match as the league service stores it.
type Match = MatchOf[int64]

// ProviderMatch is a match read from a provider.
type ProviderMatch = MatchOf[ID]

// Finished reports whether the match counts towards the standings.
func (m MatchOf[K]) Finished() bool {
	return m.Status == StatusFullTime
}

// Involves reports whether teamID plays in the match.
func (m MatchOf[K]) Involves(teamID K) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}
