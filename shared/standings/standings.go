// Package standings aggregates match results into a league table.
package standings

import (
	"cmp"
	"sort"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
)

const (
	PointsForWin  = 3
	PointsForDraw = 1
)

// Outcome is a match result seen from one team's side.
type Outcome string

const (
	Win     Outcome = "win"
	Draw    Outcome = "draw"
	Loss    Outcome = "loss"
	Pending Outcome = "pending"
)

// Compute returns one row per team, sorted and with positions assigned. Only FT matches
// count. Matches referencing an unknown team, or the same team twice, are skipped; a repeated
// team id keeps its first entry.
func Compute[K models.Key](teams []models.TeamOf[K], matches []models.MatchOf[K]) []models.StandingsRowOf[K] {
	rows := make([]models.StandingsRowOf[K], 0, len(teams))
	index := make(map[K]int, len(teams))
	for _, t := range teams {
		if _, dup := index[t.ID]; dup {
			continue
		}
		index[t.ID] = len(rows)
		rows = append(rows, models.StandingsRowOf[K]{TeamID: t.ID, TeamName: t.Name})
	}

	for _, m := range matches {
		if !m.Finished() || m.HomeTeamID == m.AwayTeamID {
			continue
		}
		home, okHome := index[m.HomeTeamID]
		away, okAway := index[m.AwayTeamID]
		if !okHome || !okAway {
			continue
		}
		apply(&rows[home], m.HomeGoals, m.AwayGoals)
		apply(&rows[away], m.AwayGoals, m.HomeGoals)
	}

	Sort(rows)
	return rows
}

func apply[K models.Key](row *models.StandingsRowOf[K], scored, conceded int) {
	row.Played++
	row.GoalsFor += scored
	row.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		row.Won++
		row.Points += PointsForWin
	case scored < conceded:
		row.Lost++
	default:
		row.Drawn++
		row.Points += PointsForDraw
	}
}

// Sort orders rows by points, goal difference and goals scored (all descending), then by
// team name and team id, and renumbers positions.
func Sort[K models.Key](rows []models.StandingsRowOf[K]) {
	sort.SliceStable(rows, func(i, j int) bool {
		return less(rows[i], rows[j])
	})
	renumber(rows)
}

// SortByName orders rows alphabetically and renumbers positions.
func SortByName[K models.Key](rows []models.StandingsRowOf[K]) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TeamName != rows[j].TeamName {
			return rows[i].TeamName < rows[j].TeamName
		}
		return compareKeys(rows[i].TeamID, rows[j].TeamID) < 0
	})
	renumber(rows)
}

func less[K models.Key](a, b models.StandingsRowOf[K]) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDifference() != b.GoalDifference() {
		return a.GoalDifference() > b.GoalDifference()
	}
	if a.GoalsFor != b.GoalsFor {
		return a.GoalsFor > b.GoalsFor
	}
	if a.TeamName != b.TeamName {
		return a.TeamName < b.TeamName
	}
	return compareKeys(a.TeamID, b.TeamID) < 0
}

// compareKeys orders provider ids numerically when both are numbers.
func compareKeys[K models.Key](a, b K) int {
	if x, ok := any(a).(models.ID); ok {
		return models.CompareIDs(x, any(b).(models.ID))
	}
	return cmp.Compare(a, b)
}

func renumber[K models.Key](rows []models.StandingsRowOf[K]) {
	for i := range rows {
		rows[i].Position = i + 1
	}
}

// OutcomeFor classifies m from teamID's side. LIVE matches report the current score.
func OutcomeFor[K models.Key](m models.MatchOf[K], teamID K) Outcome {
	if m.Status != models.StatusFullTime && m.Status != models.StatusLive {
		return Pending
	}
	scored, conceded := m.HomeGoals, m.AwayGoals
	if m.AwayTeamID == teamID {
		scored, conceded = conceded, scored
	}
	switch {
	case scored > conceded:
		return Win
	case scored < conceded:
		return Loss
	default:
		return Draw
	}
}
