// leaguectl/board/render.go
package board

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/standings"
)

const kickoffLayout = "2006-01-02 15:04 MST"

// RenderTable writes the standings as a text table.
func RenderTable(w io.Writer, rows []models.ProviderRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	for _, r := range rows {
		table.Append([]string{
			strconv.Itoa(r.Position),
			r.TeamName,
			strconv.Itoa(r.Played),
			strconv.Itoa(r.Won),
			strconv.Itoa(r.Drawn),
			strconv.Itoa(r.Lost),
			strconv.Itoa(r.GoalsFor),
			strconv.Itoa(r.GoalsAgainst),
			fmt.Sprintf("%+d", r.GoalDifference()),
			strconv.Itoa(r.Points),
		})
	}
	table.Render()
}

// RenderFixtures writes matches as a text table. With a non-empty teamID the result column is
// seen from that team's side.
func RenderFixtures(w io.Writer, matches []models.ProviderMatch, teamNames map[models.ID]string, teamID models.ID, loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Kickoff", "Home", "Score", "Away", "Status", "Result"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)

	for _, m := range matches {
		kickoff := "TBD"
		if m.Kickoff != nil {
			kickoff = m.Kickoff.In(loc).Format(kickoffLayout)
		}
		score := "-"
		if m.Status == models.StatusFullTime || m.Status == models.StatusLive {
			score = fmt.Sprintf("%d - %d", m.HomeGoals, m.AwayGoals)
		}
		table.Append([]string{
			string(m.ID),
			kickoff,
			teamName(teamNames, m.HomeTeamID, "Home"),
			score,
			teamName(teamNames, m.AwayTeamID, "Away"),
			string(m.Status),
			resultLabel(m, teamID),
		})
	}
	table.Render()
}

// resultLabel describes the outcome; LIVE matches report the current score.
func resultLabel(m models.ProviderMatch, teamID models.ID) string {
	if teamID != "" {
		return string(standings.OutcomeFor(m, teamID))
	}
	switch standings.OutcomeFor(m, m.HomeTeamID) {
	case standings.Win:
		return "Home win"
	case standings.Loss:
		return "Away win"
	case standings.Draw:
		return "Draw"
	}
	return ""
}

func teamName(names map[models.ID]string, id models.ID, side string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("%s %s", side, id)
}
