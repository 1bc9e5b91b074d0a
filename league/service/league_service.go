// league/service/league_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ftotnem/LEAGUE-SERVICES/league/store"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
)

// Errors returned to the API layer.
var (
	ErrTeamNotFound  = fmt.Errorf("team not found")
	ErrMatchNotFound = fmt.Errorf("match not found")
	ErrSameTeams     = fmt.Errorf("home and away teams must be different")
	ErrInvalidScore  = fmt.Errorf("homeGoals and awayGoals are required and must be >= 0")
	ErrInvalidStatus = fmt.Errorf("invalid match status")
	ErrOwnerRequired = fmt.Errorf("owner must not be blank")
	ErrNoOpenFixture = fmt.Errorf("no open fixture between these teams")
)

// Routing keys of published match events.
const (
	EventMatchCreated = "match.created"
	EventMatchResult  = "match.result"
)

// MatchEvent is published after a match is created or its score changes.
type MatchEvent struct {
	Type       string       `json:"type"`
	Match      models.Match `json:"match"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// EventPublisher delivers match events to other systems.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// LeagueService holds the team, match and result use cases.
type LeagueService struct {
	teams   store.TeamStore
	matches store.MatchStore
	table   *TableService
	events  EventPublisher
	lggr    logger.Logger
}

func NewLeagueService(teams store.TeamStore, matches store.MatchStore, table *TableService, events EventPublisher, lggr logger.Logger) *LeagueService {
	if events == nil {
		events = NopPublisher{}
	}
	return &LeagueService{
		teams:   teams,
		matches: matches,
		table:   table,
		events:  events,
		lggr:    lggr.Named("league-service"),
	}
}

// ParseStatusFilter parses an optional status query value; empty means no filter.
func ParseStatusFilter(s string) (models.MatchStatus, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	status, err := models.ParseMatchStatus(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

func (ls *LeagueService) Teams(ctx context.Context) ([]models.Team, error) {
	return ls.teams.ListTeams(ctx)
}

func (ls *LeagueService) Team(ctx context.Context, id int64) (*models.Team, error) {
	t, err := ls.teams.GetTeam(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrTeamNotFound, id)
	}
	return t, err
}

// SetOwner assigns the owner of a team. Blank owners are rejected.
func (ls *LeagueService) SetOwner(ctx context.Context, id int64, owner string) (*models.Team, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, ErrOwnerRequired
	}
	t, err := ls.teams.SetOwner(ctx, id, owner)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrTeamNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	ls.lggr.Infow("Owner set", "teamId", id, "owner", owner)
	return t, nil
}

func (ls *LeagueService) Matches(ctx context.Context, status models.MatchStatus) ([]models.Match, error) {
	return ls.matches.ListMatches(ctx, status)
}

func (ls *LeagueService) Match(ctx context.Context, id int64) (*models.Match, error) {
	m, err := ls.matches.GetMatch(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrMatchNotFound, id)
	}
	return m, err
}

// Fixtures returns the scheduled matches in kickoff order.
func (ls *LeagueService) Fixtures(ctx context.Context) ([]models.Match, error) {
	return ls.matches.ListMatches(ctx, models.StatusScheduled)
}

// TeamFixtures returns the matches a team plays in, optionally filtered by status.
func (ls *LeagueService) TeamFixtures(ctx context.Context, teamID int64, status models.MatchStatus) ([]models.Match, error) {
	if _, err := ls.Team(ctx, teamID); err != nil {
		return nil, err
	}
	return ls.matches.TeamMatches(ctx, teamID, status)
}

// CreateMatch schedules a new fixture with a 0-0 score.
func (ls *LeagueService) CreateMatch(ctx context.Context, homeTeamID, awayTeamID int64, kickoff *time.Time, venue string) (*models.Match, error) {
	if homeTeamID == awayTeamID {
		return nil, ErrSameTeams
	}
	for _, id := range []int64{homeTeamID, awayTeamID} {
		if _, err := ls.Team(ctx, id); err != nil {
			return nil, err
		}
	}

	m := &models.Match{
		HomeTeamID: homeTeamID,
		AwayTeamID: awayTeamID,
		Status:     models.StatusScheduled,
		Venue:      strings.TrimSpace(venue),
	}
	if kickoff != nil {
		k := kickoff.UTC()
		m.Kickoff = &k
	}
	if err := ls.matches.CreateMatch(ctx, m); err != nil {
		return nil, err
	}

	ls.lggr.Infow("Match created", "matchId", m.ID, "home", homeTeamID, "away", awayTeamID)
	ls.publish(ctx, EventMatchCreated, *m)
	return m, nil
}

// SubmitResult records the score of a match. status may be FT (the default) or LIVE.
func (ls *LeagueService) SubmitResult(ctx context.Context, matchID int64, homeGoals, awayGoals *int, status models.MatchStatus) (*models.Match, error) {
	if err := validateScore(homeGoals, awayGoals); err != nil {
		return nil, err
	}
	status, err := resultStatus(status)
	if err != nil {
		return nil, err
	}

	m, err := ls.matches.UpdateResult(ctx, matchID, *homeGoals, *awayGoals, status)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
	}
	if err != nil {
		return nil, err
	}

	ls.afterResult(ctx, *m)
	return m, nil
}

// RecordResultByTeams sets the FT score of the earliest unfinished fixture between two teams.
func (ls *LeagueService) RecordResultByTeams(ctx context.Context, homeTeamID, awayTeamID int64, homeGoals, awayGoals *int) (*models.Match, error) {
	if homeTeamID == awayTeamID {
		return nil, ErrSameTeams
	}
	if err := validateScore(homeGoals, awayGoals); err != nil {
		return nil, err
	}

	fixture, err := ls.matches.OpenFixtureBetween(ctx, homeTeamID, awayTeamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrNoOpenFixture, homeTeamID, awayTeamID)
	}
	if err != nil {
		return nil, err
	}
	return ls.SubmitResult(ctx, fixture.ID, homeGoals, awayGoals, models.StatusFullTime)
}

func (ls *LeagueService) afterResult(ctx context.Context, m models.Match) {
	ls.lggr.Infow("Result recorded", "matchId", m.ID, "score", fmt.Sprintf("%d-%d", m.HomeGoals, m.AwayGoals), "status", m.Status)
	if ls.table != nil {
		if err := ls.table.Refresh(ctx); err != nil {
			ls.lggr.Errorf("Failed to refresh table after result of match %d: %v", m.ID, err)
		}
	}
	ls.publish(ctx, EventMatchResult, m)
}

func (ls *LeagueService) publish(ctx context.Context, routingKey string, m models.Match) {
	event := MatchEvent{Type: routingKey, Match: m, OccurredAt: time.Now().UTC()}
	if err := ls.events.Publish(ctx, routingKey, event); err != nil {
		ls.lggr.Errorf("Failed to publish %s event for match %d: %v", routingKey, m.ID, err)
	}
}

func validateScore(homeGoals, awayGoals *int) error {
	if homeGoals == nil || awayGoals == nil || *homeGoals < 0 || *awayGoals < 0 {
		return ErrInvalidScore
	}
	return nil
}

func resultStatus(status models.MatchStatus) (models.MatchStatus, error) {
	if status == "" {
		return models.StatusFullTime, nil
	}
	parsed, err := models.ParseMatchStatus(string(status))
	if err != nil || parsed == models.StatusScheduled {
		return "", fmt.Errorf("%w: a result must be %s or %s", ErrInvalidStatus, models.StatusFullTime, models.StatusLive)
	}
	return parsed, nil
}
