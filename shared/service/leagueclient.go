// shared/service/leagueclient.go
package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/api"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
)

// CreateMatchRequest is the body of POST /matches. Numeric ids are sent as JSON numbers.
type CreateMatchRequest struct {
	HomeTeamID models.ID  `json:"homeTeamId"`
	AwayTeamID models.ID  `json:"awayTeamId"`
	Kickoff    *time.Time `json:"kickoff,omitempty"`
	Venue      string     `json:"venue,omitempty"`
}

// ResultRequest is the body of PATCH /matches/{id}/result. Goals are pointers so a missing
// value can be told apart from zero.
type ResultRequest struct {
	HomeGoals *int               `json:"homeGoals"`
	AwayGoals *int               `json:"awayGoals"`
	Status    models.MatchStatus `json:"status,omitempty"`
}

// ResultByTeamsRequest is the body of POST /results.
type ResultByTeamsRequest struct {
	HomeTeamID models.ID `json:"homeTeamId"`
	AwayTeamID models.ID `json:"awayTeamId"`
	HomeGoals  *int      `json:"homeGoals"`
	AwayGoals  *int      `json:"awayGoals"`
}

// OwnerRequest is the body of PATCH /teams/{id}/owner.
type OwnerRequest struct {
	Owner string `json:"owner"`
}

// Goals returns a pointer to n, for building result requests.
func Goals(n int) *int {
	return &n
}

// LeagueServiceClient talks to any provider exposing the league HTTP interface. Read
// endpoints are decoded with alias tolerance so third-party providers work too; identifiers
// are kept as the provider sends them.
type LeagueServiceClient struct {
	apiClient *api.Client
}

func NewLeagueClient(baseURL string, httpClient *http.Client, lggr logger.Logger) *LeagueServiceClient {
	if httpClient == nil {
		httpClient = api.NewDefaultHTTPClient()
	}
	return &LeagueServiceClient{
		apiClient: api.NewClient(baseURL, httpClient, lggr),
	}
}

func (c *LeagueServiceClient) BaseURL() string {
	return c.apiClient.BaseURL()
}

func (c *LeagueServiceClient) Teams(ctx context.Context) ([]models.ProviderTeam, error) {
	body, err := c.apiClient.GetRaw(ctx, "/teams")
	if err != nil {
		return nil, err
	}
	return models.DecodeTeams(body)
}

// Matches lists matches, optionally filtered by status ("" for all).
func (c *LeagueServiceClient) Matches(ctx context.Context, status models.MatchStatus) ([]models.ProviderMatch, error) {
	body, err := c.apiClient.GetRaw(ctx, withStatus("/matches", status))
	if err != nil {
		return nil, err
	}
	return models.DecodeMatches(body)
}

// Table fetches a pre-aggregated table from path. Rows without a name are named from teamNames.
func (c *LeagueServiceClient) Table(ctx context.Context, path string, teamNames map[models.ID]string) ([]models.ProviderRow, error) {
	body, err := c.apiClient.GetRaw(ctx, path)
	if err != nil {
		return nil, err
	}
	return models.DecodeStandings(body, teamNames)
}

func (c *LeagueServiceClient) TeamFixtures(ctx context.Context, teamID models.ID, status models.MatchStatus) ([]models.ProviderMatch, error) {
	body, err := c.apiClient.GetRaw(ctx, withStatus(idPath("/teams/%s/fixtures", teamID), status))
	if err != nil {
		return nil, err
	}
	return models.DecodeMatches(body)
}

func (c *LeagueServiceClient) CreateMatch(ctx context.Context, req CreateMatchRequest) (*models.ProviderMatch, error) {
	var m models.ProviderMatch
	if err := c.apiClient.Post(ctx, "/matches", req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *LeagueServiceClient) SubmitResult(ctx context.Context, matchID models.ID, req ResultRequest) (*models.ProviderMatch, error) {
	var m models.ProviderMatch
	if err := c.apiClient.Patch(ctx, idPath("/matches/%s/result", matchID), req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *LeagueServiceClient) RecordResultByTeams(ctx context.Context, req ResultByTeamsRequest) (*models.ProviderMatch, error) {
	var m models.ProviderMatch
	if err := c.apiClient.Post(ctx, "/results", req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *LeagueServiceClient) SetOwner(ctx context.Context, teamID models.ID, owner string) (*models.ProviderTeam, error) {
	var t models.ProviderTeam
	if err := c.apiClient.Patch(ctx, idPath("/teams/%s/owner", teamID), OwnerRequest{Owner: owner}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *LeagueServiceClient) LatestSnapshot(ctx context.Context) (*models.StandingsSnapshot, error) {
	var s models.StandingsSnapshot
	if err := c.apiClient.Get(ctx, "/table/snapshot", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func idPath(format string, id models.ID) string {
	return fmt.Sprintf(format, url.PathEscape(string(id)))
}

func withStatus(path string, status models.MatchStatus) string {
	if status == "" {
		return path
	}
	return path + "?status=" + url.QueryEscape(string(status))
}
