// league/api/handler.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Ftotnem/LEAGUE-SERVICES/league/service"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/api"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
)

const requestTimeout = 5 * time.Second

// LeagueAPIHandlers exposes the league use cases over HTTP.
type LeagueAPIHandlers struct {
	League *service.LeagueService
	Table  *service.TableService
	Hub    *Hub
	lggr   logger.Logger
}

func NewLeagueAPIHandlers(ls *service.LeagueService, ts *service.TableService, hub *Hub, lggr logger.Logger) *LeagueAPIHandlers {
	return &LeagueAPIHandlers{
		League: ls,
		Table:  ts,
		Hub:    hub,
		lggr:   lggr.Named("api"),
	}
}

// RegisterRoutes mounts every endpoint on router.
func (h *LeagueAPIHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)

	router.HandleFunc("/teams", h.ListTeamsHandler).Methods(http.MethodGet)
	router.HandleFunc("/teams/{id}", h.GetTeamHandler).Methods(http.MethodGet)
	router.HandleFunc("/teams/{id}/owner", h.SetOwnerHandler).Methods(http.MethodPatch, http.MethodPut)
	router.HandleFunc("/teams/{id}/fixtures", h.TeamFixturesHandler).Methods(http.MethodGet)

	router.HandleFunc("/matches", h.ListMatchesHandler).Methods(http.MethodGet)
	router.HandleFunc("/matches", h.CreateMatchHandler).Methods(http.MethodPost)
	router.HandleFunc("/matches/{id}", h.GetMatchHandler).Methods(http.MethodGet)
	router.HandleFunc("/matches/{id}/result", h.SubmitResultHandler).Methods(http.MethodPatch, http.MethodPost)
	router.HandleFunc("/results", h.RecordResultByTeamsHandler).Methods(http.MethodPost)
	router.HandleFunc("/fixtures", h.FixturesHandler).Methods(http.MethodGet)

	router.HandleFunc("/table", h.TableHandler).Methods(http.MethodGet)
	router.HandleFunc("/standings", h.TableHandler).Methods(http.MethodGet)
	router.HandleFunc("/table/snapshot", h.LatestSnapshotHandler).Methods(http.MethodGet)

	if h.Hub != nil {
		router.HandleFunc("/ws", h.WebSocketHandler).Methods(http.MethodGet)
	}
}

// --- Request DTOs ---

type CreateMatchRequest struct {
	HomeTeamID int64  `json:"homeTeamId"`
	AwayTeamID int64  `json:"awayTeamId"`
	Kickoff    string `json:"kickoff"`
	Venue      string `json:"venue"`
}

// SubmitResultRequest uses pointers so missing goals are rejected rather than read as 0.
type SubmitResultRequest struct {
	HomeGoals *int               `json:"homeGoals"`
	AwayGoals *int               `json:"awayGoals"`
	Status    models.MatchStatus `json:"status"`
}

type RecordResultByTeamsRequest struct {
	HomeTeamID int64 `json:"homeTeamId"`
	AwayTeamID int64 `json:"awayTeamId"`
	HomeGoals  *int  `json:"homeGoals"`
	AwayGoals  *int  `json:"awayGoals"`
}

type SetOwnerRequest struct {
	Owner string `json:"owner"`
}

// --- Handler Methods ---

// HealthHandler reports liveness.
// GET /health
func (h *LeagueAPIHandlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// GET /teams
func (h *LeagueAPIHandlers) ListTeamsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	teams, err := h.League.Teams(ctx)
	if err != nil {
		h.writeServiceError(w, err, "list teams")
		return
	}
	h.writeJSON(w, http.StatusOK, teams)
}

// GET /teams/{id}
func (h *LeagueAPIHandlers) GetTeamHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	team, err := h.League.Team(ctx, id)
	if err != nil {
		h.writeServiceError(w, err, "get team")
		return
	}
	h.writeJSON(w, http.StatusOK, team)
}

// SetOwnerHandler assigns a team owner.
// PATCH /teams/{id}/owner
func (h *LeagueAPIHandlers) SetOwnerHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req SetOwnerRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	team, err := h.League.SetOwner(ctx, id, req.Owner)
	if err != nil {
		h.writeServiceError(w, err, "set owner")
		return
	}
	h.writeJSON(w, http.StatusOK, team)
}

// TeamFixturesHandler lists the matches of one team.
// GET /teams/{id}/fixtures?status=
func (h *LeagueAPIHandlers) TeamFixturesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	status, err := service.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	matches, err := h.League.TeamFixtures(ctx, id, status)
	if err != nil {
		h.writeServiceError(w, err, "list team fixtures")
		return
	}
	h.writeJSON(w, http.StatusOK, matches)
}

// GET /matches?status=
func (h *LeagueAPIHandlers) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	status, err := service.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	matches, err := h.League.Matches(ctx, status)
	if err != nil {
		h.writeServiceError(w, err, "list matches")
		return
	}
	h.writeJSON(w, http.StatusOK, matches)
}

// GET /matches/{id}
func (h *LeagueAPIHandlers) GetMatchHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	m, err := h.League.Match(ctx, id)
	if err != nil {
		h.writeServiceError(w, err, "get match")
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// CreateMatchHandler schedules a fixture.
// POST /matches
func (h *LeagueAPIHandlers) CreateMatchHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateMatchRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.HomeTeamID <= 0 || req.AwayTeamID <= 0 {
		api.WriteBadRequest(w, "homeTeamId and awayTeamId are required")
		return
	}

	var kickoff *time.Time
	if req.Kickoff != "" {
		k, err := models.ParseKickoff(req.Kickoff)
		if err != nil {
			api.WriteBadRequest(w, err.Error())
			return
		}
		kickoff = &k
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	m, err := h.League.CreateMatch(ctx, req.HomeTeamID, req.AwayTeamID, kickoff, req.Venue)
	if err != nil {
		h.writeServiceError(w, err, "create match")
		return
	}
	h.writeJSON(w, http.StatusCreated, m)
}

// SubmitResultHandler records a score.
// PATCH /matches/{id}/result
func (h *LeagueAPIHandlers) SubmitResultHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req SubmitResultRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	m, err := h.League.SubmitResult(ctx, id, req.HomeGoals, req.AwayGoals, req.Status)
	if err != nil {
		h.writeServiceError(w, err, "submit result")
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// RecordResultByTeamsHandler records the result of the next open fixture between two teams.
// POST /results
func (h *LeagueAPIHandlers) RecordResultByTeamsHandler(w http.ResponseWriter, r *http.Request) {
	var req RecordResultByTeamsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	m, err := h.League.RecordResultByTeams(ctx, req.HomeTeamID, req.AwayTeamID, req.HomeGoals, req.AwayGoals)
	if err != nil {
		h.writeServiceError(w, err, "record result")
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// GET /fixtures
func (h *LeagueAPIHandlers) FixturesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	matches, err := h.League.Fixtures(ctx)
	if err != nil {
		h.writeServiceError(w, err, "list fixtures")
		return
	}
	h.writeJSON(w, http.StatusOK, matches)
}

// TableHandler returns the standings.
// GET /table, GET /standings
func (h *LeagueAPIHandlers) TableHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	rows, err := h.Table.Table(ctx)
	if err != nil {
		h.writeServiceError(w, err, "compute table")
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

// GET /table/snapshot
func (h *LeagueAPIHandlers) LatestSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	snap, err := h.Table.LatestSnapshot(ctx)
	if err != nil {
		h.writeServiceError(w, err, "load snapshot")
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

// WebSocketHandler streams table updates, starting with the current table.
// GET /ws
func (h *LeagueAPIHandlers) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	rows, err := h.Table.Table(ctx)
	cancel()
	if err != nil {
		h.writeServiceError(w, err, "compute table")
		return
	}
	h.Hub.serve(w, r, rows)
}

// writeServiceError maps service errors to status codes. Unexpected errors are logged and
// reported without detail.
func (h *LeagueAPIHandlers) writeServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, service.ErrTeamNotFound),
		errors.Is(err, service.ErrMatchNotFound),
		errors.Is(err, service.ErrNoOpenFixture),
		errors.Is(err, service.ErrSnapshotNotFound):
		api.WriteNotFound(w, err.Error())
	case errors.Is(err, service.ErrSameTeams),
		errors.Is(err, service.ErrInvalidScore),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrOwnerRequired):
		api.WriteBadRequest(w, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		h.lggr.Errorf("Timed out trying to %s: %v", action, err)
		api.WriteError(w, http.StatusGatewayTimeout, fmt.Sprintf("Timed out trying to %s", action))
	default:
		h.lggr.Errorf("Failed to %s: %v", action, err)
		api.WriteInternalServerError(w, fmt.Sprintf("Failed to %s", action))
	}
}

func (h *LeagueAPIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	if err := api.WriteJSON(w, status, data); err != nil {
		h.lggr.Warnf("Failed to write response: %v", err)
	}
}

// pathID parses the {id} path variable, writing a 400 when it is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		api.WriteBadRequest(w, fmt.Sprintf("Invalid id %q", raw))
		return 0, false
	}
	return id, true
}
