// league/store/postgres_store.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	_ "github.com/lib/pq"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/standings"
)

// PostgresStore implements every league store on one PostgreSQL database.
type PostgresStore struct {
	db   *sql.DB
	lggr logger.Logger
}

var (
	_ TeamStore     = (*PostgresStore)(nil)
	_ MatchStore    = (*PostgresStore)(nil)
	_ SnapshotStore = (*PostgresStore)(nil)
)

// OpenPostgres opens the database and pings it, retrying until ctx expires.
func OpenPostgres(ctx context.Context, databaseURL string, lggr logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = retry.Do(func() error {
		return db.PingContext(ctx)
	},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			lggr.Warnf("PostgreSQL ping attempt %d failed: %v", attempt+1, err)
		}),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	return db, nil
}

func NewPostgresStore(db *sql.DB, lggr logger.Logger) *PostgresStore {
	return &PostgresStore{db: db, lggr: lggr.Named("postgres-store")}
}

// Migrate creates the schema if it does not exist yet.
func (ps *PostgresStore) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS teams (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			short_name TEXT,
			city TEXT,
			owner TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id BIGSERIAL PRIMARY KEY,
			home_team_id BIGINT NOT NULL REFERENCES teams(id),
			away_team_id BIGINT NOT NULL REFERENCES teams(id),
			home_goals INTEGER NOT NULL DEFAULT 0 CHECK (home_goals >= 0),
			away_goals INTEGER NOT NULL DEFAULT 0 CHECK (away_goals >= 0),
			status VARCHAR(16) NOT NULL DEFAULT 'SCHEDULED',
			kickoff TIMESTAMPTZ,
			venue TEXT,
			CHECK (home_team_id <> away_team_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_status ON matches(status)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_home_away ON matches(home_team_id, away_team_id)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_away ON matches(away_team_id)`,
		`CREATE TABLE IF NOT EXISTS standings (
			team_id BIGINT PRIMARY KEY REFERENCES teams(id),
			played INTEGER NOT NULL,
			won INTEGER NOT NULL,
			drawn INTEGER NOT NULL,
			lost INTEGER NOT NULL,
			gf INTEGER NOT NULL,
			ga INTEGER NOT NULL,
			points INTEGER NOT NULL,
			last_updated TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS standings_snapshots (
			id TEXT PRIMARY KEY,
			taken_at TIMESTAMPTZ NOT NULL,
			rows JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_standings_snapshots_taken_at ON standings_snapshots(taken_at DESC)`,
	}

	for i, migration := range migrations {
		if _, err := ps.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	ps.lggr.Infof("Database migrations completed")
	return nil
}

const teamColumns = `id, name, COALESCE(short_name, ''), COALESCE(city, ''), COALESCE(owner, '')`

func scanTeam(row interface{ Scan(...any) error }) (models.Team, error) {
	var t models.Team
	err := row.Scan(&t.ID, &t.Name, &t.ShortName, &t.City, &t.Owner)
	return t, err
}

func (ps *PostgresStore) ListTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := ps.db.QueryContext(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (ps *PostgresStore) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	t, err := scanTeam(ps.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return &t, nil
}

func (ps *PostgresStore) SetOwner(ctx context.Context, id int64, owner string) (*models.Team, error) {
	t, err := scanTeam(ps.db.QueryRowContext(ctx,
		`UPDATE teams SET owner = $2 WHERE id = $1 RETURNING `+teamColumns, id, owner))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to set owner of team %d: %w", id, err)
	}
	return &t, nil
}

func (ps *PostgresStore) EnsureTeams(ctx context.Context, teams []models.Team) (int, error) {
	added := 0
	for _, t := range teams {
		res, err := ps.db.ExecContext(ctx,
			`INSERT INTO teams (id, name, short_name, city, owner)
			 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))
			 ON CONFLICT (id) DO NOTHING`,
			t.ID, t.Name, t.ShortName, t.City, t.Owner)
		if err != nil {
			return added, fmt.Errorf("failed to insert team %d: %w", t.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	return added, nil
}

const matchColumns = `id, home_team_id, away_team_id, home_goals, away_goals, status, kickoff, COALESCE(venue, '')`

const matchOrder = ` ORDER BY kickoff ASC NULLS LAST, id ASC`

func scanMatch(row interface{ Scan(...any) error }) (models.Match, error) {
	var (
		m       models.Match
		kickoff sql.NullTime
	)
	if err := row.Scan(&m.ID, &m.HomeTeamID, &m.AwayTeamID, &m.HomeGoals, &m.AwayGoals, &m.Status, &kickoff, &m.Venue); err != nil {
		return m, err
	}
	if kickoff.Valid {
		k := kickoff.Time.UTC()
		m.Kickoff = &k
	}
	return m, nil
}

func (ps *PostgresStore) queryMatches(ctx context.Context, where string, args ...any) ([]models.Match, error) {
	rows, err := ps.db.QueryContext(ctx, `SELECT `+matchColumns+` FROM matches `+where+matchOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := []models.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (ps *PostgresStore) ListMatches(ctx context.Context, status models.MatchStatus) ([]models.Match, error) {
	if status == "" {
		return ps.queryMatches(ctx, "")
	}
	return ps.queryMatches(ctx, "WHERE status = $1", status)
}

func (ps *PostgresStore) TeamMatches(ctx context.Context, teamID int64, status models.MatchStatus) ([]models.Match, error) {
	if status == "" {
		return ps.queryMatches(ctx, "WHERE (home_team_id = $1 OR away_team_id = $1)", teamID)
	}
	return ps.queryMatches(ctx, "WHERE (home_team_id = $1 OR away_team_id = $1) AND status = $2", teamID, status)
}

func (ps *PostgresStore) OpenFixtureBetween(ctx context.Context, homeTeamID, awayTeamID int64) (*models.Match, error) {
	matches, err := ps.queryMatches(ctx, "WHERE home_team_id = $1 AND away_team_id = $2 AND status <> 'FT'", homeTeamID, awayTeamID)
	if err != nil {
		return nil, err
	}
	return firstOpenBetween(matches, homeTeamID, awayTeamID)
}

func (ps *PostgresStore) GetMatch(ctx context.Context, id int64) (*models.Match, error) {
	m, err := scanMatch(ps.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return &m, nil
}

func (ps *PostgresStore) CreateMatch(ctx context.Context, m *models.Match) error {
	err := ps.db.QueryRowContext(ctx,
		`INSERT INTO matches (home_team_id, away_team_id, home_goals, away_goals, status, kickoff, venue)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		 RETURNING id`,
		m.HomeTeamID, m.AwayTeamID, m.HomeGoals, m.AwayGoals, m.Status, nullTime(m.Kickoff), m.Venue,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (ps *PostgresStore) UpdateResult(ctx context.Context, id int64, homeGoals, awayGoals int, status models.MatchStatus) (*models.Match, error) {
	m, err := scanMatch(ps.db.QueryRowContext(ctx,
		`UPDATE matches SET home_goals = $2, away_goals = $3, status = $4 WHERE id = $1 RETURNING `+matchColumns,
		id, homeGoals, awayGoals, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update result of match %d: %w", id, err)
	}
	return &m, nil
}

// EnsureMatches inserts seed matches that are missing and moves the id sequence past them.
func (ps *PostgresStore) EnsureMatches(ctx context.Context, matches []models.Match) (int, error) {
	added := 0
	for _, m := range matches {
		res, err := ps.db.ExecContext(ctx,
			`INSERT INTO matches (id, home_team_id, away_team_id, home_goals, away_goals, status, kickoff, venue)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
			 ON CONFLICT (id) DO NOTHING`,
			m.ID, m.HomeTeamID, m.AwayTeamID, m.HomeGoals, m.AwayGoals, m.Status, nullTime(m.Kickoff), m.Venue)
		if err != nil {
			return added, fmt.Errorf("failed to insert match %d: %w", m.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	_, err := ps.db.ExecContext(ctx,
		`SELECT setval(pg_get_serial_sequence('matches', 'id'), GREATEST((SELECT COALESCE(MAX(id), 0) FROM matches), 1))`)
	if err != nil {
		return added, fmt.Errorf("failed to advance match id sequence: %w", err)
	}
	return added, nil
}

// recomputeStandingsSQL aggregates both sides of every FT match and left-joins teams so each
// team gets a row.
const recomputeStandingsSQL = `
WITH home AS (
	SELECT home_team_id AS team_id,
	       COUNT(*) AS played,
	       SUM(CASE WHEN home_goals > away_goals THEN 1 ELSE 0 END) AS won,
	       SUM(CASE WHEN home_goals = away_goals THEN 1 ELSE 0 END) AS drawn,
	       SUM(CASE WHEN home_goals < away_goals THEN 1 ELSE 0 END) AS lost,
	       SUM(home_goals) AS gf,
	       SUM(away_goals) AS ga
	FROM matches
	WHERE status = 'FT'
	GROUP BY home_team_id
),
away AS (
	SELECT away_team_id AS team_id,
	       COUNT(*) AS played,
	       SUM(CASE WHEN away_goals > home_goals THEN 1 ELSE 0 END) AS won,
	       SUM(CASE WHEN away_goals = home_goals THEN 1 ELSE 0 END) AS drawn,
	       SUM(CASE WHEN away_goals < home_goals THEN 1 ELSE 0 END) AS lost,
	       SUM(away_goals) AS gf,
	       SUM(home_goals) AS ga
	FROM matches
	WHERE status = 'FT'
	GROUP BY away_team_id
),
agg AS (
	SELECT team_id,
	       SUM(played) AS played, SUM(won) AS won, SUM(drawn) AS drawn, SUM(lost) AS lost,
	       SUM(gf) AS gf, SUM(ga) AS ga
	FROM (SELECT * FROM home UNION ALL SELECT * FROM away) x
	GROUP BY team_id
)
INSERT INTO standings (team_id, played, won, drawn, lost, gf, ga, points, last_updated)
SELECT t.id,
       COALESCE(a.played, 0),
       COALESCE(a.won, 0),
       COALESCE(a.drawn, 0),
       COALESCE(a.lost, 0),
       COALESCE(a.gf, 0),
       COALESCE(a.ga, 0),
       COALESCE(a.won, 0) * 3 + COALESCE(a.drawn, 0),
       $1
FROM teams t
LEFT JOIN agg a ON a.team_id = t.id`

// SaveSnapshot stores the snapshot and rebuilds the materialized standings table in the
// same transaction.
func (ps *PostgresStore) SaveSnapshot(ctx context.Context, s *models.StandingsSnapshot) error {
	rowsJSON, err := json.Marshal(s.Rows)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot rows: %w", err)
	}

	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO standings_snapshots (id, taken_at, rows) VALUES ($1, $2, $3)`,
		s.ID, s.TakenAt, rowsJSON); err != nil {
		return fmt.Errorf("failed to insert snapshot %s: %w", s.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM standings`); err != nil {
		return fmt.Errorf("failed to clear standings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, recomputeStandingsSQL, s.TakenAt); err != nil {
		return fmt.Errorf("failed to recompute standings: %w", err)
	}
	return tx.Commit()
}

func (ps *PostgresStore) LatestSnapshot(ctx context.Context) (*models.StandingsSnapshot, error) {
	var (
		s        models.StandingsSnapshot
		rowsJSON []byte
	)
	err := ps.db.QueryRowContext(ctx,
		`SELECT id, taken_at, rows FROM standings_snapshots ORDER BY taken_at DESC LIMIT 1`,
	).Scan(&s.ID, &s.TakenAt, &rowsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	if err := json.Unmarshal(rowsJSON, &s.Rows); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s rows: %w", s.ID, err)
	}
	s.TakenAt = s.TakenAt.UTC()
	return &s, nil
}

// MaterializedStandings reads the standings table written by the last snapshot, in table order.
func (ps *PostgresStore) MaterializedStandings(ctx context.Context) ([]models.StandingsRow, error) {
	rows, err := ps.db.QueryContext(ctx,
		`SELECT s.team_id, t.name, s.played, s.won, s.drawn, s.lost, s.gf, s.ga, s.points
		 FROM standings s JOIN teams t ON t.id = s.team_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()

	out := []models.StandingsRow{}
	for rows.Next() {
		var r models.StandingsRow
		if err := rows.Scan(&r.TeamID, &r.TeamName, &r.Played, &r.Won, &r.Drawn, &r.Lost, &r.GoalsFor, &r.GoalsAgainst, &r.Points); err != nil {
			return nil, fmt.Errorf("failed to scan standings row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	standings.Sort(out)
	return out, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
