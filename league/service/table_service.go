// league/service/table_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ftotnem/LEAGUE-SERVICES/league/store"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/standings"
)

// ErrSnapshotNotFound is returned before the first snapshot has been taken.
var ErrSnapshotNotFound = fmt.Errorf("no standings snapshot yet")

// TableListener is told about every recomputed table.
type TableListener interface {
	TableChanged(rows []models.StandingsRow)
}

// TableService serves the standings table. Rows always come from standings.Compute over
// the stored teams and matches; the cache only saves recomputation.
type TableService struct {
	teams     store.TeamStore
	matches   store.MatchStore
	snapshots store.SnapshotStore
	cache     store.TableCache
	lggr      logger.Logger

	mu        sync.RWMutex
	listeners []TableListener

	now func() time.Time
}

func NewTableService(teams store.TeamStore, matches store.MatchStore, snapshots store.SnapshotStore, cache store.TableCache, lggr logger.Logger) *TableService {
	if cache == nil {
		cache = store.NopTableCache{}
	}
	return &TableService{
		teams:     teams,
		matches:   matches,
		snapshots: snapshots,
		cache:     cache,
		lggr:      lggr.Named("table-service"),
		now:       time.Now,
	}
}

// Subscribe registers l for table changes.
func (ts *TableService) Subscribe(l TableListener) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.listeners = append(ts.listeners, l)
}

// Table returns the current standings, served from the cache when possible.
func (ts *TableService) Table(ctx context.Context) ([]models.StandingsRow, error) {
	rows, err := ts.cache.Get(ctx)
	if err == nil {
		return rows, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		ts.lggr.Warnf("Table cache read failed, computing: %v", err)
	}

	version, verr := ts.cache.Version(ctx)
	rows, err = ts.Compute(ctx)
	if err != nil {
		return nil, err
	}
	if verr == nil {
		if err := ts.cache.Set(ctx, rows, version); err != nil {
			ts.lggr.Warnf("Failed to cache table: %v", err)
		}
	}
	return rows, nil
}

// Compute aggregates the stored teams and matches, bypassing the cache.
func (ts *TableService) Compute(ctx context.Context) ([]models.StandingsRow, error) {
	teams, err := ts.teams.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for table: %w", err)
	}
	matches, err := ts.matches.ListMatches(ctx, models.StatusFullTime)
	if err != nil {
		return nil, fmt.Errorf("failed to list finished matches for table: %w", err)
	}
	return standings.Compute(teams, matches), nil
}

// Refresh drops the cached table, recomputes it and notifies listeners.
func (ts *TableService) Refresh(ctx context.Context) error {
	if err := ts.cache.Invalidate(ctx); err != nil {
		ts.lggr.Warnf("Failed to invalidate table cache: %v", err)
	}
	rows, err := ts.Table(ctx)
	if err != nil {
		return err
	}

	ts.mu.RLock()
	listeners := append([]TableListener(nil), ts.listeners...)
	ts.mu.RUnlock()
	for _, l := range listeners {
		l.TableChanged(rows)
	}
	return nil
}

// Snapshot computes the table and persists it.
func (ts *TableService) Snapshot(ctx context.Context) (*models.StandingsSnapshot, error) {
	rows, err := ts.Compute(ctx)
	if err != nil {
		return nil, err
	}
	snap := &models.StandingsSnapshot{
		ID:      uuid.New().String(),
		TakenAt: ts.now().UTC(),
		Rows:    rows,
	}
	if err := ts.snapshots.SaveSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to save standings snapshot: %w", err)
	}
	return snap, nil
}

func (ts *TableService) LatestSnapshot(ctx context.Context) (*models.StandingsSnapshot, error) {
	snap, err := ts.snapshots.LatestSnapshot(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return snap, nil
}
