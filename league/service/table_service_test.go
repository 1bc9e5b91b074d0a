package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ftotnem/LEAGUE-SERVICES/league/store"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
)

// memoryCache is a TableCache with the same version semantics as the Redis one.
type memoryCache struct {
	rows    []models.StandingsRow
	version int64
	sets    int
}

func (c *memoryCache) Get(context.Context) ([]models.StandingsRow, error) {
	if c.rows == nil {
		return nil, store.ErrNotFound
	}
	return c.rows, nil
}

func (c *memoryCache) Version(context.Context) (int64, error) { return c.version, nil }

func (c *memoryCache) Set(_ context.Context, rows []models.StandingsRow, version int64) error {
	if version != c.version {
		return nil
	}
	c.sets++
	c.rows = rows
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.version++
	c.rows = nil
	return nil
}

func TestTableService_CacheThrough(t *testing.T) {
	mem := store.NewMemoryStore()
	ctx := context.Background()
	_, err := mem.EnsureTeams(ctx, []models.Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}})
	require.NoError(t, err)

	cache := &memoryCache{}
	ts := NewTableService(mem, mem, mem, cache, logger.Test(t))

	rows, err := ts.Table(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, cache.sets)

	_, err = ts.Table(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "second read is served from cache")

	_, err = mem.EnsureMatches(ctx, []models.Match{{ID: 1, HomeTeamID: 2, AwayTeamID: 1, HomeGoals: 1, Status: models.StatusFullTime}})
	require.NoError(t, err)
	require.NoError(t, ts.Refresh(ctx))

	rows, err = ts.Table(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows[0].TeamID)
	assert.Equal(t, 3, rows[0].Points)
}

func TestTableService_Snapshot(t *testing.T) {
	mem := store.NewMemoryStore()
	ctx := context.Background()
	_, err := mem.EnsureTeams(ctx, []models.Team{{ID: 1, Name: "A"}})
	require.NoError(t, err)

	ts := NewTableService(mem, mem, mem, nil, logger.Test(t))
	fixed := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	ts.now = func() time.Time { return fixed }

	_, err = ts.LatestSnapshot(ctx)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	snap, err := ts.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, fixed, snap.TakenAt)

	latest, err := ts.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, latest.ID)
	assert.Len(t, latest.Rows, 1)
}
