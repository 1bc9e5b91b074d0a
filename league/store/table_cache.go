// league/store/table_cache.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
	sharedredis "github.com/Ftotnem/LEAGUE-SERVICES/shared/redis"
)

// TableCache caches the computed standings table. Every invalidation bumps a version; Set
// only stores rows computed at the current version.
type TableCache interface {
	// Get returns the cached rows, or ErrNotFound on a miss.
	Get(ctx context.Context) ([]models.StandingsRow, error)
	// Version returns the current invalidation counter.
	Version(ctx context.Context) (int64, error)
	// Set stores rows unless the cache was invalidated after version was read.
	Set(ctx context.Context, rows []models.StandingsRow, version int64) error
	Invalidate(ctx context.Context) error
}

// RedisTableCache stores the table as one JSON value with a TTL. Both keys share a hash tag,
// so the optimistic transaction also works on a cluster.
type RedisTableCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

var _ TableCache = (*RedisTableCache)(nil)

func NewRedisTableCache(rdb redis.UniversalClient, ttl time.Duration) *RedisTableCache {
	return &RedisTableCache{rdb: rdb, ttl: ttl}
}

func (c *RedisTableCache) Get(ctx context.Context) ([]models.StandingsRow, error) {
	data, err := c.rdb.Get(ctx, sharedredis.TableCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cached table: %w", err)
	}
	var rows []models.StandingsRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode cached table: %w", err)
	}
	return rows, nil
}

func (c *RedisTableCache) Version(ctx context.Context) (int64, error) {
	return readVersion(ctx, c.rdb)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, cmd getter) (int64, error) {
	v, err := cmd.Get(ctx, sharedredis.TableVersionKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read table version: %w", err)
	}
	return v, nil
}

func (c *RedisTableCache) Set(ctx context.Context, rows []models.StandingsRow, version int64) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx)
		if err != nil {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, sharedredis.TableCacheKey, data, c.ttl)
			return nil
		})
		return err
	}, sharedredis.TableVersionKey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("failed to cache table: %w", err)
	}
	return nil
}

func (c *RedisTableCache) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, sharedredis.TableVersionKey)
		pipe.Del(ctx, sharedredis.TableCacheKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate cached table: %w", err)
	}
	return nil
}

// NopTableCache never hits. It is used when Redis is not configured.
type NopTableCache struct{}

func (NopTableCache) Get(context.Context) ([]models.StandingsRow, error) { return nil, ErrNotFound }

func (NopTableCache) Version(context.Context) (int64, error) { return 0, nil }

func (NopTableCache) Set(context.Context, []models.StandingsRow, int64) error { return nil }

func (NopTableCache) Invalidate(context.Context) error { return nil }
