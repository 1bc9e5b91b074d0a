// shared/redis/client.go
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
)

// NewUniversalClient connects to Redis. One address yields a single-node client, several
// addresses a cluster client. The initial ping is retried until ctx expires.
func NewUniversalClient(ctx context.Context, addrs []string, password string, lggr logger.Logger) (redis.UniversalClient, error) {
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no Redis addresses provided")
	}

	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        addrs,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  6 * time.Second,
		PoolSize:     10,
	})

	err := retry.Do(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return rdb.Ping(pingCtx).Err()
	},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			lggr.Warnf("Redis ping attempt %d failed: %v", attempt+1, err)
		}),
	)
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %v: %w", addrs, err)
	}

	lggr.Infof("Successfully connected to Redis at %v", addrs)
	return rdb, nil
}
