package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
)

// RegistryClient reads the registry; ServiceRegistrar only writes its own entry.
type RegistryClient struct {
	redisClient    redis.UniversalClient
	serviceTimeout time.Duration
	lggr           logger.Logger
}

func NewRegistryClient(redisClient redis.UniversalClient, serviceTimeout time.Duration, lggr logger.Logger) *RegistryClient {
	return &RegistryClient{
		redisClient:    redisClient,
		serviceTimeout: serviceTimeout,
		lggr:           lggr.Named("registry-client"),
	}
}

// GetActiveServices returns the instances of serviceType keyed by instance id, leaving out
// entries whose last heartbeat is older than the service timeout.
func (rc *RegistryClient) GetActiveServices(ctx context.Context, serviceType string) (map[string]ServiceInfo, error) {
	results, err := rc.redisClient.HGetAll(ctx, hashKey(serviceType)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get all services of type %s from Redis: %w", serviceType, err)
	}
	return filterActive(results, time.Now(), rc.serviceTimeout, rc.lggr), nil
}

func filterActive(entries map[string]string, now time.Time, timeout time.Duration, lggr logger.Logger) map[string]ServiceInfo {
	active := make(map[string]ServiceInfo)
	for instanceID, infoJSON := range entries {
		var info ServiceInfo
		if err := json.Unmarshal([]byte(infoJSON), &info); err != nil {
			lggr.Warnf("Failed to unmarshal ServiceInfo for ID %s: %v", instanceID, err)
			continue
		}
		if now.Sub(time.UnixMilli(info.LastSeen)) <= timeout {
			active[instanceID] = info
		}
	}
	return active
}
