package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/config"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
)

// ServiceRegistrar keeps this instance's registry entry fresh and sweeps stale peers.
type ServiceRegistrar struct {
	redisClient redis.UniversalClient
	serviceType string
	cfg         *config.CommonConfig
	serviceID   string
	lggr        logger.Logger
	stopChan    chan struct{}
	doneChan    chan struct{}
}

func NewServiceRegistrar(redisClient redis.UniversalClient, serviceType string, cfg *config.CommonConfig, lggr logger.Logger) *ServiceRegistrar {
	serviceID := fmt.Sprintf("%s-%s", serviceType, uuid.New().String())

	return &ServiceRegistrar{
		redisClient: redisClient,
		serviceType: serviceType,
		cfg:         cfg,
		serviceID:   serviceID,
		lggr:        lggr.Named("registrar").With("serviceId", serviceID),
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
}

// Start registers the instance and heartbeats in a background goroutine.
func (sr *ServiceRegistrar) Start() {
	sr.lggr.Infof("Starting service registrar for %s at %s:%d", sr.serviceType, sr.cfg.ServiceIP, sr.cfg.ServicePort)
	go sr.run()
}

// Stop ends heartbeating and removes the instance from the registry.
func (sr *ServiceRegistrar) Stop() {
	close(sr.stopChan)
	<-sr.doneChan

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sr.redisClient.HDel(ctx, hashKey(sr.serviceType), sr.serviceID).Err(); err != nil {
		sr.lggr.Errorf("Failed to remove service from Redis registry on shutdown: %v", err)
		return
	}
	sr.lggr.Infof("Service removed from Redis registry")
}

func (sr *ServiceRegistrar) run() {
	defer close(sr.doneChan)

	ticker := time.NewTicker(sr.cfg.HeartbeatInterval)
	defer ticker.Stop()

	sr.registerService()

	var cleanup <-chan time.Time
	if sr.cfg.RegistryCleanupInterval > 0 {
		cleanupTicker := time.NewTicker(sr.cfg.RegistryCleanupInterval)
		defer cleanupTicker.Stop()
		cleanup = cleanupTicker.C
	}

	for {
		select {
		case <-ticker.C:
			sr.registerService()
		case <-cleanup:
			sr.performCleanup()
		case <-sr.stopChan:
			return
		}
	}
}

func (sr *ServiceRegistrar) registerService() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	infoJSON, err := json.Marshal(sr.info(time.Now()))
	if err != nil {
		sr.lggr.Errorf("Failed to marshal ServiceInfo: %v", err)
		return
	}

	if err := sr.redisClient.HSet(ctx, hashKey(sr.serviceType), sr.serviceID, infoJSON).Err(); err != nil {
		sr.lggr.Errorf("Failed to heartbeat into Redis registry: %v", err)
		return
	}
	sr.lggr.Debugf("Heartbeat sent")
}

func (sr *ServiceRegistrar) info(now time.Time) ServiceInfo {
	return ServiceInfo{
		ServiceID:   sr.serviceID,
		ServiceType: sr.serviceType,
		IP:          sr.cfg.ServiceIP,
		Port:        sr.cfg.ServicePort,
		LastSeen:    now.UnixMilli(),
		Metadata:    map[string]string{"version": ServiceVersion},
	}
}

// performCleanup deletes corrupt entries and entries older than the heartbeat TTL.
func (sr *ServiceRegistrar) performCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := hashKey(sr.serviceType)
	results, err := sr.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		sr.lggr.Errorf("Cleanup failed to list services: %v", err)
		return
	}

	stale := staleEntries(results, time.Now(), sr.cfg.HeartbeatTTL)
	if len(stale) == 0 {
		return
	}
	if err := sr.redisClient.HDel(ctx, key, stale...).Err(); err != nil {
		sr.lggr.Errorf("Cleanup failed to delete %d stale entries: %v", len(stale), err)
		return
	}
	sr.lggr.Infof("Cleanup removed stale registry entries %v", stale)
}

func staleEntries(entries map[string]string, now time.Time, ttl time.Duration) []string {
	var stale []string
	for instanceID, infoJSON := range entries {
		var info ServiceInfo
		if err := json.Unmarshal([]byte(infoJSON), &info); err != nil || now.Sub(time.UnixMilli(info.LastSeen)) > ttl {
			stale = append(stale, instanceID)
		}
	}
	return stale
}

// GetServiceID returns the unique ID assigned to this service instance.
func (sr *ServiceRegistrar) GetServiceID() string {
	return sr.serviceID
}

// GetServiceType returns the type of this service instance.
func (sr *ServiceRegistrar) GetServiceType() string {
	return sr.serviceType
}
