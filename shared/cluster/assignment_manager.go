// shared/cluster/assignment_manager.go
package cluster

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/stathat/consistent"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/registry"
)

// MemberLister returns the live instances of a service type.
type MemberLister interface {
	GetActiveServices(ctx context.Context, serviceType string) (map[string]registry.ServiceInfo, error)
}

// Identity names the current instance.
type Identity interface {
	GetServiceID() string
	GetServiceType() string
}

// Assigner decides whether this instance owns a key.
type Assigner interface {
	IsResponsible(key string) (bool, error)
}

// ServiceAssignmentManager maps keys onto live instances with a consistent hash ring, so
// exactly one instance of a service type handles a given key.
type ServiceAssignmentManager struct {
	members        MemberLister
	self           Identity
	updateInterval time.Duration
	lggr           logger.Logger

	chMux          sync.RWMutex
	consistentHash *consistent.Consistent

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServiceAssignmentManager(members MemberLister, self Identity, updateInterval time.Duration, lggr logger.Logger) *ServiceAssignmentManager {
	ctx, cancel := context.WithCancel(context.Background())

	sam := &ServiceAssignmentManager{
		members:        members,
		self:           self,
		updateInterval: updateInterval,
		lggr:           lggr.Named("assignment"),
		consistentHash: consistent.New(),
		ctx:            ctx,
		cancel:         cancel,
	}
	// The instance owns everything until the first registry read.
	sam.consistentHash.Add(self.GetServiceID())

	sam.lggr.Infof("Assignment manager initialised for %s (ID: %s), refresh every %v",
		self.GetServiceType(), self.GetServiceID(), updateInterval)
	return sam
}

// Start refreshes the ring until Stop is called. Run it in a goroutine.
func (sam *ServiceAssignmentManager) Start() {
	ticker := time.NewTicker(sam.updateInterval)
	defer ticker.Stop()

	sam.Refresh()
	for {
		select {
		case <-sam.ctx.Done():
			sam.lggr.Infof("Assignment manager stopped")
			return
		case <-ticker.C:
			sam.Refresh()
		}
	}
}

func (sam *ServiceAssignmentManager) Stop() {
	sam.cancel()
}

// Refresh rebuilds the ring when the set of live members changed.
func (sam *ServiceAssignmentManager) Refresh() {
	active, err := sam.members.GetActiveServices(sam.ctx, sam.self.GetServiceType())
	if err != nil {
		sam.lggr.Errorf("Failed to get active services for %s: %v", sam.self.GetServiceType(), err)
		return
	}

	members := make([]string, 0, len(active))
	for id := range active {
		members = append(members, id)
	}
	slices.Sort(members)

	sam.chMux.Lock()
	defer sam.chMux.Unlock()

	current := sam.consistentHash.Members()
	slices.Sort(current)
	if slices.Equal(members, current) {
		return
	}

	ring := consistent.New()
	for _, member := range members {
		ring.Add(member)
	}
	sam.consistentHash = ring
	sam.lggr.Infof("Hash ring updated, active members: %v", members)
}

// IsResponsible reports whether this instance owns key.
func (sam *ServiceAssignmentManager) IsResponsible(key string) (bool, error) {
	sam.chMux.RLock()
	defer sam.chMux.RUnlock()

	if len(sam.consistentHash.Members()) == 0 {
		return false, fmt.Errorf("consistent hash ring is empty for service type %s", sam.self.GetServiceType())
	}

	owner, err := sam.consistentHash.Get(key)
	if err != nil {
		return false, fmt.Errorf("failed to get responsible service for key '%s': %w", key, err)
	}
	return owner == sam.self.GetServiceID(), nil
}

// Standalone is the Assigner of an instance running without a registry.
type Standalone struct{}

func (Standalone) IsResponsible(string) (bool, error) {
	return true, nil
}
