// league/snapshot/snapshotter.go
package snapshot

import (
	"context"
	"time"

	"github.com/Ftotnem/LEAGUE-SERVICES/league/service"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/cluster"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
)

// TaskKey is hashed onto the ring to elect the instance that persists snapshots.
const TaskKey = "standings_snapshot_task"

// Snapshotter periodically persists the standings table. In a cluster only the instance
// responsible for TaskKey writes.
type Snapshotter struct {
	table    *service.TableService
	assigner cluster.Assigner
	interval time.Duration
	timeout  time.Duration
	lggr     logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSnapshotter(table *service.TableService, assigner cluster.Assigner, interval, timeout time.Duration, lggr logger.Logger) *Snapshotter {
	ctx, cancel := context.WithCancel(context.Background())
	if assigner == nil {
		assigner = cluster.Standalone{}
	}
	if timeout <= 0 {
		timeout = interval
	}
	return &Snapshotter{
		table:    table,
		assigner: assigner,
		interval: interval,
		timeout:  timeout,
		lggr:     lggr.Named("snapshotter"),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start runs the snapshot loop until Stop is called. Run it in a goroutine.
func (s *Snapshotter) Start() {
	defer close(s.done)

	s.lggr.Infof("Snapshotter starting, interval %v", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.lggr.Infof("Snapshotter shutting down")
			return
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// Stop ends the loop and waits for an in-flight snapshot to finish.
func (s *Snapshotter) Stop() {
	s.cancel()
	<-s.done
}

// RunOnce takes a snapshot if this instance is responsible for it. It reports whether a
// snapshot was written.
func (s *Snapshotter) RunOnce() bool {
	responsible, err := s.assigner.IsResponsible(TaskKey)
	if err != nil {
		s.lggr.Errorf("Failed to check responsibility for %s: %v", TaskKey, err)
		return false
	}
	if !responsible {
		return false
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	snap, err := s.table.Snapshot(ctx)
	if err != nil {
		s.lggr.Errorf("Failed to persist standings snapshot: %v", err)
		return false
	}
	s.lggr.Infow("Standings snapshot persisted", "snapshotId", snap.ID, "rows", len(snap.Rows))
	return true
}
