package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ftotnem/LEAGUE-SERVICES/league/service"
	"github.com/Ftotnem/LEAGUE-SERVICES/league/store"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
)

type fakeAssigner struct {
	responsible bool
	err         error
	keys        []string
}

func (f *fakeAssigner) IsResponsible(key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.responsible, f.err
}

func newTable(t *testing.T) (*store.MemoryStore, *service.TableService) {
	t.Helper()
	mem := store.NewMemoryStore()
	_, err := mem.EnsureTeams(context.Background(), []models.Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}})
	require.NoError(t, err)
	return mem, service.NewTableService(mem, mem, mem, nil, logger.Test(t))
}

func TestRunOnce(t *testing.T) {
	tests := []struct {
		name     string
		assigner *fakeAssigner
		want     bool
	}{
		{"responsible", &fakeAssigner{responsible: true}, true},
		{"not responsible", &fakeAssigner{}, false},
		{"ring unavailable", &fakeAssigner{responsible: true, err: errors.New("ring empty")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem, table := newTable(t)
			s := NewSnapshotter(table, tt.assigner, time.Minute, time.Second, logger.Test(t))

			assert.Equal(t, tt.want, s.RunOnce())
			assert.Equal(t, []string{TaskKey}, tt.assigner.keys)

			_, err := mem.LatestSnapshot(context.Background())
			if tt.want {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, store.ErrNotFound)
			}
		})
	}
}

func TestStartStop(t *testing.T) {
	mem, table := newTable(t)
	s := NewSnapshotter(table, nil, 10*time.Millisecond, 0, logger.Nop())

	go s.Start()
	require.Eventually(t, func() bool {
		_, err := mem.LatestSnapshot(context.Background())
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	s.Stop()
}
