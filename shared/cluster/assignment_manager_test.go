package cluster

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/registry"
)

type fakeMembers struct {
	ids []string
	err error
}

func (f *fakeMembers) GetActiveServices(context.Context, string) (map[string]registry.ServiceInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]registry.ServiceInfo, len(f.ids))
	for _, id := range f.ids {
		out[id] = registry.ServiceInfo{ServiceID: id}
	}
	return out, nil
}

type identity string

func (i identity) GetServiceID() string { return string(i) }
func (identity) GetServiceType() string { return "league-service" }

func TestAssignment_SingleInstanceOwnsEverything(t *testing.T) {
	sam := NewServiceAssignmentManager(&fakeMembers{}, identity("a"), 0, logger.Test(t))

	ok, err := sam.IsResponsible("standings_snapshot_task")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAssignment_ExactlyOneOwner(t *testing.T) {
	ids := []string{"a", "b", "c"}
	members := &fakeMembers{ids: ids}

	managers := make([]*ServiceAssignmentManager, len(ids))
	for i, id := range ids {
		managers[i] = NewServiceAssignmentManager(members, identity(id), 0, logger.Test(t))
		managers[i].Refresh()
	}

	for k := 0; k < 20; k++ {
		key := fmt.Sprintf("task-%d", k)
		owners := 0
		for _, m := range managers {
			ok, err := m.IsResponsible(key)
			require.NoError(t, err)
			if ok {
				owners++
			}
		}
		assert.Equal(t, 1, owners, key)
	}
}

func TestAssignment_EmptyRingAndErrors(t *testing.T) {
	members := &fakeMembers{ids: []string{"other"}}
	sam := NewServiceAssignmentManager(members, identity("me"), 0, logger.Test(t))
	sam.Refresh()

	ok, err := sam.IsResponsible("x")
	require.NoError(t, err)
	assert.False(t, ok)

	// A failed registry read keeps the previous ring.
	members.err = errors.New("redis down")
	sam.Refresh()
	ok, err = sam.IsResponsible("x")
	require.NoError(t, err)
	assert.False(t, ok)

	members.err = nil
	members.ids = nil
	sam.Refresh()
	_, err = sam.IsResponsible("x")
	require.Error(t, err)
}

func TestStandalone(t *testing.T) {
	ok, err := Standalone{}.IsResponsible("anything")
	require.NoError(t, err)
	assert.True(t, ok)
}
