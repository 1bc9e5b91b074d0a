package registry

import (
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/config"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
)

func entry(t *testing.T, id string, lastSeen time.Time) string {
	t.Helper()
	data, err := json.Marshal(ServiceInfo{ServiceID: id, ServiceType: "league-service", LastSeen: lastSeen.UnixMilli()})
	require.NoError(t, err)
	return string(data)
}

func TestFilterActive(t *testing.T) {
	now := time.Now()
	entries := map[string]string{
		"fresh":   entry(t, "fresh", now.Add(-2*time.Second)),
		"stale":   entry(t, "stale", now.Add(-time.Minute)),
		"corrupt": "{not json",
	}

	active := filterActive(entries, now, 15*time.Second, logger.Test(t))
	require.Len(t, active, 1)
	assert.Equal(t, "fresh", active["fresh"].ServiceID)
}

func TestStaleEntries(t *testing.T) {
	now := time.Now()
	entries := map[string]string{
		"fresh":   entry(t, "fresh", now),
		"stale":   entry(t, "stale", now.Add(-time.Hour)),
		"corrupt": "",
	}

	stale := staleEntries(entries, now, 15*time.Second)
	sort.Strings(stale)
	assert.Equal(t, []string{"corrupt", "stale"}, stale)
}

func TestServiceRegistrar_Info(t *testing.T) {
	cfg := &config.CommonConfig{ServiceIP: "10.0.0.7", ServicePort: 8080}
	sr := NewServiceRegistrar(nil, "league-service", cfg, logger.Test(t))

	assert.Contains(t, sr.GetServiceID(), "league-service-")
	assert.Equal(t, "league-service", sr.GetServiceType())

	now := time.UnixMilli(1_700_000_000_000)
	info := sr.info(now)
	assert.Equal(t, "10.0.0.7", info.IP)
	assert.Equal(t, 8080, info.Port)
	assert.Equal(t, now.UnixMilli(), info.LastSeen)
	assert.Equal(t, ServiceVersion, info.Metadata["version"])
}
