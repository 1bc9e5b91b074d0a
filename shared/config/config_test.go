package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLeagueServiceConfig_Defaults(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")

	cfg, err := LoadLeagueServiceConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 8080, cfg.ServicePort)
	assert.Equal(t, StoreDriverMongo, cfg.StoreDriver)
	assert.Equal(t, "teams", cfg.MongoDBTeamsCollection)
	assert.Equal(t, 5*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, time.Minute, cfg.SnapshotInterval)
	assert.False(t, cfg.RedisEnabled())
	assert.Empty(t, cfg.AMQPURL)
}

func TestLoadLeagueServiceConfig_Env(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")
	t.Setenv("REDIS_ADDRS", "redis-0:6379, redis-1:6379")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("LEAGUE_SERVICE_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("SNAPSHOT_INTERVAL", "2m")
	t.Setenv("MONGODB_TEAM_COLLECTION", "clubs")
	t.Setenv("DATABASE_URL", "postgres://db/league")

	cfg, err := LoadLeagueServiceConfig("")
	require.NoError(t, err)

	assert.Equal(t, []string{"redis-0:6379", "redis-1:6379"}, cfg.RedisAddrs)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 9090, cfg.ServicePort)
	assert.Equal(t, 2*time.Minute, cfg.SnapshotInterval)
	assert.Equal(t, "clubs", cfg.MongoDBTeamsCollection)
	assert.Equal(t, "postgres://db/league", cfg.PostgresURL)
}

func TestLoadLeagueServiceConfig_File(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "league.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("store_driver: memory\nlisten_addr: \":7000\"\ntable_cache_ttl: 5s\n"), 0o600))

	tomlPath := filepath.Join(dir, "league.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("store_driver = \"memory\"\nseed_file = \"seed.yaml\"\n"), 0o600))

	t.Setenv(ConfigFileEnv, "")
	cfg, err := LoadLeagueServiceConfig(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 7000, cfg.ServicePort)
	assert.Equal(t, 5*time.Second, cfg.TableCacheTTL)

	t.Setenv(ConfigFileEnv, tomlPath)
	t.Setenv("LEAGUE_SERVICE_LISTEN_ADDR", ":7100")
	cfg, err = LoadLeagueServiceConfig("")
	require.NoError(t, err)
	assert.Equal(t, "seed.yaml", cfg.SeedFile)
	assert.Equal(t, 7100, cfg.ServicePort)
}

func TestLoadLeagueServiceConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "cassandra"}},
		{"bad duration", map[string]string{"SNAPSHOT_INTERVAL": "often"}},
		{"ttl below interval", map[string]string{"SERVICE_HEARTBEAT_TTL": "1s"}},
		{"bad listen addr", map[string]string{"LEAGUE_SERVICE_LISTEN_ADDR": "localhost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(ConfigFileEnv, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadLeagueServiceConfig("")
			require.Error(t, err)
		})
	}

	_, err := LoadLeagueServiceConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadClientConfig(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")
	t.Setenv("LEAGUE_API_URL", "http://league.local:8080/")
	t.Setenv("LEAGUE_TABLE_PATH", "standings")

	cfg, err := LoadClientConfig("")
	require.NoError(t, err)
	assert.Equal(t, "http://league.local:8080", cfg.BaseURL)
	assert.Equal(t, "/standings", cfg.TablePath)
	assert.Equal(t, 8*time.Second, cfg.PollInterval)
}
