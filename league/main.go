package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	leagueapi "github.com/Ftotnem/LEAGUE-SERVICES/league/api"
	"github.com/Ftotnem/LEAGUE-SERVICES/league/seed"
	"github.com/Ftotnem/LEAGUE-SERVICES/league/service"
	"github.com/Ftotnem/LEAGUE-SERVICES/league/snapshot"
	"github.com/Ftotnem/LEAGUE-SERVICES/league/store"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/amqp"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/api"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/cluster"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/config"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/mongodb"
	redisu "github.com/Ftotnem/LEAGUE-SERVICES/shared/redis"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/registry"
)

const serviceType = "league-service"

// stores bundles the persistence backend selected by STORE_DRIVER.
type stores struct {
	teams     store.TeamStore
	matches   store.MatchStore
	snapshots store.SnapshotStore
	close     func(ctx context.Context) error
}

func main() {
	// --- 1. Load Configuration ---
	cfg, err := config.LoadLeagueServiceConfig("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- 2. Logger ---
	lggr, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = lggr.Sync() }()
	lggr = lggr.Named(serviceType)
	lggr.Infof("Configuration loaded for League Service. Listening on: %s, store: %s", cfg.ListenAddr, cfg.StoreDriver)

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer connectCancel()

	// --- 3. Initialize Data Stores ---
	st, err := openStores(connectCtx, cfg, lggr)
	if err != nil {
		lggr.Fatalf("Failed to initialise %s store: %v", cfg.StoreDriver, err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.close(ctx); err != nil {
			lggr.Errorf("Error closing store: %v", err)
		}
	}()

	// --- 4. Seed Teams and Fixtures ---
	seedData, err := seed.Load(cfg.SeedFile)
	if err != nil {
		lggr.Fatalf("Failed to load seed: %v", err)
	}
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = seed.Apply(seedCtx, seedData, st.teams, st.matches, lggr)
	seedCancel()
	if err != nil {
		lggr.Fatalf("Failed to apply seed: %v", err)
	}

	// --- 5. Redis: Table Cache, Registry and Leader Election ---
	var (
		cache    store.TableCache = store.NopTableCache{}
		assigner cluster.Assigner = cluster.Standalone{}
	)
	if cfg.RedisEnabled() {
		redisClient, err := redisu.NewUniversalClient(connectCtx, cfg.RedisAddrs, cfg.RedisPassword, lggr)
		if err != nil {
			lggr.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				lggr.Errorf("Error closing Redis client: %v", err)
			}
		}()
		cache = store.NewRedisTableCache(redisClient, cfg.TableCacheTTL)

		registrar := registry.NewServiceRegistrar(redisClient, serviceType, &cfg.CommonConfig, lggr)
		registrar.Start()
		defer registrar.Stop()

		registryClient := registry.NewRegistryClient(redisClient, cfg.HeartbeatTTL, lggr)
		assignmentManager := cluster.NewServiceAssignmentManager(registryClient, registrar, cfg.HeartbeatInterval, lggr)
		go assignmentManager.Start()
		defer assignmentManager.Stop()
		assigner = assignmentManager
	} else {
		lggr.Warnf("REDIS_ADDRS not set: running standalone without table cache or service registry")
	}

	// --- 6. Result Events ---
	var events service.EventPublisher = service.NopPublisher{}
	if cfg.AMQPURL != "" {
		publisher, err := amqp.NewPublisher(connectCtx, cfg.AMQPURL, cfg.AMQPExchange, lggr)
		if err != nil {
			lggr.Fatalf("Failed to connect to AMQP broker: %v", err)
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				lggr.Errorf("Error closing AMQP publisher: %v", err)
			}
		}()
		events = publisher
	}

	// --- 7. Business Logic Services ---
	tableService := service.NewTableService(st.teams, st.matches, st.snapshots, cache, lggr)
	leagueService := service.NewLeagueService(st.teams, st.matches, tableService, events, lggr)
	lggr.Infof("League Service business logic initialized.")

	// --- 8. WebSocket Hub ---
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	hub := leagueapi.NewHub(lggr)
	go hub.Run(hubCtx)
	tableService.Subscribe(hub)

	// --- 9. HTTP Server and Routes ---
	baseServer := api.NewBaseServer(cfg.ListenAddr, lggr)
	leagueapi.NewLeagueAPIHandlers(leagueService, tableService, hub, lggr).RegisterRoutes(baseServer.Router)

	go func() {
		if err := baseServer.Start(); err != nil {
			lggr.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// --- 10. Periodic Standings Snapshots ---
	snapshotter := snapshot.NewSnapshotter(tableService, assigner, cfg.SnapshotInterval, cfg.SnapshotTimeout, lggr)
	go snapshotter.Start()
	defer snapshotter.Stop()

	// --- 11. Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	lggr.Infof("Shutting down League Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := baseServer.Shutdown(shutdownCtx); err != nil {
		lggr.Errorf("HTTP server graceful shutdown failed: %v", err)
	}
	lggr.Infof("League Service HTTP server gracefully stopped.")
}

func openStores(ctx context.Context, cfg *config.LeagueServiceConfig, lggr logger.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, err := mongodb.NewClient(ctx, cfg.MongoDBConnStr, cfg.MongoDBDatabase, lggr)
		if err != nil {
			return nil, err
		}
		matches := store.NewMongoMatchStore(
			client.Collection(cfg.MongoDBMatchesCollection),
			client.Collection(cfg.MongoDBCountersCollection),
			lggr,
		)
		if err := matches.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return &stores{
			teams:     store.NewMongoTeamStore(client.Collection(cfg.MongoDBTeamsCollection), lggr),
			matches:   matches,
			snapshots: store.NewMongoSnapshotStore(client.Collection(cfg.MongoDBSnapshotsCollection)),
			close:     client.Disconnect,
		}, nil

	case config.StoreDriverPostgres:
		db, err := store.OpenPostgres(ctx, cfg.PostgresURL, lggr)
		if err != nil {
			return nil, err
		}
		pg := store.NewPostgresStore(db, lggr)
		if err := pg.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &stores{
			teams:     pg,
			matches:   pg,
			snapshots: pg,
			close:     closeDB(db),
		}, nil

	case config.StoreDriverMemory:
		mem := store.NewMemoryStore()
		lggr.Warnf("Using in-memory store: data is lost on restart")
		return &stores{
			teams:     mem,
			matches:   mem,
			snapshots: mem,
			close:     func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func closeDB(db *sql.DB) func(context.Context) error {
	return func(context.Context) error { return db.Close() }
}
