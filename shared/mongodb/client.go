// shared/mongodb/client.go
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
)

// Client wraps *mongo.Client bound to one database.
type Client struct {
	mongoClient *mongo.Client
	database    string
	lggr        logger.Logger
}

// NewClient connects to MongoDB and pings the primary, retrying until ctx expires.
func NewClient(ctx context.Context, connStr, databaseName string, lggr logger.Logger) (*Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connStr))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	err = retry.Do(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pingCtx, readpref.Primary())
	},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			lggr.Warnf("MongoDB ping attempt %d failed: %v", attempt+1, err)
		}),
	)
	if err != nil {
		if disconnectErr := client.Disconnect(context.Background()); disconnectErr != nil {
			lggr.Warnf("Failed to disconnect MongoDB client after ping failure: %v", disconnectErr)
		}
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	lggr.Infof("Successfully connected to MongoDB database %s", databaseName)
	return &Client{
		mongoClient: client,
		database:    databaseName,
		lggr:        lggr,
	}, nil
}

// Collection returns a mongo.Collection for the specified collection name.
func (mc *Client) Collection(collectionName string) *mongo.Collection {
	return mc.mongoClient.Database(mc.database).Collection(collectionName)
}

// Disconnect closes the MongoDB client connection.
func (mc *Client) Disconnect(ctx context.Context) error {
	mc.lggr.Infof("Disconnecting from MongoDB")
	return mc.mongoClient.Disconnect(ctx)
}
