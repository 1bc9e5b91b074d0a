// league/store/mongo_snapshot_store.go
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
)

type MongoSnapshotStore struct {
	collection *mongo.Collection
}

var _ SnapshotStore = (*MongoSnapshotStore)(nil)

func NewMongoSnapshotStore(collection *mongo.Collection) *MongoSnapshotStore {
	return &MongoSnapshotStore{collection: collection}
}

func (ss *MongoSnapshotStore) SaveSnapshot(ctx context.Context, s *models.StandingsSnapshot) error {
	if _, err := ss.collection.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("failed to save standings snapshot %s: %w", s.ID, err)
	}
	return nil
}

func (ss *MongoSnapshotStore) LatestSnapshot(ctx context.Context) (*models.StandingsSnapshot, error) {
	var s models.StandingsSnapshot
	opts := options.FindOne().SetSort(bson.D{{Key: "taken_at", Value: -1}})
	if err := ss.collection.FindOne(ctx, bson.M{}, opts).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load latest standings snapshot: %w", err)
	}
	return &s, nil
}
