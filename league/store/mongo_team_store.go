// league/store/mongo_team_store.go
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
)

// MongoTeamStore is the MongoDB data store for teams.
type MongoTeamStore struct {
	collection *mongo.Collection
	lggr       logger.Logger
}

var _ TeamStore = (*MongoTeamStore)(nil)

func NewMongoTeamStore(collection *mongo.Collection, lggr logger.Logger) *MongoTeamStore {
	return &MongoTeamStore{
		collection: collection,
		lggr:       lggr.Named("team-store"),
	}
}

func (ts *MongoTeamStore) ListTeams(ctx context.Context) ([]models.Team, error) {
	cursor, err := ts.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find all teams: %w", err)
	}
	defer cursor.Close(ctx)

	teams := []models.Team{}
	if err = cursor.All(ctx, &teams); err != nil {
		return nil, fmt.Errorf("failed to decode all teams: %w", err)
	}
	return teams, nil
}

func (ts *MongoTeamStore) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	var team models.Team
	err := ts.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return &team, nil
}

func (ts *MongoTeamStore) SetOwner(ctx context.Context, id int64, owner string) (*models.Team, error) {
	var team models.Team
	err := ts.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"owner": owner}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&team)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to set owner of team %d: %w", id, err)
	}
	return &team, nil
}

// EnsureTeams upserts each team with $setOnInsert so existing documents are left alone.
func (ts *MongoTeamStore) EnsureTeams(ctx context.Context, teams []models.Team) (int, error) {
	added := 0
	for _, t := range teams {
		update := bson.M{
			"$setOnInsert": bson.M{
				"name":       t.Name,
				"short_name": t.ShortName,
				"city":       t.City,
				"owner":      t.Owner,
			},
		}
		result, err := ts.collection.UpdateOne(ctx, bson.M{"_id": t.ID}, update, options.Update().SetUpsert(true))
		if err != nil {
			return added, fmt.Errorf("failed to upsert team %d: %w", t.ID, err)
		}
		if result.UpsertedID != nil {
			ts.lggr.Infof("Initialized team %d (%s) in database", t.ID, t.Name)
			added++
		}
	}
	return added, nil
}
