// league/store/mongo_match_store.go
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

// matchCounterID names the counters document that hands out match ids.
const matchCounterID = "match_id"

// MongoMatchStore is the MongoDB data store for matches. Integer ids come from a
// counters collection.
type MongoMatchStore struct {
	collection *mongo.Collection
	counters   *mongo.Collection
	lggr       logger.Logger
}

var _ MatchStore = (*MongoMatchStore)(nil)

func NewMongoMatchStore(collection, counters *mongo.Collection, lggr logger.Logger) *MongoMatchStore {
	return &MongoMatchStore{
		collection: collection,
		counters:   counters,
		lggr:       lggr.Named("match-store"),
	}
}

// EnsureIndexes creates the indexes used by team and status lookups.
func (ms *MongoMatchStore) EnsureIndexes(ctx context.Context) error {
	_, err := ms.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "kickoff", Value: 1}}},
		{Keys: bson.D{{Key: "home_team_id", Value: 1}, {Key: "away_team_id", Value: 1}}},
		{Keys: bson.D{{Key: "away_team_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create match indexes: %w", err)
	}
	return nil
}

func (ms *MongoMatchStore) ListMatches(ctx context.Context, status models.MatchStatus) ([]models.Match, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return ms.find(ctx, filter)
}

func (ms *MongoMatchStore) TeamMatches(ctx context.Context, teamID int64, status models.MatchStatus) ([]models.Match, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"home_team_id": teamID},
		bson.M{"away_team_id": teamID},
	}}
	if status != "" {
		filter["status"] = status
	}
	return ms.find(ctx, filter)
}

func (ms *MongoMatchStore) OpenFixtureBetween(ctx context.Context, homeTeamID, awayTeamID int64) (*models.Match, error) {
	matches, err := ms.find(ctx, bson.M{
		"home_team_id": homeTeamID,
		"away_team_id": awayTeamID,
		"status":       bson.M{"$ne": models.StatusFullTime},
	})
	if err != nil {
		return nil, err
	}
	return firstOpenBetween(matches, homeTeamID, awayTeamID)
}

// find sorts in memory because MongoDB orders missing kickoffs first.
func (ms *MongoMatchStore) find(ctx context.Context, filter bson.M) ([]models.Match, error) {
	cursor, err := ms.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find matches: %w", err)
	}
	defer cursor.Close(ctx)

	matches := []models.Match{}
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, fmt.Errorf("failed to decode matches: %w", err)
	}
	SortMatches(matches)
	return matches, nil
}

func (ms *MongoMatchStore) GetMatch(ctx context.Context, id int64) (*models.Match, error) {
	var m models.Match
	if err := ms.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return &m, nil
}

func (ms *MongoMatchStore) CreateMatch(ctx context.Context, m *models.Match) error {
	id, err := ms.nextID(ctx)
	if err != nil {
		return err
	}
	m.ID = id
	if _, err := ms.collection.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("match %d already exists: %w", id, err)
		}
		return fmt.Errorf("failed to create match %d: %w", id, err)
	}
	return nil
}

func (ms *MongoMatchStore) UpdateResult(ctx context.Context, id int64, homeGoals, awayGoals int, status models.MatchStatus) (*models.Match, error) {
	var m models.Match
	err := ms.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"home_goals": homeGoals, "away_goals": awayGoals, "status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update result of match %d: %w", id, err)
	}
	return &m, nil
}

// EnsureMatches inserts seed matches that are missing and moves the id counter past them.
func (ms *MongoMatchStore) EnsureMatches(ctx context.Context, matches []models.Match) (int, error) {
	added := 0
	var maxID int64
	for _, m := range matches {
		if m.ID > maxID {
			maxID = m.ID
		}
		doc, err := bson.Marshal(m)
		if err != nil {
			return added, fmt.Errorf("failed to encode match %d: %w", m.ID, err)
		}
		var fields bson.M
		if err := bson.Unmarshal(doc, &fields); err != nil {
			return added, fmt.Errorf("failed to encode match %d: %w", m.ID, err)
		}
		delete(fields, "_id")

		result, err := ms.collection.UpdateOne(ctx, bson.M{"_id": m.ID}, bson.M{"$setOnInsert": fields}, options.Update().SetUpsert(true))
		if err != nil {
			return added, fmt.Errorf("failed to upsert match %d: %w", m.ID, err)
		}
		if result.UpsertedID != nil {
			added++
		}
	}

	if maxID > 0 {
		_, err := ms.counters.UpdateOne(ctx,
			bson.M{"_id": matchCounterID},
			bson.M{"$max": bson.M{"seq": maxID}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return added, fmt.Errorf("failed to advance match id counter: %w", err)
		}
	}
	if added > 0 {
		ms.lggr.Infof("Seeded %d matches", added)
	}
	return added, nil
}

func (ms *MongoMatchStore) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := ms.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": matchCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate match id: %w", err)
	}
	return counter.Seq, nil
}
