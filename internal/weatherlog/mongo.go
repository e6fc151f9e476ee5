package weatherlog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const logsCollection = "weather_logs"

type logDoc struct {
	ID        bson.ObjectID   `bson:"_id,omitempty"`
	Time      string          `bson:"time"`
	City      string          `bson:"city"`
	Current   []CurrentSample `bson:"current"`
	Daily     []DailySample   `bson:"daily"`
	AIInsight string          `bson:"aiInsight,omitempty"`
	CreatedAt time.Time       `bson:"createdAt"`
}

func (d logDoc) toObservation() Observation {
	return Observation{
		ID:        d.ID.Hex(),
		Time:      d.Time,
		City:      d.City,
		Current:   d.Current,
		Daily:     d.Daily,
		AIInsight: d.AIInsight,
		CreatedAt: d.CreatedAt,
	}
}

// MongoRepository is the MongoDB-backed implementation of Repository.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository wires the repository to the weather_logs collection and
// indexes createdAt, which orders every retention and read query.
func NewMongoRepository(ctx context.Context, db *mongo.Database) (*MongoRepository, error) {
	coll := db.Collection(logsCollection)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("create weather log index: %w", err)
	}

	return &MongoRepository{coll: coll}, nil
}

func (r *MongoRepository) Insert(ctx context.Context, o Observation) (Observation, error) {
	doc := logDoc{
		ID:        bson.NewObjectID(),
		Time:      o.Time,
		City:      o.City,
		Current:   o.Current,
		Daily:     o.Daily,
		AIInsight: o.AIInsight,
		CreatedAt: time.Now(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return Observation{}, fmt.Errorf("insert weather log: %w", err)
	}
	return doc.toObservation(), nil
}

func (r *MongoRepository) FindRecent(ctx context.Context, limit int) ([]Observation, error) {
	return r.find(ctx, -1, limit)
}

func (r *MongoRepository) FindOldest(ctx context.Context, limit int) ([]Observation, error) {
	return r.find(ctx, 1, limit)
}

func (r *MongoRepository) find(ctx context.Context, order, limit int) ([]Observation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: order}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find weather logs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []logDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode weather logs: %w", err)
	}

	logs := make([]Observation, 0, len(docs))
	for _, d := range docs {
		logs = append(logs, d.toObservation())
	}
	return logs, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count weather logs: %w", err)
	}
	return int(n), nil
}

func (r *MongoRepository) Remove(ctx context.Context, ids []string) (int, error) {
	oids := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := bson.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return 0, nil
	}

	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}})
	if err != nil {
		return 0, fmt.Errorf("delete weather logs: %w", err)
	}
	return int(res.DeletedCount), nil
}
