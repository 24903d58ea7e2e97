package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/textfetch/textfetch/internal/types"
)

// MongoStore keeps records in a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoStore connects to MongoDB and returns a record store.
func NewMongoStore(uri, database, collection string, logger *slog.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &types.StorageError{Backend: "mongo", Err: fmt.Errorf("connect: %w", err)}
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, &types.StorageError{Backend: "mongo", Err: fmt.Errorf("ping: %w", err)}
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "mongo_history"),
	}, nil
}

func (s *MongoStore) Name() string { return "mongo" }

func (s *MongoStore) Append(rec *types.Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.collection.InsertOne(ctx, rec); err != nil {
		return &types.StorageError{Backend: "mongo", Err: fmt.Errorf("insert: %w", err)}
	}

	s.logger.Debug("record stored", "id", rec.ID, "url", rec.URL)
	return nil
}

func (s *MongoStore) List(page, perPage int) ([]*types.Record, int, error) {
	if page < 1 || perPage < 1 {
		return nil, 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := s.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, &types.StorageError{Backend: "mongo", Err: fmt.Errorf("count: %w", err)}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))

	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, &types.StorageError{Backend: "mongo", Err: fmt.Errorf("find: %w", err)}
	}
	defer cursor.Close(ctx)

	var records []*types.Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, &types.StorageError{Backend: "mongo", Err: fmt.Errorf("decode: %w", err)}
	}

	return records, int(total), nil
}

func (s *MongoStore) Get(id string) (*types.Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var rec types.Record
	err := s.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &types.StorageError{Backend: "mongo", Err: err}
	}
	return &rec, nil
}

func (s *MongoStore) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := s.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return &types.StorageError{Backend: "mongo", Err: err}
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Stats() (Stats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "records", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "bytes", Value: bson.D{{Key: "$sum", Value: "$bytes"}}},
			{Key: "first_at", Value: bson.D{{Key: "$min", Value: "$created_at"}}},
			{Key: "last_at", Value: bson.D{{Key: "$max", Value: "$created_at"}}},
		}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return Stats{}, &types.StorageError{Backend: "mongo", Err: fmt.Errorf("aggregate: %w", err)}
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Records int       `bson:"records"`
		Bytes   int64     `bson:"bytes"`
		FirstAt time.Time `bson:"first_at"`
		LastAt  time.Time `bson:"last_at"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return Stats{}, &types.StorageError{Backend: "mongo", Err: err}
	}
	if len(rows) == 0 {
		return Stats{}, nil
	}

	return Stats{
		Records: rows[0].Records,
		Bytes:   rows[0].Bytes,
		FirstAt: rows[0].FirstAt,
		LastAt:  rows[0].LastAt,
	}, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
