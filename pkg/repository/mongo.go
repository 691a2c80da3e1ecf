package repository

import (
	"context"
	"time"

	"github.com/example/posbridge/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// EventRecord is an append-only trace of every realtime event this terminal
// delivered, whichever transport carried it.
type EventRecord struct {
	ID        string    `bson:"_id,omitempty"`
	Tenant    string    `bson:"tenant"`
	Event     string    `bson:"event"`
	Transport string    `bson:"transport"` // "push" or "poll"
	OrderID   string    `bson:"order_id"`
	Payload   bson.M    `bson:"payload"`
	CreatedAt time.Time `bson:"created_at"`
}

func (m *MongoRepository) RecordEvent(ctx context.Context, rec *EventRecord) error {
	collection := m.database.Collection(m.config.Collection)
	rec.CreatedAt = time.Now()
	_, err := collection.InsertOne(ctx, rec)
	return err
}

func (m *MongoRepository) RecentEvents(ctx context.Context, tenant string, limit int64) ([]*EventRecord, error) {
	collection := m.database.Collection(m.config.Collection)

	filter := bson.M{"tenant": tenant}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*EventRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}
