package db

import (
	"context"
	"time"

	"github.com/aruana-vision/apiserver/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPingTimeout    = 5 * time.Second
)

// Open connects to MongoDB and verifies the connection with a ping.
func Open(ctx context.Context, cfg config.Config) (*mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URL))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client.Database(cfg.Mongo.DBName), nil
}

// EnsureIndexes creates the indexes the repositories rely on. All
// creations are idempotent.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	// Registration depends on email uniqueness being enforced here, not
	// just by the check-then-insert in the handler.
	if _, err := database.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		return err
	}

	if _, err := database.Collection("detections").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	}); err != nil {
		return err
	}

	if _, err := database.Collection("shares").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "share_token", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	_, err := database.Collection("alerts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "enabled", Value: 1}},
	})
	return err
}
