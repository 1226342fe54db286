package store

import (
	"context"

	"github.com/aruana-vision/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AlertRepository handles persistence for alert rules.
type AlertRepository struct {
	col *mongo.Collection
}

func NewAlertRepository(database *mongo.Database) *AlertRepository {
	return &AlertRepository{col: database.Collection("alerts")}
}

func (r *AlertRepository) Create(ctx context.Context, alert types.Alert) error {
	_, err := r.col.InsertOne(ctx, alert)
	return err
}

func (r *AlertRepository) List(ctx context.Context) ([]types.Alert, error) {
	return r.find(ctx, bson.M{})
}

// ListEnabled returns the rules matched against every new detection.
// Read fresh per request; alert changes take effect immediately.
func (r *AlertRepository) ListEnabled(ctx context.Context) ([]types.Alert, error) {
	return r.find(ctx, bson.M{"enabled": true})
}

func (r *AlertRepository) find(ctx context.Context, filter bson.M) ([]types.Alert, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	alerts := []types.Alert{}
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *AlertRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	result, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"enabled": enabled}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AlertRepository) Delete(ctx context.Context, id string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AlertRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
