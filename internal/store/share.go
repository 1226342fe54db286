package store

import (
	"context"
	"errors"

	"github.com/aruana-vision/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ShareRepository handles persistence for share links.
type ShareRepository struct {
	col *mongo.Collection
}

func NewShareRepository(database *mongo.Database) *ShareRepository {
	return &ShareRepository{col: database.Collection("shares")}
}

func (r *ShareRepository) Create(ctx context.Context, share types.Share) error {
	_, err := r.col.InsertOne(ctx, share)
	return err
}

func (r *ShareRepository) GetByToken(ctx context.Context, token string) (types.Share, error) {
	var share types.Share
	err := r.col.FindOne(ctx, bson.M{"share_token": token}).Decode(&share)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Share{}, ErrNotFound
		}
		return types.Share{}, err
	}
	return share, nil
}

// IncrementViews bumps the view counter and returns the updated record.
func (r *ShareRepository) IncrementViews(ctx context.Context, id string) (types.Share, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var share types.Share
	err := r.col.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&share)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Share{}, ErrNotFound
		}
		return types.Share{}, err
	}
	return share, nil
}

// DeleteByDetection removes every share the owner created for one
// detection. Deleting zero matches is not an error.
func (r *ShareRepository) DeleteByDetection(ctx context.Context, detectionID, userID string) (int64, error) {
	result, err := r.col.DeleteMany(ctx, bson.M{"detection_id": detectionID, "user_id": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
