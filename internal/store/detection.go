package store

import (
	"context"
	"errors"
	"time"

	"github.com/aruana-vision/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// detectionDoc is the stored form of a detection. The timestamp is
// serialized to a sortable ISO-8601 string, matching the audit-log
// export format.
type detectionDoc struct {
	types.Detection `bson:",inline"`
	Timestamp       string `bson:"timestamp"`
}

const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// DetectionRepository handles persistence for detections.
type DetectionRepository struct {
	col *mongo.Collection
}

func NewDetectionRepository(database *mongo.Database) *DetectionRepository {
	return &DetectionRepository{col: database.Collection("detections")}
}

func (r *DetectionRepository) Create(ctx context.Context, detection types.Detection) error {
	doc := detectionDoc{
		Detection: detection,
		Timestamp: detection.Timestamp.UTC().Format(timestampLayout),
	}
	_, err := r.col.InsertOne(ctx, doc)
	return err
}

func (r *DetectionRepository) GetByID(ctx context.Context, id string) (types.Detection, error) {
	var doc detectionDoc
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Detection{}, ErrNotFound
		}
		return types.Detection{}, err
	}
	return doc.toDetection(), nil
}

// List returns detections newest first. An empty userID returns records
// across all owners; callers enforce that only admins pass it.
func (r *DetectionRepository) List(ctx context.Context, userID string, limit, skip int64) ([]types.Detection, error) {
	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	detections := []types.Detection{}
	for cursor.Next(ctx) {
		var doc detectionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		detections = append(detections, doc.toDetection())
	}
	return detections, cursor.Err()
}

func (r *DetectionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DetectionRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (d detectionDoc) toDetection() types.Detection {
	detection := d.Detection
	if parsed, err := time.Parse(timestampLayout, d.Timestamp); err == nil {
		detection.Timestamp = parsed
	} else if parsed, err := time.Parse(time.RFC3339Nano, d.Timestamp); err == nil {
		detection.Timestamp = parsed
	}
	if detection.ObjectsDetected == nil {
		detection.ObjectsDetected = []types.DetectedObject{}
	}
	if detection.AlertsTriggered == nil {
		detection.AlertsTriggered = []string{}
	}
	if detection.Tags == nil {
		detection.Tags = []string{}
	}
	return detection
}
