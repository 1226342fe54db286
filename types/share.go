package types

import "time"

// Share grants public, unauthenticated, read-only access to one
// detection through an unguessable token.
type Share struct {
	ID          string     `json:"id" bson:"id"`
	DetectionID string     `json:"detection_id" bson:"detection_id"`
	ShareToken  string     `json:"share_token" bson:"share_token"`
	UserID      string     `json:"user_id" bson:"user_id"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	Views       int64      `json:"views" bson:"views"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
}
