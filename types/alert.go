package types

import "time"

// Alert is a standing keyword watch. Every new detection's object labels
// are matched against the enabled alerts at analysis time.
type Alert struct {
	ID         string    `json:"id" bson:"id"`
	ObjectName string    `json:"object_name" bson:"object_name"`
	Enabled    bool      `json:"enabled" bson:"enabled"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
