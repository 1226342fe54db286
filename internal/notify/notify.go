package notify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"
)

// alertsChannel is the destination for alert firing events.
const alertsChannel = "alerts"

// Backend abstracts the message broker used to fan out events.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// AlertEvent describes one detection that triggered alert rules.
type AlertEvent struct {
	DetectionID string    `json:"detection_id"`
	UserID      string    `json:"user_id,omitempty"`
	Alerts      []string  `json:"alerts"`
	Timestamp   time.Time `json:"timestamp"`
}

// Notifier publishes alert events to the configured broker.
// A nil *Notifier disables publishing and never fails a request.
type Notifier struct {
	backend Backend
}

// NewNotifier constructs a Notifier for the provided backend.
func NewNotifier(backend Backend) *Notifier {
	return &Notifier{backend: backend}
}

// AlertsFired publishes one event for a detection that matched alert rules.
func (n *Notifier) AlertsFired(ctx context.Context, event AlertEvent) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	attrs := map[string]string{
		"detection_id": event.DetectionID,
	}
	return n.backend.Publish(ctx, alertsChannel, data, attrs)
}

// Close releases broker resources.
func (n *Notifier) Close() error {
	return n.backend.Close()
}

func newMessageID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "msg-unknown"
	}
	return hex.EncodeToString(buf)
}
