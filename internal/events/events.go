package events

import (
	"encoding/json"
	"time"
)

// Event is the structured change notification sent to WebSocket clients.
type Event struct {
	Type        string          `json:"type"`
	WorkspaceID string          `json:"-"`
	Data        json.RawMessage `json:"data"`
	Time        time.Time       `json:"time"`
}

// Publisher is the injection point services use to announce changes.
// Implementations must never block the calling request.
type Publisher interface {
	Publish(workspaceID, eventType string, data any)
}

// NopPublisher discards all events.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(string, string, any) {}
