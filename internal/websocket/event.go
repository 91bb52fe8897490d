package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to the entity
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
)

// EntityType represents the kind of entity an event is about
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeAccount     EntityType = "account"
	EntityTypeRecurring   EntityType = "recurring"
	EntityTypeScenario    EntityType = "scenario"
	EntityTypeDebt        EntityType = "debt"
	EntityTypeInsight     EntityType = "insight"
)

// Event is a message broadcast to the clients of one workspace.
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"` // combined, e.g. "transaction.created"
	Entity    EntityType  `json:"entity"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// InsightUpdated signals that the background worker recomputed the
// workspace's risk analysis
func InsightUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeInsight, payload)
}
