// Package sse implements Server-Sent Events so clients can react to
// library and profile changes without polling.
package sse

import (
	"time"

	"github.com/bookhiveapp/bookhive-server/internal/store"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventBookCreated represents a book creation event.
	EventBookCreated EventType = "book.created"
	// EventBookUpdated represents a book update event.
	EventBookUpdated EventType = "book.updated"
	// EventBookDeleted represents a book deletion event.
	EventBookDeleted EventType = "book.deleted"

	// EventLogCreated represents a reading log creation event.
	EventLogCreated EventType = "log.created"
	// EventLogUpdated represents a reading log update event.
	EventLogUpdated EventType = "log.updated"
	// EventLogDeleted represents a reading log deletion event.
	EventLogDeleted EventType = "log.deleted"

	// EventProfileUpdated represents any profile document change.
	EventProfileUpdated EventType = "profile.updated"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// UserID filters delivery to one user's clients. Empty means
	// broadcast to all. Never serialized to the wire.
	UserID string `json:"-"`
}

// ChangeData is the payload for record change events. Clients re-fetch
// the affected collection rather than patching from the payload.
type ChangeData struct {
	ID string `json:"id"`
	Op string `json:"op"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Timestamp: now,
		Data:      HeartbeatEventData{ServerTime: now},
	}
}

// changeEventType maps a store mutation to the client-facing event type.
func changeEventType(change store.ChangeEvent) (EventType, bool) {
	switch change.Collection {
	case store.BooksCollection:
		switch change.Op {
		case store.OpCreate:
			return EventBookCreated, true
		case store.OpUpdate:
			return EventBookUpdated, true
		case store.OpDelete:
			return EventBookDeleted, true
		}
	case store.LogsCollection:
		switch change.Op {
		case store.OpCreate:
			return EventLogCreated, true
		case store.OpUpdate:
			return EventLogUpdated, true
		case store.OpDelete:
			return EventLogDeleted, true
		}
	case store.ProfilesCollection:
		return EventProfileUpdated, true
	}
	return "", false
}

// FromChange converts a store change into a deliverable event. The
// second return is false for collections that are not client-visible
// (credentials, sessions).
func FromChange(change store.ChangeEvent) (Event, bool) {
	eventType, ok := changeEventType(change)
	if !ok {
		return Event{}, false
	}

	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      ChangeData{ID: change.ID, Op: string(change.Op)},
		UserID:    change.Owner,
	}, true
}
