package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeRoomBooked         = "room.booked"
	TypeRoomReviewed       = "room.reviewed"
	TypeBookingCreated     = "booking.created"
	TypeBookingsClaimed    = "bookings.claimed"
	TypeBookingRescheduled = "booking.rescheduled"
	TypeBookingDeleted     = "booking.deleted"
)

// Header keys carried on every broker message.
const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderSchemaVersion = "schema-version"
	HeaderSource        = "source"
	HeaderTimestamp     = "timestamp"
)

const SchemaVersion = "1"

// Event is a fact about a write that already happened. Key routes related
// events to the same partition (the room or booking id).
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Source     string    `json:"source"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func New(eventType, key string, payload any) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func (e Event) Headers() map[string]string {
	return map[string]string{
		HeaderEventID:       e.ID,
		HeaderEventType:     e.Type,
		HeaderSchemaVersion: SchemaVersion,
		HeaderSource:        e.Source,
		HeaderTimestamp:     e.OccurredAt.Format(time.RFC3339),
	}
}
