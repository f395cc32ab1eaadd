package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a roster transition.
type EventType string

const (
	TypeSignedUp     EventType = "participant.signed_up"
	TypeUnregistered EventType = "participant.unregistered"
)

// RosterEvent records one successful register or unregister.
type RosterEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewRosterEvent(eventType EventType, activity, email string) RosterEvent {
	return RosterEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Activity:   activity,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
}
