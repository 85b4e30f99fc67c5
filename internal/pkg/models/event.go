package models

import (
	"time"

	"github.com/google/uuid"
)

// TripAction names a transition performed on a trip.
type TripAction string

const (
	TripActionCreated      TripAction = "created"
	TripActionUpdated      TripAction = "updated"
	TripActionAssigned     TripAction = "assigned"
	TripActionAcknowledged TripAction = "acknowledged"
	TripActionStarted      TripAction = "started"
	TripActionUnloaded     TripAction = "unloaded"
	TripActionReturned     TripAction = "returned"
	TripActionInvoiced     TripAction = "invoiced"
	TripActionCancelled    TripAction = "cancelled"
	TripActionDeleted      TripAction = "deleted"
)

// TripEvent describes a committed transition. It is the unit handed
// from the trip core to the notification dispatcher; it carries
// everything the dispatch policy needs so the dispatcher never has to
// read the store.
type TripEvent struct {
	Action        TripAction `json:"action"`
	Trip          Trip       `json:"trip"`
	ActorID       uuid.UUID  `json:"actor_id"`
	ActorRole     Role       `json:"actor_role"`
	Message       string     `json:"message,omitempty"`
	ChangedFields []string   `json:"changed_fields,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// Notification is one (room, event, payload) triple to deliver. Room
// RoomAll addresses every connected session.
type Notification struct {
	Room    string      `json:"room"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}
