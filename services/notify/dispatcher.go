package notify

import (
	"github.com/fletero/fletero/internal/pkg/constants"
	"github.com/fletero/fletero/internal/pkg/models"
)

// Dispatcher turns a committed trip event into the set of room
// deliveries it should produce. It is pure: no store reads, no
// transport, so the fanout policy is testable on its own.
type Dispatcher struct {
	notifyClientOnInvoice bool
}

// NewDispatcher creates a dispatcher with the given policy knobs.
func NewDispatcher(cfg models.NotifyConfig) *Dispatcher {
	return &Dispatcher{
		notifyClientOnInvoice: cfg.ClientOnInvoice,
	}
}

// refreshSignal is the coarse payload of the list-invalidation
// broadcast that accompanies every action.
type refreshSignal struct {
	TripID string            `json:"trip_id"`
	Action models.TripAction `json:"action"`
}

// Dispatch computes the notification set for one event: the targeted
// deliveries from the fanout policy plus one trips_changed broadcast.
func (d *Dispatcher) Dispatch(event *models.TripEvent) []models.Notification {
	trip := &event.Trip
	clientRoom := constants.RoomUser(trip.ClientID)

	var out []models.Notification
	add := func(room, wsEvent string) {
		out = append(out, models.Notification{Room: room, Event: wsEvent, Payload: event})
	}

	switch event.Action {
	case models.TripActionCreated:
		add(constants.RoomAdmin, constants.EventNewTripRequest)
		if trip.ClientID != event.ActorID {
			add(clientRoom, constants.EventTripStatus)
		}
	case models.TripActionAssigned:
		if trip.DriverID != nil {
			add(constants.RoomUser(*trip.DriverID), constants.EventTripOffer)
		}
	case models.TripActionAcknowledged:
		add(constants.RoomAdmin, constants.EventDriverAcknowledged)
		add(clientRoom, constants.EventDriverAcknowledged)
	case models.TripActionStarted, models.TripActionUnloaded, models.TripActionReturned:
		add(clientRoom, constants.EventTripStatus)
		add(constants.RoomAdmin, constants.EventTripStatus)
	case models.TripActionInvoiced:
		add(constants.RoomAdmin, constants.EventTripInvoiced)
		if d.notifyClientOnInvoice {
			add(clientRoom, constants.EventTripInvoiced)
		}
	case models.TripActionCancelled:
		add(constants.RoomAll, constants.EventTripCancelled)
	case models.TripActionUpdated:
		add(constants.RoomAdmin, constants.EventTripUpdated)
		add(clientRoom, constants.EventTripUpdated)
		if trip.DriverID != nil {
			add(constants.RoomUser(*trip.DriverID), constants.EventTripUpdated)
		}
	case models.TripActionDeleted:
		// Only the refresh broadcast below.
	}

	out = append(out, models.Notification{
		Room:    constants.RoomAll,
		Event:   constants.EventTripsChanged,
		Payload: refreshSignal{TripID: trip.ID.String(), Action: event.Action},
	})
	return out
}
