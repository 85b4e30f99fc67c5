package constants

// WebSocket event types
const (
	EventError = "error"

	// Trip events
	EventNewTripRequest     = "new_trip_request"
	EventTripStatus         = "trip_status"
	EventTripOffer          = "trip_offer"
	EventDriverAcknowledged = "driver_acknowledged"
	EventTripInvoiced       = "trip_invoiced"
	EventTripCancelled      = "trip_cancelled"
	EventTripUpdated        = "trip_updated"

	// Coarse refetch signal emitted after every committed transition so
	// list views can invalidate without knowing the fine-grained shapes.
	EventTripsChanged = "trips_changed"
)

// ErrorInvalidFormat is the code carried by error frames replying to
// malformed inbound messages.
const ErrorInvalidFormat = "invalid_format"
