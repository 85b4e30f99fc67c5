package constants

import "github.com/fletero/fletero/internal/pkg/models"

// NATS subjects. Each committed transition is published on its own
// subject under trip.*; the notification dispatcher subscribes to the
// wildcard.
const (
	SubjectTripPrefix   = "trip."
	SubjectTripWildcard = "trip.>"
)

// SubjectTrip returns the subject for a trip action.
func SubjectTrip(action models.TripAction) string {
	return SubjectTripPrefix + string(action)
}
