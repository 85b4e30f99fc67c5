package gateway

import (
	"context"

	"github.com/fletero/fletero/internal/pkg/constants"
	"github.com/fletero/fletero/internal/pkg/logger"
	"github.com/fletero/fletero/internal/pkg/models"
	natspkg "github.com/fletero/fletero/internal/pkg/nats"
)

// TripGW publishes committed transitions to the event bus
type TripGW struct {
	natsClient *natspkg.Client
}

// NewTripGW creates a new trip gateway
func NewTripGW(natsClient *natspkg.Client) *TripGW {
	return &TripGW{
		natsClient: natsClient,
	}
}

// PublishTripEvent publishes a trip event to its action subject
func (g *TripGW) PublishTripEvent(_ context.Context, event *models.TripEvent) error {
	subject := constants.SubjectTrip(event.Action)

	if err := g.natsClient.Publish(subject, event); err != nil {
		return err
	}

	logger.Debug("Published trip event",
		logger.String("subject", subject),
		logger.String("trip_id", event.Trip.ID.String()))
	return nil
}
