package trips

import (
	"context"

	"github.com/fletero/fletero/internal/pkg/models"
)

// TripGW defines the interface for publishing committed transitions
type TripGW interface {
	PublishTripEvent(ctx context.Context, event *models.TripEvent) error
}
