package trips

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fletero/fletero/internal/pkg/models"
)

// TripUC defines the interface for trip business logic
type TripUC interface {
	CreateTrip(ctx context.Context, actor models.Principal, req *models.TripCreateRequest) (*models.Trip, error)
	GetTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID) (*models.Trip, error)
	ListTrips(ctx context.Context, actor models.Principal, sortBy, sortDir string) ([]*models.Trip, error)
	GetTripHistory(ctx context.Context, actor models.Principal, tripID uuid.UUID) ([]*models.TripHistory, error)
	EditTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID, req *models.TripEditRequest) (*models.Trip, error)
	AssignDriver(ctx context.Context, actor models.Principal, tripID, driverID uuid.UUID) (*models.Trip, error)
	AcknowledgeTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID) (*models.Trip, error)
	StartTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID) (*models.Trip, error)
	UnloadTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID) (*models.Trip, error)
	ReturnContainer(ctx context.Context, actor models.Principal, tripID uuid.UUID) (*models.Trip, error)
	InvoiceTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID, amount decimal.Decimal) (*models.Trip, error)
	CancelTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID) (*models.Trip, error)
	DeleteTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID) error
}
