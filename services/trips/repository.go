package trips

import (
	"context"

	"github.com/google/uuid"

	"github.com/fletero/fletero/internal/pkg/models"
)

// TripRepo defines the interface for trip data access
type TripRepo interface {
	CreateTrip(ctx context.Context, trip *models.Trip) error
	GetTripByID(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	ListTrips(ctx context.Context, filter models.TripListFilter) ([]*models.Trip, error)

	// UpdateTripAtomic applies the patch only when the stored version
	// still matches expectedVersion, bumping the version and inserting
	// the history entry (when non-nil) in the same transaction. A stale
	// version yields errs.ErrConcurrentModification; a missing or
	// soft-deleted trip yields errs.ErrTripNotFound.
	UpdateTripAtomic(ctx context.Context, id uuid.UUID, expectedVersion int, patch models.TripPatch, history *models.TripHistory) (*models.Trip, error)

	SoftDeleteTrip(ctx context.Context, id uuid.UUID, expectedVersion int) error
	GetTripHistory(ctx context.Context, tripID uuid.UUID) ([]*models.TripHistory, error)

	// GetUserByID resolves referenced parties (target owner on create,
	// driver on assign).
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
