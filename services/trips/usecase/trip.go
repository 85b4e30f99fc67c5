package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fletero/fletero/internal/pkg/errs"
	"github.com/fletero/fletero/internal/pkg/logger"
	"github.com/fletero/fletero/internal/pkg/models"
	"github.com/fletero/fletero/services/trips"
)

type tripUC struct {
	cfg      *models.Config
	tripRepo trips.TripRepo
	tripGW   trips.TripGW
}

// NewTripUC creates a new trip use case
func NewTripUC(
	cfg *models.Config,
	tripRepo trips.TripRepo,
	tripGW trips.TripGW,
) trips.TripUC {
	return &tripUC{
		cfg:      cfg,
		tripRepo: tripRepo,
		tripGW:   tripGW,
	}
}

// CreateTrip registers a new trip request. Clients create self-owned
// trips; administrators must name the owning client explicitly.
func (uc *tripUC) CreateTrip(ctx context.Context, actor models.Principal, req *models.TripCreateRequest) (*models.Trip, error) {
	if actor.Role == models.RoleDriver {
		return nil, errs.Authorizationf("drivers cannot create trip requests")
	}
	if req.Origin == "" || req.Destination == "" {
		return nil, errs.Validationf("origin and destination are required")
	}
	if req.Semi == "" {
		return nil, errs.Validationf("equipment id (semi) is required")
	}
	if err := validateContainerFields(req.ContainerNumber, req.ExpirationDate, req.ReturnPlace); err != nil {
		return nil, err
	}

	clientID := actor.ID
	if actor.Role == models.RoleAdmin {
		if req.TargetClientID == nil {
			return nil, errs.Validationf("target_client_id is required when an administrator creates a trip")
		}
		owner, err := uc.tripRepo.GetUserByID(ctx, *req.TargetClientID)
		if err != nil {
			return nil, err
		}
		if owner.Role != models.RoleClient {
			return nil, errs.Validationf("user %s is not a client", owner.ID)
		}
		clientID = owner.ID
	} else if req.TargetClientID != nil && *req.TargetClientID != actor.ID {
		return nil, errs.Authorizationf("clients can only create trips for themselves")
	}

	now := time.Now()
	trip := &models.Trip{
		ID:              uuid.New(),
		ClientID:        clientID,
		Origin:          req.Origin,
		Destination:     req.Destination,
		PickupDate:      req.PickupDate,
		CargoDetails:    req.CargoDetails,
		Reference:       req.Reference,
		ContainerNumber: req.ContainerNumber,
		ExpirationDate:  req.ExpirationDate,
		ReturnPlace:     req.ReturnPlace,
		Semi:            req.Semi,
		Notes:           req.Notes,
		Status:          models.TripStatusPending,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.tripRepo.CreateTrip(ctx, trip); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("New trip request from %s to %s", trip.Origin, trip.Destination)
	uc.publishEvent(ctx, models.TripActionCreated, trip, actor, message, nil)
	return trip, nil
}

// GetTrip fetches a trip visible to the actor.
func (uc *tripUC) GetTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID) (*models.Trip, error) {
	trip, err := uc.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := checkView(trip, actor); err != nil {
		return nil, err
	}
	return trip, nil
}

// ListTrips lists the trips visible to the actor: all for admins, own
// for clients, assigned for drivers.
func (uc *tripUC) ListTrips(ctx context.Context, actor models.Principal, sortBy, sortDir string) ([]*models.Trip, error) {
	filter := models.TripListFilter{SortBy: sortBy, SortDir: sortDir}
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleClient:
		id := actor.ID
		filter.ClientID = &id
	case models.RoleDriver:
		id := actor.ID
		filter.DriverID = &id
	default:
		return nil, errs.Authorizationf("unknown role %s", actor.Role)
	}
	return uc.tripRepo.ListTrips(ctx, filter)
}

// GetTripHistory returns the audit entries of a trip in append order.
func (uc *tripUC) GetTripHistory(ctx context.Context, actor models.Principal, tripID uuid.UUID) ([]*models.TripHistory, error) {
	trip, err := uc.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := checkView(trip, actor); err != nil {
		return nil, err
	}
	return uc.tripRepo.GetTripHistory(ctx, trip.ID)
}

// EditTrip applies content-field changes. An edit whose payload matches
// storage is a successful no-op: no write, no audit entry, no event.
func (uc *tripUC) EditTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID, req *models.TripEditRequest) (*models.Trip, error) {
	trip, err := uc.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := checkEdit(trip, actor); err != nil {
		return nil, err
	}

	if req.TargetClientID != nil && *req.TargetClientID != trip.ClientID {
		if actor.Role != models.RoleAdmin {
			return nil, errs.Authorizationf("only administrators can change the trip owner")
		}
		owner, err := uc.tripRepo.GetUserByID(ctx, *req.TargetClientID)
		if err != nil {
			return nil, err
		}
		if owner.Role != models.RoleClient {
			return nil, errs.Validationf("user %s is not a client", owner.ID)
		}
	}

	// An explicitly empty container number clears all three container
	// columns together, so the stored expiration and return place do not
	// participate in the joint check.
	if isContainerClear(req) {
		if req.ExpirationDate != nil || (req.ReturnPlace != nil && *req.ReturnPlace != "") {
			return nil, errs.Validationf("expiration_date and return_place are only valid with a container_number")
		}
	} else if err := validateContainerFields(
		pickString(req.ContainerNumber, trip.ContainerNumber),
		pickTime(req.ExpirationDate, trip.ExpirationDate),
		pickString(req.ReturnPlace, trip.ReturnPlace),
	); err != nil {
		return nil, err
	}

	patch, changes := computeEditDelta(trip, req)
	if len(changes) == 0 {
		return trip, nil
	}

	history := &models.TripHistory{
		ID:            uuid.New(),
		TripID:        trip.ID,
		EditorID:      actor.ID,
		Details:       editSummary(changes),
		ChangedFields: changes,
	}

	updated, err := uc.tripRepo.UpdateTripAtomic(ctx, trip.ID, trip.Version, patch, history)
	if err != nil {
		return nil, err
	}

	uc.publishEvent(ctx, models.TripActionUpdated, updated, actor, "Trip details were updated", changedFieldNames(changes))
	return updated, nil
}

// AssignDriver moves a PENDING trip to CONFIRMED with the given driver.
func (uc *tripUC) AssignDriver(ctx context.Context, actor models.Principal, tripID, driverID uuid.UUID) (*models.Trip, error) {
	trip, err := uc.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		return nil, errs.Authorizationf("only administrators can assign drivers")
	}
	driver, err := uc.tripRepo.GetUserByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if err := checkAssign(trip, actor, driver); err != nil {
		return nil, err
	}

	status := models.TripStatusConfirmed
	acknowledged := false
	patch := models.TripPatch{
		DriverID:           &driverID,
		Status:             &status,
		DriverAcknowledged: &acknowledged,
	}

	updated, err := uc.tripRepo.UpdateTripAtomic(ctx, trip.ID, trip.Version, patch, nil)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("You have been offered a trip from %s to %s", updated.Origin, updated.Destination)
	uc.publishEvent(ctx, models.TripActionAssigned, updated, actor, message, nil)
	return updated, nil
}

// AcknowledgeTrip sets the driver receipt flag. Acknowledging twice is
// not an error.
func (uc *tripUC) AcknowledgeTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID) (*models.Trip, error) {
	trip, err := uc.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := checkAcknowledge(trip, actor); err != nil {
		return nil, err
	}

	acknowledged := true
	patch := models.TripPatch{DriverAcknowledged: &acknowledged}

	updated, err := uc.tripRepo.UpdateTripAtomic(ctx, trip.ID, trip.Version, patch, nil)
	if err != nil {
		return nil, err
	}

	uc.publishEvent(ctx, models.TripActionAcknowledged, updated, actor, "Driver confirmed receipt of the trip", nil)
	return updated, nil
}

// StartTrip moves the trip to IN_PROGRESS.
func (uc *tripUC) StartTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID) (*models.Trip, error) {
	return uc.progress(ctx, actor, tripID, "start", models.TripActionStarted, models.TripStatusInProgress)
}

// UnloadTrip moves the trip to UNLOADED.
func (uc *tripUC) UnloadTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID) (*models.Trip, error) {
	return uc.progress(ctx, actor, tripID, "unload", models.TripActionUnloaded, models.TripStatusUnloaded)
}

// ReturnContainer moves a container trip to RETURNED.
func (uc *tripUC) ReturnContainer(ctx context.Context, actor models.Principal, tripID uuid.UUID) (*models.Trip, error) {
	trip, err := uc.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := checkReturn(trip, actor); err != nil {
		return nil, err
	}
	return uc.applyStatus(ctx, actor, trip, models.TripActionReturned, models.TripStatusReturned)
}

func (uc *tripUC) progress(ctx context.Context, actor models.Principal, tripID uuid.UUID, action string, event models.TripAction, status models.TripStatus) (*models.Trip, error) {
	trip, err := uc.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := checkProgress(trip, actor, action); err != nil {
		return nil, err
	}
	return uc.applyStatus(ctx, actor, trip, event, status)
}

func (uc *tripUC) applyStatus(ctx context.Context, actor models.Principal, trip *models.Trip, action models.TripAction, status models.TripStatus) (*models.Trip, error) {
	patch := models.TripPatch{Status: &status}
	updated, err := uc.tripRepo.UpdateTripAtomic(ctx, trip.ID, trip.Version, patch, nil)
	if err != nil {
		return nil, err
	}
	uc.publishEvent(ctx, action, updated, actor, statusMessage(updated, status), nil)
	return updated, nil
}

// InvoiceTrip closes the lifecycle with a positive amount.
func (uc *tripUC) InvoiceTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID, amount decimal.Decimal) (*models.Trip, error) {
	trip, err := uc.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := checkInvoice(trip, actor, amount); err != nil {
		return nil, err
	}

	status := models.TripStatusInvoiced
	patch := models.TripPatch{Status: &status, Amount: &amount}

	updated, err := uc.tripRepo.UpdateTripAtomic(ctx, trip.ID, trip.Version, patch, nil)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Trip invoiced for %s", amount.StringFixed(2))
	uc.publishEvent(ctx, models.TripActionInvoiced, updated, actor, message, nil)
	return updated, nil
}

// CancelTrip cancels the trip from any status except CANCELLED itself.
func (uc *tripUC) CancelTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID) (*models.Trip, error) {
	trip, err := uc.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := checkCancel(trip, actor); err != nil {
		return nil, err
	}

	status := models.TripStatusCancelled
	patch := models.TripPatch{Status: &status}

	updated, err := uc.tripRepo.UpdateTripAtomic(ctx, trip.ID, trip.Version, patch, nil)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Trip from %s to %s was cancelled", updated.Origin, updated.Destination)
	uc.publishEvent(ctx, models.TripActionCancelled, updated, actor, message, nil)
	return updated, nil
}

// DeleteTrip soft-deletes the trip so the audit trail stays intact.
func (uc *tripUC) DeleteTrip(ctx context.Context, actor models.Principal, tripID uuid.UUID) error {
	if actor.Role != models.RoleAdmin {
		return errs.Authorizationf("only administrators can delete trips")
	}
	trip, err := uc.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return err
	}
	if err := uc.tripRepo.SoftDeleteTrip(ctx, trip.ID, trip.Version); err != nil {
		return err
	}
	uc.publishEvent(ctx, models.TripActionDeleted, trip, actor, "Trip was removed", nil)
	return nil
}

// publishEvent hands a committed transition to the dispatch pipeline.
// Publish failures are logged and swallowed; the transition already
// committed and must not be reported as failed.
func (uc *tripUC) publishEvent(ctx context.Context, action models.TripAction, trip *models.Trip, actor models.Principal, message string, changed []string) {
	event := &models.TripEvent{
		Action:        action,
		Trip:          *trip,
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		Message:       message,
		ChangedFields: changed,
		OccurredAt:    time.Now(),
	}
	if err := uc.tripGW.PublishTripEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish trip event",
			logger.String("trip_id", trip.ID.String()),
			logger.String("action", string(action)),
			logger.Err(err))
	}
}

// validateContainerFields enforces the joint presence rule: a container
// number requires a return place and an expiration date, and vice
// versa.
func validateContainerFields(container *string, expiration *time.Time, returnPlace *string) error {
	hasContainer := container != nil && *container != ""
	hasExpiration := expiration != nil
	hasReturn := returnPlace != nil && *returnPlace != ""

	if hasContainer {
		if !hasExpiration || !hasReturn {
			return errs.Validationf("container trips require expiration_date and return_place")
		}
		return nil
	}
	if hasExpiration || hasReturn {
		return errs.Validationf("expiration_date and return_place are only valid with a container_number")
	}
	return nil
}

// isContainerClear reports whether the edit explicitly empties the
// container number, which stands for clearing the whole container
// field group.
func isContainerClear(req *models.TripEditRequest) bool {
	return req.ContainerNumber != nil && *req.ContainerNumber == ""
}

func pickString(requested, stored *string) *string {
	if requested != nil {
		return requested
	}
	return stored
}

func pickTime(requested, stored *time.Time) *time.Time {
	if requested != nil {
		return requested
	}
	return stored
}
