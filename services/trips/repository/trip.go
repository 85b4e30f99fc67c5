package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fletero/fletero/internal/pkg/errs"
	"github.com/fletero/fletero/internal/pkg/models"
)

const tripColumns = `id, client_id, driver_id, origin, destination, pickup_date,
		cargo_details, reference, container_number, expiration_date, return_place,
		semi, notes, status, driver_acknowledged, amount, version,
		created_at, updated_at, deleted_at`

// Columns the list endpoint may sort on.
var sortableColumns = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"pickup_date": true,
	"status":      true,
	"origin":      true,
	"destination": true,
}

type TripRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

func NewTripRepository(cfg *models.Config, db *sqlx.DB) *TripRepo {
	return &TripRepo{
		cfg: cfg,
		db:  db,
	}
}

// CreateTrip inserts a new trip
func (r *TripRepo) CreateTrip(ctx context.Context, trip *models.Trip) error {
	query := `
		INSERT INTO trips (
			id, client_id, driver_id, origin, destination, pickup_date,
			cargo_details, reference, container_number, expiration_date, return_place,
			semi, notes, status, driver_acknowledged, amount, version,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		trip.ID,
		trip.ClientID,
		trip.DriverID,
		trip.Origin,
		trip.Destination,
		trip.PickupDate,
		trip.CargoDetails,
		trip.Reference,
		trip.ContainerNumber,
		trip.ExpirationDate,
		trip.ReturnPlace,
		trip.Semi,
		trip.Notes,
		trip.Status,
		trip.DriverAcknowledged,
		trip.Amount,
		trip.Version,
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	return errs.Store("create trip", err)
}

// GetTripByID retrieves a trip by ID, ignoring soft-deleted rows
func (r *TripRepo) GetTripByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	query := fmt.Sprintf(`SELECT %s FROM trips WHERE id = $1 AND deleted_at IS NULL`, tripColumns)

	var trip models.Trip
	err := r.db.GetContext(ctx, &trip, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrTripNotFound
	}
	if err != nil {
		return nil, errs.Store("get trip", err)
	}
	return &trip, nil
}

// ListTrips retrieves trips matching the filter, newest first unless a
// sort override is given
func (r *TripRepo) ListTrips(ctx context.Context, filter models.TripListFilter) ([]*models.Trip, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []interface{}{}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if filter.DriverID != nil {
		args = append(args, *filter.DriverID)
		conditions = append(conditions, fmt.Sprintf("driver_id = $%d", len(args)))
	}

	sortBy := "created_at"
	if sortableColumns[filter.SortBy] {
		sortBy = filter.SortBy
	}
	sortDir := "DESC"
	if strings.EqualFold(filter.SortDir, "asc") {
		sortDir = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM trips WHERE %s ORDER BY %s %s`,
		tripColumns, strings.Join(conditions, " AND "), sortBy, sortDir)

	trips := []*models.Trip{}
	if err := r.db.SelectContext(ctx, &trips, query, args...); err != nil {
		return nil, errs.Store("list trips", err)
	}
	return trips, nil
}

// UpdateTripAtomic applies a patch under the optimistic version guard.
// The trip update and the history insert share one transaction so an
// audit entry never exists without its update, and vice versa.
func (r *TripRepo) UpdateTripAtomic(ctx context.Context, id uuid.UUID, expectedVersion int, patch models.TripPatch, history *models.TripHistory) (*models.Trip, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errs.Store("begin update trip", err)
	}
	defer tx.Rollback()

	sets := []string{"version = version + 1", "updated_at = now()"}
	args := []interface{}{}
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.ClearDriver {
		sets = append(sets, "driver_id = NULL")
	} else if patch.DriverID != nil {
		set("driver_id", *patch.DriverID)
	}
	if patch.ClientID != nil {
		set("client_id", *patch.ClientID)
	}
	if patch.Origin != nil {
		set("origin", *patch.Origin)
	}
	if patch.Destination != nil {
		set("destination", *patch.Destination)
	}
	if patch.PickupDate != nil {
		set("pickup_date", *patch.PickupDate)
	}
	if patch.CargoDetails != nil {
		set("cargo_details", *patch.CargoDetails)
	}
	if patch.Reference != nil {
		set("reference", *patch.Reference)
	}
	if patch.ClearContainer {
		sets = append(sets, "container_number = NULL", "expiration_date = NULL", "return_place = NULL")
	} else {
		if patch.ContainerNumber != nil {
			set("container_number", *patch.ContainerNumber)
		}
		if patch.ExpirationDate != nil {
			set("expiration_date", *patch.ExpirationDate)
		}
		if patch.ReturnPlace != nil {
			set("return_place", *patch.ReturnPlace)
		}
	}
	if patch.Semi != nil {
		set("semi", *patch.Semi)
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.DriverAcknowledged != nil {
		set("driver_acknowledged", *patch.DriverAcknowledged)
	}
	if patch.Amount != nil {
		set("amount", *patch.Amount)
	}

	args = append(args, id)
	idPos := len(args)
	args = append(args, expectedVersion)
	versionPos := len(args)

	query := fmt.Sprintf(`UPDATE trips SET %s WHERE id = $%d AND version = $%d AND deleted_at IS NULL RETURNING %s`,
		strings.Join(sets, ", "), idPos, versionPos, tripColumns)

	var trip models.Trip
	err = tx.QueryRowxContext(ctx, query, args...).StructScan(&trip)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.resolveUpdateMiss(ctx, tx, id)
	}
	if err != nil {
		return nil, errs.Store("update trip", err)
	}

	if history != nil {
		if err := insertHistory(ctx, tx, history); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errs.Store("commit update trip", err)
	}
	return &trip, nil
}

// resolveUpdateMiss distinguishes a stale version from a missing or
// soft-deleted trip after a zero-row update.
func (r *TripRepo) resolveUpdateMiss(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	var exists bool
	err := tx.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1 AND deleted_at IS NULL)`, id)
	if err != nil {
		return errs.Store("check trip existence", err)
	}
	if exists {
		return errs.ErrConcurrentModification
	}
	return errs.ErrTripNotFound
}

func insertHistory(ctx context.Context, tx *sqlx.Tx, history *models.TripHistory) error {
	changedFields, err := json.Marshal(history.ChangedFields)
	if err != nil {
		return errs.Store("marshal history fields", err)
	}

	query := `
		INSERT INTO trip_histories (id, trip_id, editor_id, details, changed_fields, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`
	_, err = tx.ExecContext(ctx, query, history.ID, history.TripID, history.EditorID, history.Details, changedFields)
	return errs.Store("insert trip history", err)
}

// SoftDeleteTrip marks the trip deleted, keeping the audit trail
func (r *TripRepo) SoftDeleteTrip(ctx context.Context, id uuid.UUID, expectedVersion int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE trips SET deleted_at = now(), version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $2 AND deleted_at IS NULL`,
		id, expectedVersion)
	if err != nil {
		return errs.Store("delete trip", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errs.Store("delete trip", err)
	}
	if rows == 0 {
		var exists bool
		err := r.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1 AND deleted_at IS NULL)`, id)
		if err != nil {
			return errs.Store("check trip existence", err)
		}
		if exists {
			return errs.ErrConcurrentModification
		}
		return errs.ErrTripNotFound
	}
	return nil
}

// GetTripHistory returns audit entries for a trip in append order
func (r *TripRepo) GetTripHistory(ctx context.Context, tripID uuid.UUID) ([]*models.TripHistory, error) {
	query := `
		SELECT id, trip_id, editor_id, details, changed_fields, created_at
		FROM trip_histories
		WHERE trip_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryxContext(ctx, query, tripID)
	if err != nil {
		return nil, errs.Store("get trip history", err)
	}
	defer rows.Close()

	entries := []*models.TripHistory{}
	for rows.Next() {
		var entry models.TripHistory
		var changedFields []byte
		if err := rows.Scan(&entry.ID, &entry.TripID, &entry.EditorID, &entry.Details, &changedFields, &entry.CreatedAt); err != nil {
			return nil, errs.Store("scan trip history", err)
		}
		if len(changedFields) > 0 {
			if err := json.Unmarshal(changedFields, &entry.ChangedFields); err != nil {
				return nil, errs.Store("decode trip history", err)
			}
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store("get trip history", err)
	}
	return entries, nil
}

// GetUserByID resolves a referenced party (trip owner or driver)
func (r *TripRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, role, first_name, last_name, phone,
			created_at, updated_at, deleted_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrUserNotFound
	}
	if err != nil {
		return nil, errs.Store("get user", err)
	}
	return &user, nil
}
