package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TripStatus represents the current status of a trip
type TripStatus string

const (
	TripStatusPending    TripStatus = "PENDING"
	TripStatusConfirmed  TripStatus = "CONFIRMED"
	TripStatusInProgress TripStatus = "IN_PROGRESS"
	TripStatusUnloaded   TripStatus = "UNLOADED"
	TripStatusReturned   TripStatus = "RETURNED"
	TripStatusInvoiced   TripStatus = "INVOICED"
	TripStatusCancelled  TripStatus = "CANCELLED"
)

// Terminal reports whether the lifecycle has ended for driver-side
// progress. Cancellation has its own rule: anything not already
// CANCELLED can still be cancelled.
func (s TripStatus) Terminal() bool {
	return s == TripStatusCancelled || s == TripStatusInvoiced
}

// Trip represents a freight transport request
type Trip struct {
	ID                 uuid.UUID        `json:"id" db:"id"`
	ClientID           uuid.UUID        `json:"client_id" db:"client_id"`
	DriverID           *uuid.UUID       `json:"driver_id,omitempty" db:"driver_id"`
	Origin             string           `json:"origin" db:"origin"`
	Destination        string           `json:"destination" db:"destination"`
	PickupDate         *time.Time       `json:"pickup_date,omitempty" db:"pickup_date"`
	CargoDetails       string           `json:"cargo_details" db:"cargo_details"`
	Reference          string           `json:"reference" db:"reference"`
	ContainerNumber    *string          `json:"container_number,omitempty" db:"container_number"`
	ExpirationDate     *time.Time       `json:"expiration_date,omitempty" db:"expiration_date"`
	ReturnPlace        *string          `json:"return_place,omitempty" db:"return_place"`
	Semi               string           `json:"semi" db:"semi"`
	Notes              string           `json:"notes" db:"notes"`
	Status             TripStatus       `json:"status" db:"status"`
	DriverAcknowledged bool             `json:"driver_acknowledged" db:"driver_acknowledged"`
	Amount             *decimal.Decimal `json:"amount,omitempty" db:"amount"`
	Version            int              `json:"version" db:"version"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
	DeletedAt          *time.Time       `json:"deleted_at,omitempty" db:"deleted_at"`
}

// HasContainer reports whether the trip carries a container and is
// therefore subject to the RETURNED leg before invoicing.
func (t *Trip) HasContainer() bool {
	return t.ContainerNumber != nil && *t.ContainerNumber != ""
}

// IsDriver reports whether the given user is the assigned driver.
func (t *Trip) IsDriver(userID uuid.UUID) bool {
	return t.DriverID != nil && *t.DriverID == userID
}

// FieldChange records a single tracked field delta in an audit entry.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// TripHistory is an immutable audit entry for a content edit.
type TripHistory struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	TripID        uuid.UUID     `json:"trip_id" db:"trip_id"`
	EditorID      uuid.UUID     `json:"editor_id" db:"editor_id"`
	Details       string        `json:"details" db:"details"`
	ChangedFields []FieldChange `json:"changed_fields" db:"-"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// TripCreateRequest is the payload for creating a trip.
type TripCreateRequest struct {
	Origin          string     `json:"origin"`
	Destination     string     `json:"destination"`
	PickupDate      *time.Time `json:"pickup_date"`
	CargoDetails    string     `json:"cargo_details"`
	Reference       string     `json:"reference"`
	ContainerNumber *string    `json:"container_number"`
	ExpirationDate  *time.Time `json:"expiration_date"`
	ReturnPlace     *string    `json:"return_place"`
	Semi            string     `json:"semi"`
	Notes           string     `json:"notes"`
	TargetClientID  *uuid.UUID `json:"target_client_id"`
}

// TripEditRequest carries content-field edits. Only non-nil fields are
// considered; a field equal to its stored value produces no change.
type TripEditRequest struct {
	Origin          *string    `json:"origin"`
	Destination     *string    `json:"destination"`
	PickupDate      *time.Time `json:"pickup_date"`
	CargoDetails    *string    `json:"cargo_details"`
	Reference       *string    `json:"reference"`
	ContainerNumber *string    `json:"container_number"`
	ExpirationDate  *time.Time `json:"expiration_date"`
	ReturnPlace     *string    `json:"return_place"`
	Semi            *string    `json:"semi"`
	Notes           *string    `json:"notes"`
	TargetClientID  *uuid.UUID `json:"target_client_id"`
}

// TripPatch is the set of columns an update writes. Nil fields keep
// their stored value. ClearContainer nulls all three container columns
// together so the joint presence rule survives the write. Repositories
// apply the patch together with the version guard.
type TripPatch struct {
	DriverID           *uuid.UUID
	ClearDriver        bool
	Origin             *string
	Destination        *string
	PickupDate         *time.Time
	CargoDetails       *string
	Reference          *string
	ContainerNumber    *string
	ExpirationDate     *time.Time
	ReturnPlace        *string
	ClearContainer     bool
	Semi               *string
	Notes              *string
	ClientID           *uuid.UUID
	Status             *TripStatus
	DriverAcknowledged *bool
	Amount             *decimal.Decimal
}

// TripListFilter narrows trip listings by role visibility and ordering.
type TripListFilter struct {
	ClientID *uuid.UUID
	DriverID *uuid.UUID
	SortBy   string
	SortDir  string
}
