package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fletero/fletero/internal/pkg/errs"
	"github.com/fletero/fletero/internal/pkg/models"
)

// Transition checks. Each check validates role and status precondition
// against an already-loaded trip without touching storage; the caller
// applies the resulting patch under the optimistic version guard, so a
// check passed against stale state still cannot produce a lost update.

// visibleTo reports whether the actor may read the trip at all.
func visibleTo(trip *models.Trip, actor models.Principal) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleClient:
		return trip.ClientID == actor.ID
	case models.RoleDriver:
		return trip.IsDriver(actor.ID)
	}
	return false
}

func checkView(trip *models.Trip, actor models.Principal) error {
	if !visibleTo(trip, actor) {
		return errs.Authorizationf("trip is not visible to this user")
	}
	return nil
}

func checkAssign(trip *models.Trip, actor models.Principal, driver *models.User) error {
	if actor.Role != models.RoleAdmin {
		return errs.Authorizationf("only administrators can assign drivers")
	}
	if driver.Role != models.RoleDriver {
		return errs.Validationf("user %s is not a driver", driver.ID)
	}
	if trip.Status != models.TripStatusPending {
		return &errs.InvalidTransitionError{
			Action: "assign",
			Status: string(trip.Status),
			Reason: "a driver can only be assigned while the trip is PENDING",
		}
	}
	return nil
}

func checkAcknowledge(trip *models.Trip, actor models.Principal) error {
	if actor.Role != models.RoleDriver || !trip.IsDriver(actor.ID) {
		return errs.Authorizationf("only the assigned driver can acknowledge the trip")
	}
	if trip.Status != models.TripStatusConfirmed {
		return &errs.InvalidTransitionError{
			Action: "acknowledge",
			Status: string(trip.Status),
			Reason: "acknowledgement is only accepted while the trip is CONFIRMED",
		}
	}
	return nil
}

// checkProgress covers the driver-side actions start, unload and
// return. action is the verb used in error messages.
func checkProgress(trip *models.Trip, actor models.Principal, action string) error {
	if actor.Role != models.RoleDriver || !trip.IsDriver(actor.ID) {
		return errs.Authorizationf("only the assigned driver can %s the trip", action)
	}
	if trip.Status.Terminal() {
		return &errs.InvalidTransitionError{Action: action, Status: string(trip.Status)}
	}
	return nil
}

func checkReturn(trip *models.Trip, actor models.Principal) error {
	if err := checkProgress(trip, actor, "return"); err != nil {
		return err
	}
	if !trip.HasContainer() {
		return &errs.InvalidTransitionError{
			Action: "return",
			Status: string(trip.Status),
			Reason: "trip has no container to return",
		}
	}
	return nil
}

func checkInvoice(trip *models.Trip, actor models.Principal, amount decimal.Decimal) error {
	if actor.Role != models.RoleAdmin {
		return errs.Authorizationf("only administrators can invoice trips")
	}
	if !amount.IsPositive() {
		return errs.Validationf("invoice amount must be a positive number")
	}
	if trip.HasContainer() {
		if trip.Status != models.TripStatusReturned {
			return &errs.InvalidTransitionError{
				Action: "invoice",
				Status: string(trip.Status),
				Reason: "container trips must be RETURNED before invoicing",
			}
		}
		return nil
	}
	if trip.Status != models.TripStatusUnloaded {
		return &errs.InvalidTransitionError{
			Action: "invoice",
			Status: string(trip.Status),
			Reason: "trip must be UNLOADED before invoicing",
		}
	}
	return nil
}

func checkCancel(trip *models.Trip, actor models.Principal) error {
	if !visibleTo(trip, actor) {
		return errs.Authorizationf("trip is not visible to this user")
	}
	if trip.Status == models.TripStatusCancelled {
		return &errs.InvalidTransitionError{
			Action: "cancel",
			Status: string(trip.Status),
			Reason: "trip is already cancelled",
		}
	}
	return nil
}

func checkEdit(trip *models.Trip, actor models.Principal) error {
	if !visibleTo(trip, actor) {
		return errs.Authorizationf("trip is not visible to this user")
	}
	if trip.Status == models.TripStatusCancelled {
		return &errs.InvalidTransitionError{
			Action: "edit",
			Status: string(trip.Status),
			Reason: "cancelled trips cannot be edited",
		}
	}
	return nil
}

// statusMessage builds the human-readable line carried by status
// change events.
func statusMessage(trip *models.Trip, status models.TripStatus) string {
	return fmt.Sprintf("Trip %s to %s is now %s", trip.Origin, trip.Destination, status)
}
