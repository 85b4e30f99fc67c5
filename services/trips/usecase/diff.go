package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fletero/fletero/internal/pkg/models"
)

// Audit delta over the tracked content fields. Comparison is done on a
// canonical string form of each value, so a value arriving under a
// different primitive type counts as unchanged unless the value itself
// differs.

func canonString(s string) string { return s }

func canonStringPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func canonTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func canonUUID(id uuid.UUID) string { return id.String() }

// computeEditDelta walks the tracked fields present in the request and
// returns the patch to apply plus one FieldChange per field whose
// canonical value differs from storage. An empty result means the edit
// is a no-op.
func computeEditDelta(trip *models.Trip, req *models.TripEditRequest) (models.TripPatch, []models.FieldChange) {
	var patch models.TripPatch
	var changes []models.FieldChange

	record := func(field, oldVal, newVal string, apply func()) {
		if oldVal == newVal {
			return
		}
		apply()
		changes = append(changes, models.FieldChange{Field: field, OldValue: oldVal, NewValue: newVal})
	}

	if req.Origin != nil {
		record("origin", canonString(trip.Origin), *req.Origin, func() { patch.Origin = req.Origin })
	}
	if req.Destination != nil {
		record("destination", canonString(trip.Destination), *req.Destination, func() { patch.Destination = req.Destination })
	}
	if req.PickupDate != nil {
		record("pickup_date", canonTimePtr(trip.PickupDate), canonTimePtr(req.PickupDate), func() { patch.PickupDate = req.PickupDate })
	}
	if req.CargoDetails != nil {
		record("cargo_details", canonString(trip.CargoDetails), *req.CargoDetails, func() { patch.CargoDetails = req.CargoDetails })
	}
	if req.Reference != nil {
		record("reference", canonString(trip.Reference), *req.Reference, func() { patch.Reference = req.Reference })
	}
	if isContainerClear(req) {
		// Clearing the container drops all three columns in one write so
		// the joint presence rule cannot be violated halfway.
		clearAll := func() { patch.ClearContainer = true }
		record("container_number", canonStringPtr(trip.ContainerNumber), "", clearAll)
		record("expiration_date", canonTimePtr(trip.ExpirationDate), "", clearAll)
		record("return_place", canonStringPtr(trip.ReturnPlace), "", clearAll)
	} else {
		if req.ContainerNumber != nil {
			record("container_number", canonStringPtr(trip.ContainerNumber), *req.ContainerNumber, func() { patch.ContainerNumber = req.ContainerNumber })
		}
		if req.ExpirationDate != nil {
			record("expiration_date", canonTimePtr(trip.ExpirationDate), canonTimePtr(req.ExpirationDate), func() { patch.ExpirationDate = req.ExpirationDate })
		}
		if req.ReturnPlace != nil {
			record("return_place", canonStringPtr(trip.ReturnPlace), *req.ReturnPlace, func() { patch.ReturnPlace = req.ReturnPlace })
		}
	}
	if req.Semi != nil {
		record("semi", canonString(trip.Semi), *req.Semi, func() { patch.Semi = req.Semi })
	}
	if req.Notes != nil {
		record("notes", canonString(trip.Notes), *req.Notes, func() { patch.Notes = req.Notes })
	}
	if req.TargetClientID != nil {
		record("client_id", canonUUID(trip.ClientID), canonUUID(*req.TargetClientID), func() { patch.ClientID = req.TargetClientID })
	}

	return patch, changes
}

// editSummary builds the human-readable line stored with an audit
// entry, e.g. "updated origin, destination".
func editSummary(changes []models.FieldChange) string {
	fields := make([]string, 0, len(changes))
	for _, ch := range changes {
		fields = append(fields, ch.Field)
	}
	return fmt.Sprintf("updated %s", strings.Join(fields, ", "))
}

// changedFieldNames flattens a delta into the field name list carried
// by trip events.
func changedFieldNames(changes []models.FieldChange) []string {
	names := make([]string, 0, len(changes))
	for _, ch := range changes {
		names = append(names, ch.Field)
	}
	return names
}
