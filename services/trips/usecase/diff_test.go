package usecase

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fletero/fletero/internal/pkg/models"
)

func TestComputeEditDeltaIgnoresIdenticalValues(t *testing.T) {
	trip := &models.Trip{
		ID:          uuid.New(),
		ClientID:    uuid.New(),
		Origin:      "Rosario",
		Destination: "Buenos Aires",
		Semi:        "T-100",
		Notes:       "fragile",
	}

	req := &models.TripEditRequest{
		Origin:      strPtr("Rosario"),
		Destination: strPtr("Buenos Aires"),
		Notes:       strPtr("fragile"),
	}

	patch, changes := computeEditDelta(trip, req)
	assert.Empty(t, changes)
	assert.Nil(t, patch.Origin)
	assert.Nil(t, patch.Destination)
	assert.Nil(t, patch.Notes)
}

func TestComputeEditDeltaRecordsOldAndNew(t *testing.T) {
	trip := &models.Trip{
		ID:          uuid.New(),
		ClientID:    uuid.New(),
		Origin:      "Rosario",
		Destination: "Buenos Aires",
		Semi:        "T-100",
	}

	req := &models.TripEditRequest{
		Origin: strPtr("Cordoba"),
		Semi:   strPtr("T-200"),
	}

	patch, changes := computeEditDelta(trip, req)
	require.Len(t, changes, 2)

	assert.Equal(t, "origin", changes[0].Field)
	assert.Equal(t, "Rosario", changes[0].OldValue)
	assert.Equal(t, "Cordoba", changes[0].NewValue)
	assert.Equal(t, "semi", changes[1].Field)

	require.NotNil(t, patch.Origin)
	assert.Equal(t, "Cordoba", *patch.Origin)
	require.NotNil(t, patch.Semi)
	assert.Nil(t, patch.Destination)
}

func TestComputeEditDeltaTimeComparisonIsValueBased(t *testing.T) {
	pickup := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	trip := &models.Trip{ID: uuid.New(), PickupDate: &pickup}

	// Same instant expressed in a different zone is not a change.
	buenosAires := time.FixedZone("ART", -3*3600)
	same := pickup.In(buenosAires)
	_, changes := computeEditDelta(trip, &models.TripEditRequest{PickupDate: &same})
	assert.Empty(t, changes)

	later := pickup.Add(2 * time.Hour)
	_, changes = computeEditDelta(trip, &models.TripEditRequest{PickupDate: &later})
	require.Len(t, changes, 1)
	assert.Equal(t, "pickup_date", changes[0].Field)
}

func TestComputeEditDeltaOwnerChange(t *testing.T) {
	oldOwner := uuid.New()
	newOwner := uuid.New()
	trip := &models.Trip{ID: uuid.New(), ClientID: oldOwner}

	_, changes := computeEditDelta(trip, &models.TripEditRequest{TargetClientID: &oldOwner})
	assert.Empty(t, changes)

	patch, changes := computeEditDelta(trip, &models.TripEditRequest{TargetClientID: &newOwner})
	require.Len(t, changes, 1)
	assert.Equal(t, "client_id", changes[0].Field)
	assert.Equal(t, oldOwner.String(), changes[0].OldValue)
	assert.Equal(t, newOwner.String(), changes[0].NewValue)
	require.NotNil(t, patch.ClientID)
}

func TestComputeEditDeltaContainerClear(t *testing.T) {
	expiration := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	trip := &models.Trip{
		ID:              uuid.New(),
		ContainerNumber: strPtr("MSKU-12345"),
		ExpirationDate:  &expiration,
		ReturnPlace:     strPtr("Terminal 4"),
	}

	patch, changes := computeEditDelta(trip, &models.TripEditRequest{ContainerNumber: strPtr("")})
	assert.True(t, patch.ClearContainer)
	require.Len(t, changes, 3)
	assert.Equal(t, "container_number", changes[0].Field)
	assert.Equal(t, "MSKU-12345", changes[0].OldValue)
	assert.Equal(t, "", changes[0].NewValue)

	// A trip without a container has nothing to clear.
	empty := &models.Trip{ID: uuid.New()}
	patch, changes = computeEditDelta(empty, &models.TripEditRequest{ContainerNumber: strPtr("")})
	assert.False(t, patch.ClearContainer)
	assert.Empty(t, changes)
}

func TestEditSummary(t *testing.T) {
	changes := []models.FieldChange{
		{Field: "origin"},
		{Field: "notes"},
	}
	assert.Equal(t, "updated origin, notes", editSummary(changes))
	assert.Equal(t, []string{"origin", "notes"}, changedFieldNames(changes))
}
