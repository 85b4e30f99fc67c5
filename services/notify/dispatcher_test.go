package notify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fletero/fletero/internal/pkg/constants"
	"github.com/fletero/fletero/internal/pkg/models"
)

func makeEvent(action models.TripAction, clientID uuid.UUID, driverID *uuid.UUID, actorID uuid.UUID) *models.TripEvent {
	return &models.TripEvent{
		Action:  action,
		ActorID: actorID,
		Trip: models.Trip{
			ID:       uuid.New(),
			ClientID: clientID,
			DriverID: driverID,
			Origin:   "Rosario",
		},
	}
}

// rooms returns the targeted room/event pairs, excluding the coarse
// refresh broadcast every action carries.
func targeted(notifications []models.Notification) map[string]string {
	out := make(map[string]string)
	for _, n := range notifications {
		if n.Event == constants.EventTripsChanged {
			continue
		}
		out[n.Room] = n.Event
	}
	return out
}

func lastIsRefreshBroadcast(t *testing.T, notifications []models.Notification) {
	t.Helper()
	require.NotEmpty(t, notifications)
	last := notifications[len(notifications)-1]
	assert.Equal(t, constants.RoomAll, last.Room)
	assert.Equal(t, constants.EventTripsChanged, last.Event)
}

func TestDispatchCreatedByClient(t *testing.T) {
	d := NewDispatcher(models.NotifyConfig{})
	clientID := uuid.New()

	// Self-created: only admins get the targeted event.
	got := d.Dispatch(makeEvent(models.TripActionCreated, clientID, nil, clientID))
	assert.Equal(t, map[string]string{
		constants.RoomAdmin: constants.EventNewTripRequest,
	}, targeted(got))
	lastIsRefreshBroadcast(t, got)
}

func TestDispatchCreatedByAdminForClient(t *testing.T) {
	d := NewDispatcher(models.NotifyConfig{})
	clientID := uuid.New()
	adminID := uuid.New()

	got := d.Dispatch(makeEvent(models.TripActionCreated, clientID, nil, adminID))
	assert.Equal(t, map[string]string{
		constants.RoomAdmin:          constants.EventNewTripRequest,
		constants.RoomUser(clientID): constants.EventTripStatus,
	}, targeted(got))
}

func TestDispatchAssignedTargetsDriverOnly(t *testing.T) {
	d := NewDispatcher(models.NotifyConfig{})
	clientID := uuid.New()
	driverID := uuid.New()

	got := d.Dispatch(makeEvent(models.TripActionAssigned, clientID, &driverID, uuid.New()))
	assert.Equal(t, map[string]string{
		constants.RoomUser(driverID): constants.EventTripOffer,
	}, targeted(got))
}

func TestDispatchAcknowledged(t *testing.T) {
	d := NewDispatcher(models.NotifyConfig{})
	clientID := uuid.New()
	driverID := uuid.New()

	got := d.Dispatch(makeEvent(models.TripActionAcknowledged, clientID, &driverID, driverID))
	assert.Equal(t, map[string]string{
		constants.RoomAdmin:          constants.EventDriverAcknowledged,
		constants.RoomUser(clientID): constants.EventDriverAcknowledged,
	}, targeted(got))
}

func TestDispatchProgressActions(t *testing.T) {
	d := NewDispatcher(models.NotifyConfig{})
	clientID := uuid.New()
	driverID := uuid.New()

	for _, action := range []models.TripAction{
		models.TripActionStarted,
		models.TripActionUnloaded,
		models.TripActionReturned,
	} {
		got := d.Dispatch(makeEvent(action, clientID, &driverID, driverID))
		assert.Equal(t, map[string]string{
			constants.RoomAdmin:          constants.EventTripStatus,
			constants.RoomUser(clientID): constants.EventTripStatus,
		}, targeted(got), "action %s", action)
		lastIsRefreshBroadcast(t, got)
	}
}

func TestDispatchInvoicedClientPolicyFlag(t *testing.T) {
	clientID := uuid.New()
	driverID := uuid.New()
	event := makeEvent(models.TripActionInvoiced, clientID, &driverID, uuid.New())

	// Default policy keeps the client out of the loop.
	got := NewDispatcher(models.NotifyConfig{}).Dispatch(event)
	assert.Equal(t, map[string]string{
		constants.RoomAdmin: constants.EventTripInvoiced,
	}, targeted(got))

	got = NewDispatcher(models.NotifyConfig{ClientOnInvoice: true}).Dispatch(event)
	assert.Equal(t, map[string]string{
		constants.RoomAdmin:          constants.EventTripInvoiced,
		constants.RoomUser(clientID): constants.EventTripInvoiced,
	}, targeted(got))
}

func TestDispatchCancelledBroadcasts(t *testing.T) {
	d := NewDispatcher(models.NotifyConfig{})

	got := d.Dispatch(makeEvent(models.TripActionCancelled, uuid.New(), nil, uuid.New()))
	assert.Equal(t, map[string]string{
		constants.RoomAll: constants.EventTripCancelled,
	}, targeted(got))
}

func TestDispatchUpdatedTargetsBoundPartiesOnly(t *testing.T) {
	d := NewDispatcher(models.NotifyConfig{})
	clientID := uuid.New()
	driverID := uuid.New()

	// No driver bound yet.
	got := d.Dispatch(makeEvent(models.TripActionUpdated, clientID, nil, clientID))
	assert.Equal(t, map[string]string{
		constants.RoomAdmin:          constants.EventTripUpdated,
		constants.RoomUser(clientID): constants.EventTripUpdated,
	}, targeted(got))

	got = d.Dispatch(makeEvent(models.TripActionUpdated, clientID, &driverID, clientID))
	assert.Equal(t, map[string]string{
		constants.RoomAdmin:          constants.EventTripUpdated,
		constants.RoomUser(clientID): constants.EventTripUpdated,
		constants.RoomUser(driverID): constants.EventTripUpdated,
	}, targeted(got))
}

func TestDispatchDeletedOnlyRefreshes(t *testing.T) {
	d := NewDispatcher(models.NotifyConfig{})

	got := d.Dispatch(makeEvent(models.TripActionDeleted, uuid.New(), nil, uuid.New()))
	assert.Empty(t, targeted(got))
	lastIsRefreshBroadcast(t, got)
}

// The full lifecycle of the container-less scenario: each of the six
// transitions produces one targeted burst plus one refresh broadcast.
func TestDispatchScenarioCounts(t *testing.T) {
	d := NewDispatcher(models.NotifyConfig{})
	clientID := uuid.New()
	driverID := uuid.New()
	adminID := uuid.New()

	events := []*models.TripEvent{
		makeEvent(models.TripActionCreated, clientID, nil, clientID),
		makeEvent(models.TripActionAssigned, clientID, &driverID, adminID),
		makeEvent(models.TripActionAcknowledged, clientID, &driverID, driverID),
		makeEvent(models.TripActionStarted, clientID, &driverID, driverID),
		makeEvent(models.TripActionUnloaded, clientID, &driverID, driverID),
		makeEvent(models.TripActionInvoiced, clientID, &driverID, adminID),
	}

	var bursts, refreshes int
	for _, event := range events {
		notifications := d.Dispatch(event)
		hadTargeted := false
		for _, n := range notifications {
			if n.Event == constants.EventTripsChanged {
				refreshes++
			} else {
				hadTargeted = true
			}
		}
		if hadTargeted {
			bursts++
		}
	}

	assert.Equal(t, 6, bursts)
	assert.Equal(t, 6, refreshes)
}
