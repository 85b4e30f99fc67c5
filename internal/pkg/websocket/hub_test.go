package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fletero/fletero/internal/pkg/constants"
	"github.com/fletero/fletero/internal/pkg/models"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []models.WSMessage
	closed   bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, v.(models.WSMessage))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, m.Event)
	}
	return out
}

type fakePresence struct {
	mu      sync.Mutex
	online  map[uuid.UUID]int
	offline map[uuid.UUID]int
}

func newFakePresence() *fakePresence {
	return &fakePresence{online: make(map[uuid.UUID]int), offline: make(map[uuid.UUID]int)}
}

func (f *fakePresence) MarkOnline(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.online[userID]++
	return nil
}

func (f *fakePresence) MarkOffline(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline[userID]++
	return nil
}

func TestHubRoomMembership(t *testing.T) {
	hub := NewHub(models.JWTConfig{Secret: "test"}, nil)

	admin := NewSession(uuid.New(), models.RoleAdmin, &fakeConn{})
	driver := NewSession(uuid.New(), models.RoleDriver, &fakeConn{})
	client := NewSession(uuid.New(), models.RoleClient, &fakeConn{})

	hub.Register(admin)
	hub.Register(driver)
	hub.Register(client)

	assert.Equal(t, 1, hub.RoomSize(constants.RoomAdmin))
	assert.Equal(t, 1, hub.RoomSize(constants.RoomDriver))
	assert.Equal(t, 1, hub.RoomSize(constants.RoomUser(client.UserID)))
	assert.Equal(t, 3, hub.RoomSize(constants.RoomAll))

	hub.Unregister(driver)
	assert.Equal(t, 0, hub.RoomSize(constants.RoomDriver))
	assert.Equal(t, 2, hub.RoomSize(constants.RoomAll))
}

func TestHubPublishTargetsRoomOnly(t *testing.T) {
	hub := NewHub(models.JWTConfig{Secret: "test"}, nil)

	adminConn := &fakeConn{}
	clientConn := &fakeConn{}
	admin := NewSession(uuid.New(), models.RoleAdmin, adminConn)
	client := NewSession(uuid.New(), models.RoleClient, clientConn)
	hub.Register(admin)
	hub.Register(client)

	hub.Publish(constants.RoomAdmin, constants.EventNewTripRequest, map[string]string{"trip_id": "t1"})

	require.Len(t, adminConn.events(), 1)
	assert.Equal(t, constants.EventNewTripRequest, adminConn.events()[0])
	assert.Empty(t, clientConn.events())

	var data map[string]string
	require.NoError(t, json.Unmarshal(adminConn.messages[0].Data, &data))
	assert.Equal(t, "t1", data["trip_id"])
}

func TestHubPublishEmptyRoomIsNoOp(t *testing.T) {
	hub := NewHub(models.JWTConfig{Secret: "test"}, nil)

	assert.NotPanics(t, func() {
		hub.Publish(constants.RoomUser(uuid.New()), constants.EventTripStatus, nil)
	})
}

func TestHubTwoDevicesOnePrincipal(t *testing.T) {
	hub := NewHub(models.JWTConfig{Secret: "test"}, nil)

	userID := uuid.New()
	phone := &fakeConn{}
	laptop := &fakeConn{}
	first := NewSession(userID, models.RoleClient, phone)
	second := NewSession(userID, models.RoleClient, laptop)
	hub.Register(first)
	hub.Register(second)

	room := constants.RoomUser(userID)
	assert.Equal(t, 2, hub.RoomSize(room))

	hub.Publish(room, constants.EventTripStatus, map[string]string{"status": "CONFIRMED"})
	assert.Len(t, phone.events(), 1)
	assert.Len(t, laptop.events(), 1)
}

func TestHubBroadcastReachesEveryone(t *testing.T) {
	hub := NewHub(models.JWTConfig{Secret: "test"}, nil)

	conns := []*fakeConn{{}, {}, {}}
	hub.Register(NewSession(uuid.New(), models.RoleAdmin, conns[0]))
	hub.Register(NewSession(uuid.New(), models.RoleDriver, conns[1]))
	hub.Register(NewSession(uuid.New(), models.RoleClient, conns[2]))

	hub.Broadcast(constants.EventTripsChanged, nil)

	for _, conn := range conns {
		assert.Len(t, conn.events(), 1)
	}
}

func TestHubPresenceLifecycle(t *testing.T) {
	presence := newFakePresence()
	hub := NewHub(models.JWTConfig{Secret: "test"}, presence)

	userID := uuid.New()
	first := NewSession(userID, models.RoleDriver, &fakeConn{})
	second := NewSession(userID, models.RoleDriver, &fakeConn{})

	hub.Register(first)
	hub.Register(second)
	assert.Equal(t, 2, presence.online[userID])

	// Presence drops only when the last session of the user closes.
	hub.Unregister(first)
	assert.Equal(t, 0, presence.offline[userID])

	hub.Unregister(second)
	assert.Equal(t, 1, presence.offline[userID])
}
