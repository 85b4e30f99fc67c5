package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/fletero/fletero/internal/pkg/constants"
	jwtpkg "github.com/fletero/fletero/internal/pkg/jwt"
	"github.com/fletero/fletero/internal/pkg/logger"
	"github.com/fletero/fletero/internal/pkg/models"
)

// Conn is the write side of a live connection. *websocket.Conn
// satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Session is one live connection bound to an authenticated principal.
// A principal connected from two devices holds two independent
// sessions in the same personal room.
type Session struct {
	UserID uuid.UUID
	Role   models.Role

	conn Conn
	mu   sync.Mutex
}

// NewSession creates a session for an authenticated principal.
func NewSession(userID uuid.UUID, role models.Role, conn Conn) *Session {
	return &Session{UserID: userID, Role: role, conn: conn}
}

func (s *Session) send(event string, payload interface{}) error {
	if s.conn == nil {
		return nil
	}

	rawData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshaling message data: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(models.WSMessage{Event: event, Data: rawData})
}

// Presence mirrors session liveness to an external store. Best effort;
// hub operation never depends on it.
type Presence interface {
	MarkOnline(ctx context.Context, userID uuid.UUID) error
	MarkOffline(ctx context.Context, userID uuid.UUID) error
}

// Hub owns all live sessions and their room memberships, and delivers
// room-addressed events. Membership is fixed at registration: a
// personal room always, plus the shared role room for admins and
// drivers.
type Hub struct {
	sync.RWMutex
	cfg      models.JWTConfig
	upgrader websocket.Upgrader
	presence Presence

	sessions map[*Session]struct{}
	rooms    map[string]map[*Session]struct{}
}

// NewHub creates a hub. presence may be nil.
func NewHub(jwtConfig models.JWTConfig, presence Presence) *Hub {
	return &Hub{
		cfg:      jwtConfig,
		presence: presence,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sessions: make(map[*Session]struct{}),
		rooms:    make(map[string]map[*Session]struct{}),
	}
}

// HandleConnection authenticates the handshake, upgrades it and serves
// the session until disconnect. A missing or invalid credential
// terminates the connection immediately.
func (h *Hub) HandleConnection(c echo.Context) error {
	principal, err := h.authenticate(c)
	if err != nil {
		return err
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	session := NewSession(principal.ID, principal.Role, ws)
	h.Register(session)
	defer h.Unregister(session)

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error",
					logger.String("user_id", session.UserID.String()),
					logger.Err(err))
			}
			return nil
		}

		// Inbound frames carry no commands; a malformed one gets an
		// error reply so misbehaving clients can tell.
		var msg models.WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			_ = session.send(constants.EventError, models.WSErrorMessage{
				Code:    constants.ErrorInvalidFormat,
				Message: "invalid message format",
			})
		}
	}
}

// authenticate verifies the handshake credential from the
// Authorization header or the token query parameter.
func (h *Hub) authenticate(c echo.Context) (models.Principal, error) {
	token := c.QueryParam("token")
	if token == "" {
		authHeader := c.Request().Header.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		return models.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "credential is required")
	}

	claims, err := jwtpkg.ValidateToken(token, h.cfg.Secret)
	if err != nil {
		logger.Warn("WebSocket token validation failed", logger.Err(err))
		return models.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	return models.Principal{ID: claims.UserID, Role: claims.Role}, nil
}

// Register enrolls a session in its personal room and, for admins and
// drivers, the shared role room. Membership is immutable for the life
// of the connection.
func (h *Hub) Register(s *Session) {
	h.Lock()
	h.sessions[s] = struct{}{}
	h.join(s, constants.RoomUser(s.UserID))
	switch s.Role {
	case models.RoleAdmin:
		h.join(s, constants.RoomAdmin)
	case models.RoleDriver:
		h.join(s, constants.RoomDriver)
	}
	h.Unlock()

	if h.presence != nil {
		if err := h.presence.MarkOnline(context.Background(), s.UserID); err != nil {
			logger.Warn("Failed to mark user online",
				logger.String("user_id", s.UserID.String()),
				logger.Err(err))
		}
	}

	logger.Debug("Session registered",
		logger.String("user_id", s.UserID.String()),
		logger.String("role", string(s.Role)))
}

// Unregister removes a session from all rooms.
func (h *Hub) Unregister(s *Session) {
	h.Lock()
	delete(h.sessions, s)
	for room, members := range h.rooms {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	stillConnected := false
	for other := range h.sessions {
		if other.UserID == s.UserID {
			stillConnected = true
			break
		}
	}
	h.Unlock()

	// Only drop presence when the last session of the principal closed.
	if h.presence != nil && !stillConnected {
		if err := h.presence.MarkOffline(context.Background(), s.UserID); err != nil {
			logger.Warn("Failed to mark user offline",
				logger.String("user_id", s.UserID.String()),
				logger.Err(err))
		}
	}
}

// join adds s to a room. Caller holds the lock.
func (h *Hub) join(s *Session, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Session]struct{})
		h.rooms[room] = members
	}
	members[s] = struct{}{}
}

// Publish delivers an event to every session in a room. Room
// constants.RoomAll addresses all sessions. Delivery failures are
// logged and swallowed; an empty room is not an error.
func (h *Hub) Publish(room, event string, payload interface{}) {
	targets := h.snapshot(room)

	for _, s := range targets {
		if err := s.send(event, payload); err != nil {
			logger.Warn("Failed to deliver event",
				logger.String("room", room),
				logger.String("event", event),
				logger.String("user_id", s.UserID.String()),
				logger.Err(err))
		}
	}
}

// Broadcast delivers an event to every connected session.
func (h *Hub) Broadcast(event string, payload interface{}) {
	h.Publish(constants.RoomAll, event, payload)
}

func (h *Hub) snapshot(room string) []*Session {
	h.RLock()
	defer h.RUnlock()

	if room == constants.RoomAll {
		targets := make([]*Session, 0, len(h.sessions))
		for s := range h.sessions {
			targets = append(targets, s)
		}
		return targets
	}

	members := h.rooms[room]
	targets := make([]*Session, 0, len(members))
	for s := range members {
		targets = append(targets, s)
	}
	return targets
}

// RoomSize returns the number of sessions in a room.
func (h *Hub) RoomSize(room string) int {
	h.RLock()
	defer h.RUnlock()
	if room == constants.RoomAll {
		return len(h.sessions)
	}
	return len(h.rooms[room])
}
