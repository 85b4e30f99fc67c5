package constants

import "github.com/google/uuid"

// Room names. A session always joins its personal room; admins and
// drivers additionally join their shared role room.
const (
	RoomAdmin  = "role_admin"
	RoomDriver = "role_driver"

	// RoomAll addresses every connected session.
	RoomAll = "*"
)

// RoomUser returns the personal room name for a principal.
func RoomUser(id uuid.UUID) string {
	return "user_" + id.String()
}
