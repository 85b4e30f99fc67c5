package constants

// Redis keys
const (
	// KeyOnlineUsers is a set of principal ids with at least one live
	// WebSocket session. Best-effort presence, not authoritative.
	KeyOnlineUsers = "presence:online"
)
