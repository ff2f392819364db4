package service

// Broadcaster is the interface to the external real-time transport
// (avoids an import cycle with the ws package). Failures behind it are the
// transport's own problem; callers never roll back on a failed broadcast.
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgType string, payload interface{})
	BroadcastToAll(msgType string, payload interface{})
}
