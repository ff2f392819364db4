package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgRoomDeactivated MessageType = "room-deactivated"
	MsgSeatsUpdated    MessageType = "seats-updated"
	MsgPkUpdated       MessageType = "pk-updated"
	MsgError           MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for rooms
type Hub struct {
	// roomID -> userID -> conn
	conns map[string]map[string]*Connection

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	RoomID string
	UserID string
	Send   chan []byte
	Hub    *Hub
}

// BroadcastMessage is a message to broadcast. An empty RoomID addresses
// every connected client.
type BroadcastMessage struct {
	RoomID  string
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.RoomID] == nil {
				h.conns[conn.RoomID] = make(map[string]*Connection)
			}
			h.conns[conn.RoomID][conn.UserID] = conn
			h.mu.Unlock()
			log.Info().Str("room", conn.RoomID).Str("user", conn.UserID).Msg("client connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if members, ok := h.conns[conn.RoomID]; ok {
				if existing, ok := members[conn.UserID]; ok && existing == conn {
					delete(members, conn.UserID)
					close(conn.Send)
					if len(members) == 0 {
						delete(h.conns, conn.RoomID)
					}
					log.Info().Str("room", conn.RoomID).Str("user", conn.UserID).Msg("client disconnected")
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			if msg.RoomID != "" {
				h.sendToRoom(msg.RoomID, data)
			} else {
				for roomID := range h.conns {
					h.sendToRoom(roomID, data)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// sendToRoom delivers to every member; caller holds at least a read lock.
func (h *Hub) sendToRoom(roomID string, data []byte) {
	for _, conn := range h.conns[roomID] {
		select {
		case conn.Send <- data:
		default:
			// drop when the client's buffer is full
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToRoom sends a message to every client in the room (implements
// service.Broadcaster).
func (h *Hub) BroadcastToRoom(roomID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		RoomID: roomID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToAll sends a message to every connected client (implements
// service.Broadcaster). Used for the room-deactivated notification.
func (h *Hub) BroadcastToAll(msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
