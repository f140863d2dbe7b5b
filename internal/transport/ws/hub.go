package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"singularshift/internal/service"
)

// Message is the WebSocket envelope format for outbound frames
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections per interview session
type Hub struct {
	conns map[string]map[*Connection]struct{} // sessionID -> connections
	mu    sync.RWMutex

	unregister chan *Connection
	done       chan struct{}

	logger *zap.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string
	UserID    string
	Send      chan []byte
	Hub       *Hub
}

// NewHub creates a new WebSocket hub
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		unregister: make(chan *Connection),
		done:       make(chan struct{}),
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(conn)
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for _, set := range h.conns {
				for conn := range set {
					h.removeLocked(conn)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) removeLocked(conn *Connection) {
	set, ok := h.conns[conn.SessionID]
	if !ok {
		return
	}
	if _, ok := set[conn]; !ok {
		return
	}
	delete(set, conn)
	close(conn.Send)
	if len(set) == 0 {
		delete(h.conns, conn.SessionID)
	}
	h.logger.Debug("client disconnected", zap.String("sessionId", conn.SessionID))
}

// Register adds a connection. It is visible to Broadcast on return.
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	if h.conns[conn.SessionID] == nil {
		h.conns[conn.SessionID] = make(map[*Connection]struct{})
	}
	h.conns[conn.SessionID][conn] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("client connected", zap.String("sessionId", conn.SessionID), zap.String("userId", conn.UserID))
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Close disconnects every client and stops the hub
func (h *Hub) Close() {
	close(h.done)
}

// Connected returns the number of clients watching sessionID
func (h *Hub) Connected(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[sessionID])
}

// Broadcast sends a frame to every client of sessionID (implements service.Broadcaster).
// Slow clients drop frames rather than block the session.
func (h *Hub) Broadcast(sessionID string, msgType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(&Message{Type: msgType, Payload: data})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.conns[sessionID]
	if len(set) == 0 {
		return service.ErrNoListener
	}
	for conn := range set {
		select {
		case conn.Send <- frame:
		default:
			h.logger.Warn("dropping frame for slow client",
				zap.String("sessionId", sessionID),
				zap.String("type", msgType))
		}
	}
	return nil
}

// DisconnectSession closes every client of sessionID (implements service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.conns[sessionID]))
	for conn := range h.conns[sessionID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		h.Unregister(conn)
	}
}
