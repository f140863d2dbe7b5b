package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"singularshift/internal/model"
	"singularshift/internal/service"
	"singularshift/internal/session"
	"singularshift/internal/voice"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	actionTimeout  = 15 * time.Second
)

// UI actions accepted alongside voice SDK events
const (
	ActionStart      voice.EventType = "start"
	ActionDisconnect voice.EventType = "disconnect"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// TokenValidator resolves a session token to its claims
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*model.SessionClaims, error)
}

// Sessions looks up live interview sessions
type Sessions interface {
	Get(id string) *session.Orchestrator
	Release(id string) bool
}

// Handler handles WebSocket connections
type Handler struct {
	hub        *Hub
	auth       TokenValidator
	sessions   Sessions
	cookieName string
	logger     *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, auth TokenValidator, sessions Sessions, cookieName string, logger *zap.Logger) *Handler {
	return &Handler{
		hub:        hub,
		auth:       auth,
		sessions:   sessions,
		cookieName: cookieName,
		logger:     logger,
	}
}

func (h *Handler) token(r *http.Request) string {
	if c, err := r.Cookie(h.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("token")
}

// SessionWS handles GET /api/sessions/{id}/ws
func (h *Handler) SessionWS(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	token := h.token(r)
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := h.auth.ValidateToken(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	o := h.sessions.Get(id)
	if o == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if o.Participant().UserID != claims.UserID {
		http.Error(w, "session belongs to another user", http.StatusForbidden)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := &Connection{
		SessionID: id,
		UserID:    claims.UserID,
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}
	h.hub.Register(conn)
	_ = h.hub.Broadcast(id, service.FrameState, o.Status())

	go h.writePump(wsConn, conn)
	h.readPump(wsConn, conn, o)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection, o *session.Orchestrator) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
		h.hangUp(o)
		if h.sessions.Release(o.ID()) {
			h.logger.Debug("released session", zap.String("sessionId", o.ID()))
		}
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket error", zap.String("sessionId", conn.SessionID), zap.Error(err))
			}
			return
		}
		wsConn.SetReadDeadline(time.Now().Add(pongWait))

		var ev voice.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			h.logger.Debug("ignoring malformed frame", zap.String("sessionId", conn.SessionID), zap.Error(err))
			continue
		}
		h.dispatch(o, ev)
	}
}

func (h *Handler) dispatch(o *session.Orchestrator, ev voice.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	switch ev.Type {
	case ActionStart:
		if err := o.Start(ctx); err != nil && errors.Is(err, session.ErrBusy) {
			h.logger.Debug("start ignored, session busy", zap.String("sessionId", o.ID()))
		}
	case ActionDisconnect:
		_ = o.Disconnect(ctx)
	default:
		o.HandleEvent(ctx, ev)
	}
}

// hangUp ends a call left running when its socket went away
func (h *Handler) hangUp(o *session.Orchestrator) {
	switch o.State() {
	case model.StateConnecting, model.StateActive:
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		_ = o.Disconnect(ctx)
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
