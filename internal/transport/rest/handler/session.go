package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"singularshift/internal/cache"
	"singularshift/internal/service"
	"singularshift/internal/session"
	"singularshift/internal/transport/rest/middleware"
	"singularshift/internal/voice"
)

// SessionHandler drives live interview sessions
type SessionHandler struct {
	manager  *session.Manager
	statuses cache.SessionCache
	authSvc  *service.AuthService
	logger   *zap.Logger
}

// NewSessionHandler creates a session handler. statuses may be nil, in which
// case only sessions live on this instance can be polled.
func NewSessionHandler(manager *session.Manager, statuses cache.SessionCache, authSvc *service.AuthService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{manager: manager, statuses: statuses, authSvc: authSvc, logger: logger}
}

// CreateSessionResponse is returned by Create
type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
	State     string `json:"state"`
}

// Create handles POST /api/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := h.authSvc.CurrentUser(r.Context(), middleware.GetClaims(r.Context()))
	if err != nil {
		h.logger.Error("failed to load current user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	o := h.manager.Create(user.Participant())
	status := o.Status()
	if h.statuses != nil {
		if err := h.statuses.Set(r.Context(), &status); err != nil {
			h.logger.Warn("failed to cache session status", zap.Error(err))
		}
	}
	writeJSON(w, http.StatusCreated, CreateSessionResponse{SessionID: o.ID(), State: string(status.State)})
}

// Get handles GET /api/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	userID := middleware.GetUserID(r.Context())

	if o := h.manager.Get(id); o != nil {
		status := o.Status()
		if status.UserID != userID {
			writeError(w, http.StatusForbidden, "session belongs to another user")
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	if h.statuses == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	status, err := h.statuses.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to read session status", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read session status")
		return
	}
	if status == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if status.UserID != userID {
		writeError(w, http.StatusForbidden, "session belongs to another user")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Start handles POST /api/sessions/{id}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	o, ok := h.owned(w, r)
	if !ok {
		return
	}

	err := o.Start(r.Context())
	var terr *voice.TransportError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, o.Status())
	case errors.Is(err, session.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
	case voice.IsConfigurationError(err):
		writeError(w, http.StatusServiceUnavailable, session.MsgAssistantMissing)
	case errors.As(err, &terr):
		writeError(w, http.StatusBadGateway, session.MsgStartFailed)
	default:
		writeError(w, http.StatusInternalServerError, session.MsgStartFailed)
	}
}

// Disconnect handles POST /api/sessions/{id}/disconnect
func (h *SessionHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	o, ok := h.owned(w, r)
	if !ok {
		return
	}
	if err := o.Disconnect(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, o.Status())
}

func (h *SessionHandler) owned(w http.ResponseWriter, r *http.Request) (*session.Orchestrator, bool) {
	o := h.manager.Get(mux.Vars(r)["id"])
	if o == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	if o.Participant().UserID != middleware.GetUserID(r.Context()) {
		writeError(w, http.StatusForbidden, "session belongs to another user")
		return nil, false
	}
	return o, true
}
