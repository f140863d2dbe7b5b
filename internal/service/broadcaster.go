package service

import (
	"context"
	"errors"

	"singularshift/internal/model"
	"singularshift/internal/session"
	"singularshift/internal/voice"
)

// Outbound socket frame types
const (
	FrameVoiceStart = "voice.start"
	FrameVoiceStop  = "voice.stop"
	FrameState      = "state"
	FrameToast      = "toast"
	FrameRedirect   = "redirect"
)

// ErrNoListener is returned when no client is connected to a session
var ErrNoListener = errors.New("no client connected to session")

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	Broadcast(sessionID string, msgType string, payload interface{}) error
	DisconnectSession(sessionID string)
}

// ToastPayload is the body of a toast frame
type ToastPayload struct {
	Level   session.ToastLevel `json:"level"`
	Message string             `json:"message"`
}

// RedirectPayload is the body of a redirect frame
type RedirectPayload struct {
	Path string `json:"path"`
}

// VoiceStartPayload asks the browser to open the voice call
type VoiceStartPayload struct {
	AssistantID string `json:"assistantId"`
	voice.StartOptions
}

// SocketNotifier delivers orchestrator notifications as socket frames.
// Undeliverable frames are dropped.
type SocketNotifier struct {
	b Broadcaster
}

func NewSocketNotifier(b Broadcaster) *SocketNotifier {
	return &SocketNotifier{b: b}
}

func (n *SocketNotifier) Toast(sessionID string, level session.ToastLevel, message string) {
	_ = n.b.Broadcast(sessionID, FrameToast, ToastPayload{Level: level, Message: message})
}

func (n *SocketNotifier) Redirect(sessionID, path string) {
	_ = n.b.Broadcast(sessionID, FrameRedirect, RedirectPayload{Path: path})
}

func (n *SocketNotifier) State(status model.SessionStatus) {
	_ = n.b.Broadcast(status.ID, FrameState, status)
}

// VoiceRelay is the voice session of one interview: the call itself runs in
// the browser, which the relay drives over the socket
type VoiceRelay struct {
	b         Broadcaster
	sessionID string
}

func NewVoiceRelay(b Broadcaster, sessionID string) *VoiceRelay {
	return &VoiceRelay{b: b, sessionID: sessionID}
}

// RelayFactory binds relays to b; it is the session manager's factory
func RelayFactory(b Broadcaster) session.SessionFactory {
	return func(sessionID string) voice.Session {
		return NewVoiceRelay(b, sessionID)
	}
}

func (r *VoiceRelay) Start(_ context.Context, assistantID string, opts voice.StartOptions) error {
	return r.b.Broadcast(r.sessionID, FrameVoiceStart, VoiceStartPayload{
		AssistantID:  assistantID,
		StartOptions: opts,
	})
}

func (r *VoiceRelay) Stop(_ context.Context) error {
	err := r.b.Broadcast(r.sessionID, FrameVoiceStop, struct{}{})
	if errors.Is(err, ErrNoListener) {
		return nil
	}
	return err
}
