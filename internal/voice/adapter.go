package voice

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"singularshift/internal/model"
)

// Signal is the coarse lifecycle outcome of handling one event
type Signal int

const (
	SignalNone Signal = iota
	SignalStarted
	SignalTranscript
	SignalEnded
	SignalFailed
)

// Adapter turns the event stream of one voice session into an ordered message log
type Adapter struct {
	session     Session
	assistantID string
	logger      *zap.Logger

	mu       sync.Mutex
	messages []model.Message
	active   bool
	speaking bool
	stopped  bool
}

// NewAdapter wraps session; assistantID identifies the voice agent to start
func NewAdapter(session Session, assistantID string, logger *zap.Logger) *Adapter {
	return &Adapter{
		session:     session,
		assistantID: assistantID,
		logger:      logger,
	}
}

// Start begins the external session with a fresh message log
func (a *Adapter) Start(ctx context.Context, opts StartOptions) error {
	if strings.TrimSpace(a.assistantID) == "" {
		return &ConfigurationError{Setting: "assistant id"}
	}

	a.mu.Lock()
	a.messages = nil
	a.active = false
	a.speaking = false
	a.stopped = false
	a.mu.Unlock()

	if err := a.session.Start(ctx, a.assistantID, opts); err != nil {
		return &TransportError{Op: "start", Err: err}
	}
	return nil
}

// Handle applies one event. Only final transcripts are appended.
func (a *Adapter) Handle(ctx context.Context, ev Event) Signal {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch ev.Type {
	case EventCallStart:
		a.active = true
		return SignalStarted

	case EventCallEnd:
		a.active = false
		a.speaking = false
		return SignalEnded

	case EventMessage:
		if !ev.IsFinalTranscript() || !ev.Role.Valid() {
			return SignalNone
		}
		text := strings.TrimSpace(ev.Transcript)
		if text == "" {
			return SignalNone
		}
		a.messages = append(a.messages, model.Message{Role: ev.Role, Content: text})
		return SignalTranscript

	case EventSpeechStart:
		a.speaking = true
		return SignalNone

	case EventSpeechEnd:
		a.speaking = false
		return SignalNone

	case EventError:
		a.logger.Error("voice session error", zap.String("error", ev.Error))
		a.active = false
		a.speaking = false
		if err := a.stopLocked(ctx); err != nil {
			a.logger.Warn("failed to stop voice session after error", zap.Error(err))
		}
		return SignalFailed
	}

	return SignalNone
}

// Stop requests session termination. Calling it more than once is a no-op.
func (a *Adapter) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopLocked(ctx)
}

func (a *Adapter) stopLocked(ctx context.Context) error {
	if a.stopped {
		return nil
	}
	a.stopped = true
	a.active = false
	if err := a.session.Stop(ctx); err != nil {
		return &TransportError{Op: "stop", Err: err}
	}
	return nil
}

// Messages returns a copy of the message log
func (a *Adapter) Messages() []model.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.Message, len(a.messages))
	copy(out, a.messages)
	return out
}

// Len returns the number of logged messages
func (a *Adapter) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.messages)
}

// Speaking reports whether the agent is currently speaking
func (a *Adapter) Speaking() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.speaking
}

// Active reports whether the call is live
func (a *Adapter) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// IsConfigurationError reports whether err is a ConfigurationError
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
