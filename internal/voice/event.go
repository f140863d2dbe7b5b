package voice

import (
	"context"

	"singularshift/internal/model"
)

// EventType names the events emitted by the voice agent SDK
type EventType string

const (
	EventCallStart   EventType = "call-start"
	EventCallEnd     EventType = "call-end"
	EventMessage     EventType = "message"
	EventSpeechStart EventType = "speech-start"
	EventSpeechEnd   EventType = "speech-end"
	EventError       EventType = "error"
)

// Transcript kinds carried on message events
const (
	TranscriptPartial = "partial"
	TranscriptFinal   = "final"
)

// Event is one SDK event as relayed by the browser
type Event struct {
	Type           EventType  `json:"type"`
	MessageType    string     `json:"messageType,omitempty"` // "transcript" for transcript chunks
	Role           model.Role `json:"role,omitempty"`
	TranscriptType string     `json:"transcriptType,omitempty"`
	Transcript     string     `json:"transcript,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// IsFinalTranscript reports whether the event carries a final transcript chunk
func (e Event) IsFinalTranscript() bool {
	if e.Type != EventMessage {
		return false
	}
	if e.MessageType != "" && e.MessageType != "transcript" {
		return false
	}
	return e.TranscriptType == TranscriptFinal
}

// StartOptions are passed to the voice agent when a call starts
type StartOptions struct {
	VariableValues     map[string]string `json:"variableValues"`
	MaxDurationSeconds int               `json:"maxDurationSeconds,omitempty"`
}

// Session is the external real-time voice session
type Session interface {
	Start(ctx context.Context, assistantID string, opts StartOptions) error
	Stop(ctx context.Context) error
}
