package session

import (
	"context"

	"singularshift/internal/audit"
	"singularshift/internal/model"
)

// ToastLevel is the severity of a user-facing notification
type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
)

// User-facing messages
const (
	MsgAssistantMissing = "Assistant ID not set. Please try later."
	MsgStartFailed      = "Could not start the voice interview. Please try again."
	MsgProcessing       = "Processing your interview data..."
	MsgProcessed        = "Interview processed successfully!"
	MsgProcessFailed    = "Failed to process interview. Please try again later."
	MsgTooShort         = "The interview was too short to generate a report."
)

// RedirectHome is where the client goes once a session is done
const RedirectHome = "/"

// Notifier pushes UI updates to whoever is watching a session
type Notifier interface {
	Toast(sessionID string, level ToastLevel, message string)
	Redirect(sessionID, path string)
	State(status model.SessionStatus)
}

// Processor runs the audit pipeline for a finished session
type Processor interface {
	Run(ctx context.Context, sub audit.Submission) (*model.InterviewDocument, error)
	MinSubstantive() int
}

// Lock guards processing across server instances
type Lock interface {
	AcquireProcessing(ctx context.Context, id string) (bool, error)
}

// StatusStore keeps the latest status snapshot for polling clients
type StatusStore interface {
	Set(ctx context.Context, status *model.SessionStatus) error
}
