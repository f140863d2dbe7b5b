package model

import "time"

// SessionState is the lifecycle state of one interview session
type SessionState string

const (
	StateInactive   SessionState = "INACTIVE"
	StateConnecting SessionState = "CONNECTING"
	StateActive     SessionState = "ACTIVE"
	StateFinished   SessionState = "FINISHED"
	StateProcessing SessionState = "PROCESSING"
	StateDone       SessionState = "DONE"
)

// SessionStatus is the cached snapshot served to the UI
type SessionStatus struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	State        SessionState `json:"state"`
	MessageCount int          `json:"messageCount"`
	Speaking     bool         `json:"speaking"`
	InterviewID  string       `json:"interviewId,omitempty"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
