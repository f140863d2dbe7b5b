package events

import (
	"errors"
	"time"

	"singularshift/internal/model"
)

// SubjectAuditStored is published after an interview document is written
const SubjectAuditStored = "singularshift.audit.stored"

// AuditStored is the payload of SubjectAuditStored
type AuditStored struct {
	ID             string             `json:"id"`
	InterviewID    string             `json:"interviewId"`
	UserID         string             `json:"userId"`
	ReadinessScore int                `json:"readinessScore"`
	RoleCategory   model.RoleCategory `json:"roleCategory"`
	Finalized      bool               `json:"finalized"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// NewAuditStored builds the event for a stored document
func NewAuditStored(doc *model.InterviewDocument) AuditStored {
	return AuditStored{
		ID:             doc.ID,
		InterviewID:    doc.InterviewID,
		UserID:         doc.UserID,
		ReadinessScore: doc.ReadinessScore,
		RoleCategory:   doc.RoleCategory,
		Finalized:      doc.Finalized,
		CreatedAt:      doc.CreatedAt,
	}
}

// Publisher sends a JSON payload on a subject
type Publisher interface {
	Publish(subject string, data any) error
}

// Multi publishes to every publisher and joins their errors
type Multi []Publisher

func (m Multi) Publish(subject string, data any) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(subject, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Noop discards everything; used when NATS is not configured
type Noop struct{}

func (Noop) Publish(string, any) error { return nil }
