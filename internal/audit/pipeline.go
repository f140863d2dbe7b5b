package audit

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"singularshift/internal/events"
	"singularshift/internal/insight"
	"singularshift/internal/model"
	"singularshift/internal/report"
	"singularshift/internal/repository"
)

// ErrNoMessages is returned for a submission with an empty message log
var ErrNoMessages = errors.New("no messages to process")

// Extractor produces insights from a message log
type Extractor interface {
	Extract(messages []model.Message) model.InsightSet
}

// Reporter classifies the participant and writes the audit report
type Reporter interface {
	ClassifyRole(ctx context.Context, jobTitle string) model.RoleCategory
	Generate(ctx context.Context, in report.Input) model.AuditReport
}

// Store persists a finished interview and returns its id
type Store interface {
	Create(ctx context.Context, doc *model.InterviewDocument) (string, error)
}

// Submission is one finished session ready for processing
type Submission struct {
	InterviewID string
	Participant model.Participant
	Messages    []model.Message

	// Provided holds client-supplied field text used where extraction finds nothing
	Provided map[insight.Field]string

	CompletionObserved bool
}

// Pipeline runs extraction, classification, report generation and the
// single write for a finished session
type Pipeline struct {
	extractor      Extractor
	reporter       Reporter
	store          Store
	publisher      events.Publisher
	minSubstantive int
	logger         *zap.Logger
}

func NewPipeline(extractor Extractor, reporter Reporter, store Store, publisher events.Publisher, minSubstantive int, logger *zap.Logger) *Pipeline {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Pipeline{
		extractor:      extractor,
		reporter:       reporter,
		store:          store,
		publisher:      publisher,
		minSubstantive: minSubstantive,
		logger:         logger,
	}
}

// MinSubstantive is the number of substantive user messages a session needs
func (p *Pipeline) MinSubstantive() int {
	return p.minSubstantive
}

// Run processes sub and writes exactly one document. Completion-service
// failures degrade to defaults; only a failed write is returned, as a
// *PersistenceError.
func (p *Pipeline) Run(ctx context.Context, sub Submission) (*model.InterviewDocument, error) {
	if len(sub.Messages) == 0 {
		return nil, ErrNoMessages
	}

	log := p.logger.With(
		zap.String("interviewId", sub.InterviewID),
		zap.String("userId", sub.Participant.UserID),
	)

	insights := p.extractor.Extract(sub.Messages)
	if len(sub.Provided) > 0 {
		if n := insight.MergeProvided(&insights, sub.Provided); n > 0 {
			log.Debug("merged provided fields", zap.Int("count", n))
		}
	}

	category := p.reporter.ClassifyRole(ctx, sub.Participant.JobTitle)
	rep := p.reporter.Generate(ctx, report.Input{
		Participant:  sub.Participant,
		RoleCategory: category,
		Insights:     insights,
	})
	rep.RoleCategory = category

	finalized := IsFinalized(sub.CompletionObserved, sub.Messages, p.minSubstantive)
	doc := model.NewInterviewDocument(sub.InterviewID, sub.Participant, sub.Messages, insights, insight.Version, rep, finalized)

	id, err := p.store.Create(ctx, doc)
	if errors.Is(err, repository.ErrInterviewExists) {
		log.Warn("interview already stored, dropping replay")
		return nil, &PersistenceError{InterviewID: sub.InterviewID, Err: err}
	}
	if err != nil {
		log.Error("failed to store interview", zap.Error(err))
		return nil, &PersistenceError{InterviewID: sub.InterviewID, Err: err}
	}
	doc.ID = id

	if err := p.publisher.Publish(events.SubjectAuditStored, events.NewAuditStored(doc)); err != nil {
		log.Warn("failed to publish audit event", zap.Error(err))
	}

	log.Info("interview stored",
		zap.String("id", id),
		zap.Int("readinessScore", rep.ReadinessScore),
		zap.String("roleCategory", string(category)),
		zap.Bool("finalized", finalized),
		zap.Int("messages", len(sub.Messages)))
	return doc, nil
}
