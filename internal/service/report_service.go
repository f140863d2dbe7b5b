package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"singularshift/internal/audit"
	"singularshift/internal/insight"
	"singularshift/internal/model"
)

var ErrMissingUserID = errors.New("userId is required")

// Runner processes one finished session
type Runner interface {
	Run(ctx context.Context, sub audit.Submission) (*model.InterviewDocument, error)
}

// ReportService accepts externally captured sessions and runs them through
// the audit pipeline
type ReportService struct {
	pipeline Runner
	logger   *zap.Logger
}

func NewReportService(pipeline Runner, logger *zap.Logger) *ReportService {
	return &ReportService{pipeline: pipeline, logger: logger}
}

// Generate validates req, runs the pipeline and returns the stored document
func (s *ReportService) Generate(ctx context.Context, req *model.ReportGenerateRequest) (*model.InterviewDocument, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, ErrMissingUserID
	}

	messages := make([]model.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		if !m.Role.Valid() {
			continue
		}
		messages = append(messages, m)
	}
	if len(messages) == 0 {
		return nil, audit.ErrNoMessages
	}

	sub := audit.Submission{
		InterviewID: interviewIDFor(req),
		Participant: model.Participant{
			UserID:     req.UserID,
			UserName:   req.UserName,
			JobTitle:   req.Role,
			Department: req.Department,
			Seniority:  req.Seniority,
			Location:   req.Location,
		},
		Messages:           messages,
		Provided:           providedFields(req),
		CompletionObserved: audit.CompletionObserved(messages),
	}

	s.logger.Debug("report requested",
		zap.String("interviewId", sub.InterviewID),
		zap.Int("messages", len(messages)),
		zap.Int("provided", len(sub.Provided)))

	return s.pipeline.Run(ctx, sub)
}

func interviewIDFor(req *model.ReportGenerateRequest) string {
	for _, id := range []string{req.InterviewID, req.EmployeeID} {
		if id = strings.TrimSpace(id); id != "" {
			return id
		}
	}
	return uuid.NewString()
}

func providedFields(req *model.ReportGenerateRequest) map[insight.Field]string {
	all := map[insight.Field]string{
		insight.FieldResponsibilities: req.Responsibilities,
		insight.FieldPainPoints:       req.PainPoints,
		insight.FieldCurrentTools:     req.CurrentTools,
		insight.FieldAIExposure:       req.AIExposure,
		insight.FieldChangeAppetite:   req.ChangeAppetite,
		insight.FieldTeamSize:         req.TeamSize,
		insight.FieldTimeSpent:        req.TimeSpentOnRepetitiveTasks,
		insight.FieldMetricsUsed:      req.MetricsUsed,
		insight.FieldProcessMap:       req.ProcessMap,
		insight.FieldRootCauses:       req.RootCauses,
		insight.FieldDataFlows:        req.DataFlows,
		insight.FieldAIOpportunities:  req.AIOpportunities,
		insight.FieldBlockers:         req.Blockers,
	}
	out := make(map[insight.Field]string)
	for f, text := range all {
		if text = strings.TrimSpace(text); text != "" {
			out[f] = text
		}
	}
	return out
}
