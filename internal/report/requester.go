package report

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"singularshift/internal/llm"
	"singularshift/internal/model"
)

// Input is everything the report prompt is built from
type Input struct {
	Participant  model.Participant
	RoleCategory model.RoleCategory
	Insights     model.InsightSet
}

// payload is the schema requested from structured-output providers
type payload struct {
	ReadinessScore   int      `json:"readinessScore"`
	BenchmarkSummary string   `json:"benchmarkSummary"`
	Recommendations  []string `json:"recommendations"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
}

var reportSchema = llm.Schema{
	Name:        "AuditReport",
	Description: "AI readiness audit report",
	Definition:  llm.GenerateSchema[payload](),
}

const classifyMaxTokens = 20

// Requester asks the completion service for a role category and an audit
// report. It never returns an error: failures degrade to defaults.
type Requester struct {
	classifier llm.Completer
	reporter   llm.Completer
	strict     bool
	logger     *zap.Logger
}

// NewRequester creates a Requester. strict clamps role labels to the closed set.
func NewRequester(classifier, reporter llm.Completer, strict bool, logger *zap.Logger) *Requester {
	return &Requester{
		classifier: classifier,
		reporter:   reporter,
		strict:     strict,
		logger:     logger,
	}
}

// ClassifyRole maps a free-text job title onto a role category
func (r *Requester) ClassifyRole(ctx context.Context, jobTitle string) model.RoleCategory {
	if strings.TrimSpace(jobTitle) == "" {
		return model.CategoryOtherAdmin
	}

	out, err := r.classifier.Complete(ctx, classifyPrompt(jobTitle), llm.WithMaxTokens(classifyMaxTokens))
	if err != nil {
		r.logger.Warn("role classification failed",
			zap.String("provider", r.classifier.Provider()),
			zap.Error(err))
		return model.CategoryOtherAdmin
	}

	label := cleanLabel(out)
	if !r.strict {
		if label == "" {
			return model.CategoryOtherAdmin
		}
		return model.RoleCategory(label)
	}

	category := ClampCategory(label)
	if string(category) != label {
		r.logger.Debug("role label clamped", zap.String("label", label), zap.String("category", string(category)))
	}
	return category
}

// Generate requests the audit report. The returned report carries in.RoleCategory.
func (r *Requester) Generate(ctx context.Context, in Input) model.AuditReport {
	raw, err := r.reporter.Complete(ctx, reportPrompt(in),
		llm.WithSystemPrompt(systemPrompt),
		llm.WithJSONSchema(reportSchema),
	)
	if err != nil {
		r.logger.Warn("report generation failed, using defaults",
			zap.String("provider", r.reporter.Provider()),
			zap.Error(err))
		rep := model.DefaultAuditReport()
		rep.RoleCategory = in.RoleCategory
		return rep
	}

	rep, errs := ParseReport(raw)
	for _, e := range errs {
		r.logger.Warn("report field defaulted", zap.Error(e))
	}
	rep.RoleCategory = in.RoleCategory
	return rep
}

// cleanLabel trims whitespace, quote characters and a trailing period
func cleanLabel(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(`"`, "", "'", "", "`", "", "“", "", "”", "").Replace(s)
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	return strings.TrimSpace(s)
}

// ClampCategory resolves a label to the closed set: exact match ignoring
// case first, then a category name inside the label, then the label as
// whole words of a category name, else Other/Admin
func ClampCategory(label string) model.RoleCategory {
	lower := strings.ToLower(strings.TrimSpace(label))
	if lower == "" {
		return model.CategoryOtherAdmin
	}
	for _, c := range model.RoleCategories {
		if strings.EqualFold(lower, string(c)) {
			return c
		}
	}
	for _, c := range model.RoleCategories {
		if strings.Contains(lower, strings.ToLower(string(c))) {
			return c
		}
	}
	words := labelWords(lower)
	for _, c := range model.RoleCategories {
		if containsRun(labelWords(string(c)), words) {
			return c
		}
	}
	return model.CategoryOtherAdmin
}

func labelWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// containsRun reports whether sub appears as consecutive words of words
func containsRun(words, sub []string) bool {
	if len(sub) == 0 || len(sub) > len(words) {
		return false
	}
	for i := 0; i+len(sub) <= len(words); i++ {
		match := true
		for j, w := range sub {
			if words[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
