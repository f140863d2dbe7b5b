package insight

import (
	"strings"

	"singularshift/internal/model"
)

const providedConfidence = 0.5

func base(set *model.InsightSet, f Field) *model.Insight {
	switch f {
	case FieldResponsibilities:
		return &set.Responsibilities
	case FieldPainPoints:
		return &set.PainPoints
	case FieldCurrentTools:
		return &set.CurrentTools.Insight
	case FieldAIExposure:
		return &set.AIExposure.Insight
	case FieldChangeAppetite:
		return &set.ChangeAppetite.Insight
	case FieldTeamSize:
		return &set.TeamSize.Insight
	case FieldTimeSpent:
		return &set.TimeSpentOnRepetitiveTasks.Insight
	case FieldMetricsUsed:
		return &set.MetricsUsed.Insight
	case FieldProcessMap:
		return &set.ProcessMap
	case FieldRootCauses:
		return &set.RootCauses
	case FieldDataFlows:
		return &set.DataFlows
	case FieldAIOpportunities:
		return &set.AIOpportunities
	case FieldBlockers:
		return &set.Blockers
	}
	return nil
}

// MergeProvided fills fields the transcript said nothing about with text the
// client sent alongside it. Heuristic results always win. Returns the
// number of fields filled.
func MergeProvided(set *model.InsightSet, provided map[Field]string) int {
	n := 0
	for _, f := range Fields {
		text := strings.TrimSpace(provided[f])
		if text == "" {
			continue
		}
		in := base(set, f)
		if in.Source != model.SourceDefault {
			continue
		}
		*in = model.Insight{Text: text, Confidence: providedConfidence, Source: model.SourceProvided}
		n++

		switch f {
		case FieldCurrentTools:
			set.CurrentTools.ToolsList = ToolNames(text)
			set.CurrentTools.AutomationLevel = AutomationLevel(text)
		case FieldAIExposure:
			set.AIExposure.ToolsUsed = AIToolNames(text)
			set.AIExposure.Level = SentimentLevel(text, aiPositive, aiNegative)
		case FieldChangeAppetite:
			set.ChangeAppetite.Level = SentimentLevel(text, changePositive, changeNegative)
		case FieldTeamSize:
			set.TeamSize.Count = TeamCount(text)
		case FieldTimeSpent:
			set.TimeSpentOnRepetitiveTasks.HoursPerWeek = HoursPerWeek(text)
		case FieldMetricsUsed:
			set.MetricsUsed.MetricsList = MetricNames(text)
		}
	}
	return n
}
