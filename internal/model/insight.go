package model

// InsightSource tells whether an insight came from the transcript or a placeholder
type InsightSource string

const (
	SourceHeuristic InsightSource = "heuristic"
	SourceDefault   InsightSource = "default"

	// SourceProvided marks text supplied by the client alongside the transcript
	SourceProvided InsightSource = "provided"
)

// Insight is the extracted answer for one tracked interview field
type Insight struct {
	Text       string        `json:"text" bson:"text"`
	Confidence float64       `json:"confidence" bson:"confidence"`
	Source     InsightSource `json:"source" bson:"source"`
}

// ToolsInsight carries the tools named and the automation percentage, if stated
type ToolsInsight struct {
	Insight         `bson:",inline"`
	ToolsList       []string `json:"toolsList" bson:"toolsList"`
	AutomationLevel *int     `json:"automationLevel" bson:"automationLevel"`
}

// AIExposureInsight carries a 0-5 exposure level and the AI tools mentioned
type AIExposureInsight struct {
	Insight   `bson:",inline"`
	Level     int      `json:"level" bson:"level"`
	ToolsUsed []string `json:"toolsUsed" bson:"toolsUsed"`
}

// LevelInsight carries a 0-5 level
type LevelInsight struct {
	Insight `bson:",inline"`
	Level   int `json:"level" bson:"level"`
}

// TeamSizeInsight carries the head count, if stated
type TeamSizeInsight struct {
	Insight `bson:",inline"`
	Count   *int `json:"count" bson:"count"`
}

// TimeInsight carries hours per week spent on repetitive work, if stated
type TimeInsight struct {
	Insight      `bson:",inline"`
	HoursPerWeek *float64 `json:"hoursPerWeek" bson:"hoursPerWeek"`
}

// MetricsInsight carries the metrics named
type MetricsInsight struct {
	Insight     `bson:",inline"`
	MetricsList []string `json:"metricsList" bson:"metricsList"`
}

// InsightSet is the full structured result of one extraction pass.
// Every field is always present; undiscussed fields hold defaults.
type InsightSet struct {
	Responsibilities           Insight           `json:"responsibilities" bson:"responsibilities"`
	PainPoints                 Insight           `json:"painPoints" bson:"painPoints"`
	CurrentTools               ToolsInsight      `json:"currentTools" bson:"currentTools"`
	AIExposure                 AIExposureInsight `json:"aiExposure" bson:"aiExposure"`
	ChangeAppetite             LevelInsight      `json:"changeAppetite" bson:"changeAppetite"`
	TeamSize                   TeamSizeInsight   `json:"teamSize" bson:"teamSize"`
	TimeSpentOnRepetitiveTasks TimeInsight       `json:"timeSpentOnRepetitiveTasks" bson:"timeSpentOnRepetitiveTasks"`
	MetricsUsed                MetricsInsight    `json:"metricsUsed" bson:"metricsUsed"`
	ProcessMap                 Insight           `json:"processMap" bson:"processMap"`
	RootCauses                 Insight           `json:"rootCauses" bson:"rootCauses"`
	DataFlows                  Insight           `json:"dataFlows" bson:"dataFlows"`
	AIOpportunities            Insight           `json:"aiOpportunities" bson:"aiOpportunities"`
	Blockers                   Insight           `json:"blockers" bson:"blockers"`
}

// StructuredData is the numeric/categorical summary derived from an InsightSet
type StructuredData struct {
	TeamSize                   *int     `json:"teamSize" bson:"teamSize"`
	AutomationLevel            *int     `json:"automationLevel" bson:"automationLevel"`
	AIExposureLevel            int      `json:"aiExposureLevel" bson:"aiExposureLevel"`
	ChangeReadiness            int      `json:"changeReadiness" bson:"changeReadiness"`
	ToolsUsed                  []string `json:"toolsUsed" bson:"toolsUsed"`
	AIToolsUsed                []string `json:"aiToolsUsed" bson:"aiToolsUsed"`
	MetricsUsed                []string `json:"metricsUsed" bson:"metricsUsed"`
	TimeSpentOnRepetitiveTasks *float64 `json:"timeSpentOnRepetitiveTasks" bson:"timeSpentOnRepetitiveTasks"`
}

// StructuredData summarizes the typed extras of the set
func (s *InsightSet) StructuredData() StructuredData {
	return StructuredData{
		TeamSize:                   s.TeamSize.Count,
		AutomationLevel:            s.CurrentTools.AutomationLevel,
		AIExposureLevel:            s.AIExposure.Level,
		ChangeReadiness:            s.ChangeAppetite.Level,
		ToolsUsed:                  s.CurrentTools.ToolsList,
		AIToolsUsed:                s.AIExposure.ToolsUsed,
		MetricsUsed:                s.MetricsUsed.MetricsList,
		TimeSpentOnRepetitiveTasks: s.TimeSpentOnRepetitiveTasks.HoursPerWeek,
	}
}
