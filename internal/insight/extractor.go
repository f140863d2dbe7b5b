package insight

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"singularshift/internal/model"
)

// Version is persisted with every document as extractorVersion
const Version = 5

// NotDiscussed is the text of a field no turn was relevant to
const NotDiscussed = "Not explicitly discussed during interview"

const (
	maxLengthScore = 10
	hitWeight      = 2
	digitBonus     = 5
	reasoningBonus = 3
	commaBonus     = 2
	combineMargin  = 5
	confidenceNorm = 20
)

var reasoningMarkers = []string{"because", " since ", " due to "}

// Extractor turns a message log into an InsightSet. It is stateless and
// safe for concurrent use.
type Extractor struct{}

// New returns an Extractor
func New() *Extractor {
	return &Extractor{}
}

type candidate struct {
	text  string
	score float64
}

// Extract runs one extraction pass. It never fails: fields without a
// relevant turn come back as defaults.
func (e *Extractor) Extract(messages []model.Message) model.InsightSet {
	turns := GroupTurns(messages)
	var set model.InsightSet

	set.Responsibilities = e.field(turns, FieldResponsibilities)
	set.PainPoints = e.field(turns, FieldPainPoints)
	set.ProcessMap = e.field(turns, FieldProcessMap)
	set.RootCauses = e.field(turns, FieldRootCauses)
	set.DataFlows = e.field(turns, FieldDataFlows)
	set.AIOpportunities = e.field(turns, FieldAIOpportunities)
	set.Blockers = e.field(turns, FieldBlockers)

	tools := e.field(turns, FieldCurrentTools)
	set.CurrentTools = model.ToolsInsight{Insight: tools, ToolsList: []string{}}
	if tools.Source == model.SourceHeuristic {
		set.CurrentTools.ToolsList = ToolNames(tools.Text)
		set.CurrentTools.AutomationLevel = AutomationLevel(tools.Text)
	}

	ai := e.field(turns, FieldAIExposure)
	set.AIExposure = model.AIExposureInsight{Insight: ai, ToolsUsed: []string{}}
	if ai.Source == model.SourceHeuristic {
		set.AIExposure.ToolsUsed = AIToolNames(ai.Text)
		set.AIExposure.Level = SentimentLevel(ai.Text, aiPositive, aiNegative)
	}

	change := e.field(turns, FieldChangeAppetite)
	set.ChangeAppetite = model.LevelInsight{Insight: change}
	if change.Source == model.SourceHeuristic {
		set.ChangeAppetite.Level = SentimentLevel(change.Text, changePositive, changeNegative)
	}

	team := e.field(turns, FieldTeamSize)
	set.TeamSize = model.TeamSizeInsight{Insight: team}
	if team.Source == model.SourceHeuristic {
		set.TeamSize.Count = TeamCount(team.Text)
	}

	spent := e.field(turns, FieldTimeSpent)
	set.TimeSpentOnRepetitiveTasks = model.TimeInsight{Insight: spent}
	if spent.Source == model.SourceHeuristic {
		set.TimeSpentOnRepetitiveTasks.HoursPerWeek = HoursPerWeek(spent.Text)
	}

	metrics := e.field(turns, FieldMetricsUsed)
	set.MetricsUsed = model.MetricsInsight{Insight: metrics, MetricsList: []string{}}
	if metrics.Source == model.SourceHeuristic {
		set.MetricsUsed.MetricsList = MetricNames(metrics.Text)
	}

	return set
}

func (e *Extractor) field(turns []Turn, f Field) model.Insight {
	keywords := fieldKeywords[f]
	var candidates []candidate
	for _, t := range turns {
		if !turnRelevant(t, keywords) {
			continue
		}
		for _, u := range t.UserUtterances {
			candidates = append(candidates, candidate{text: u, score: Score(u, keywords)})
		}
	}
	if len(candidates) == 0 {
		return defaultInsight()
	}

	// stable keeps the earliest utterance on equal scores
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	top := candidates[0]
	text := top.text
	if combinedFields[f] && len(candidates) > 1 {
		second := candidates[1]
		if top.score-second.score < combineMargin &&
			!strings.Contains(strings.ToLower(top.text), strings.ToLower(second.text)) {
			text = top.text + " " + second.text
		}
	}

	return model.Insight{
		Text:       text,
		Confidence: math.Min(top.score/confidenceNorm, 1),
		Source:     model.SourceHeuristic,
	}
}

func turnRelevant(t Turn, keywords []string) bool {
	for _, u := range t.UserUtterances {
		if containsAny(normalize(u), keywords) {
			return true
		}
	}
	for _, u := range t.AssistantUtterances {
		if containsAny(normalize(u), keywords) {
			return true
		}
	}
	return false
}

// Score rates how informative an utterance is for a field
func Score(utterance string, keywords []string) float64 {
	norm := normalize(utterance)
	score := math.Min(float64(utf8.RuneCountInString(utterance))/20, maxLengthScore)
	score += float64(hitWeight * distinctHits(norm, keywords))
	if hasDigit(utterance) {
		score += digitBonus
	}
	if containsAny(norm, reasoningMarkers) {
		score += reasoningBonus
	}
	if strings.Contains(utterance, ",") {
		score += commaBonus
	}
	return score
}

func defaultInsight() model.Insight {
	return model.Insight{Text: NotDiscussed, Confidence: 0, Source: model.SourceDefault}
}
