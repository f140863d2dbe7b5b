package report

import (
	"fmt"
	"strings"

	"singularshift/internal/model"
)

const systemPrompt = `You are a senior AI-strategy consultant specializing in organizational AI readiness assessments. Analyze interview findings thoroughly to extract actionable insights. Return only valid, well-structured JSON as specified in the prompt.`

func classifyPrompt(jobTitle string) string {
	labels := make([]string, 0, len(model.RoleCategories))
	for _, c := range model.RoleCategories {
		labels = append(labels, string(c))
	}
	return fmt.Sprintf(`Classify the job title below into exactly one of these categories:
%s

Job title: %q

Answer with the category name only, no punctuation or explanation.`, strings.Join(labels, "\n"), jobTitle)
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func listOr(items []string) string {
	if len(items) == 0 {
		return "none mentioned"
	}
	return strings.Join(items, ", ")
}

func reportPrompt(in Input) string {
	ins := in.Insights
	data := ins.StructuredData()

	teamSize := "unknown"
	if data.TeamSize != nil {
		teamSize = fmt.Sprintf("%d", *data.TeamSize)
	}
	automation := "unknown"
	if data.AutomationLevel != nil {
		automation = fmt.Sprintf("%d%%", *data.AutomationLevel)
	}
	hours := "unknown"
	if data.TimeSpentOnRepetitiveTasks != nil {
		hours = fmt.Sprintf("%.1f", *data.TimeSpentOnRepetitiveTasks)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Generate an AI Readiness Audit Report for the employee interviewed below.

PARTICIPANT
Role: %s
Role category: %s
Department: %s
Seniority: %s

INTERVIEW FINDINGS
Responsibilities: %s
Pain points: %s
Current tools: %s
AI exposure: %s
Change appetite: %s
Team size: %s
Process map: %s
Metrics used: %s
Root causes: %s
Data flows: %s
AI opportunities: %s
Blockers: %s

STRUCTURED DATA
Team size: %s
Automation level: %s
AI exposure level (0-5): %d
Change readiness (0-5): %d
Tools used: %s
AI tools used: %s
Metrics tracked: %s
Hours per week on repetitive tasks: %s
`,
		valueOr(in.Participant.JobTitle, "Professional"), in.RoleCategory,
		valueOr(in.Participant.Department, "unknown"), valueOr(in.Participant.Seniority, "unknown"),
		ins.Responsibilities.Text, ins.PainPoints.Text, ins.CurrentTools.Text, ins.AIExposure.Text,
		ins.ChangeAppetite.Text, ins.TeamSize.Text, ins.ProcessMap.Text, ins.MetricsUsed.Text,
		ins.RootCauses.Text, ins.DataFlows.Text, ins.AIOpportunities.Text, ins.Blockers.Text,
		teamSize, automation, data.AIExposureLevel, data.ChangeReadiness,
		listOr(data.ToolsUsed), listOr(data.AIToolsUsed), listOr(data.MetricsUsed), hours,
	)

	b.WriteString(`
SCORING RUBRIC (readinessScore, integer 0-100)
- Technical readiness (25%): tools in use, automation level, AI tools already adopted
- Process readiness (25%): how well processes, data flows and metrics are defined
- People readiness (25%): AI exposure, change appetite, team capacity
- Strategic readiness (25%): clarity of AI opportunities and how addressable the blockers are

Return a single JSON object with exactly these keys:
{
  "readinessScore": 0-100 integer,
  "benchmarkSummary": "one or two sentences comparing the participant with peers in similar roles",
  "recommendations": ["3-5 concrete, role-specific recommendations"],
  "strengths": ["2-4 strengths"],
  "weaknesses": ["2-4 gaps"]
}
`)
	return b.String()
}
