package insight

// Field identifies one tracked interview field
type Field string

const (
	FieldResponsibilities Field = "responsibilities"
	FieldPainPoints       Field = "painPoints"
	FieldCurrentTools     Field = "currentTools"
	FieldAIExposure       Field = "aiExposure"
	FieldChangeAppetite   Field = "changeAppetite"
	FieldTeamSize         Field = "teamSize"
	FieldTimeSpent        Field = "timeSpentOnRepetitiveTasks"
	FieldMetricsUsed      Field = "metricsUsed"
	FieldProcessMap       Field = "processMap"
	FieldRootCauses       Field = "rootCauses"
	FieldDataFlows        Field = "dataFlows"
	FieldAIOpportunities  Field = "aiOpportunities"
	FieldBlockers         Field = "blockers"
)

// Fields lists every tracked field in extraction order
var Fields = []Field{
	FieldResponsibilities,
	FieldPainPoints,
	FieldCurrentTools,
	FieldAIExposure,
	FieldChangeAppetite,
	FieldTeamSize,
	FieldTimeSpent,
	FieldMetricsUsed,
	FieldProcessMap,
	FieldRootCauses,
	FieldDataFlows,
	FieldAIOpportunities,
	FieldBlockers,
}

// fieldKeywords are matched against normalized text (see normalize).
// Leading or trailing spaces pin a keyword to word boundaries.
var fieldKeywords = map[Field][]string{
	FieldResponsibilities: {
		"responsib", " role", " manage", "in charge", "oversee", "day to day", " daily ",
		" my job", "duties", " tasks", "accountable", " lead ", " handle", "typical day",
		" own the ", " work on ",
	},
	FieldPainPoints: {
		" pain", "challeng", "frustrat", "problem", "bottleneck", "struggl", "difficult",
		" issue", " manual", " slow", "tedious", "time consuming", "annoy", " waste",
		"headache", "error prone", "repetitive",
	},
	FieldCurrentTools: {
		" tool", "software", "platform", " system", " apps ", " app ", "application",
		" excel", "spreadsheet", " crm", " erp", " using ", " use ", " stack ",
		"salesforce", "hubspot", " jira", "slack", "notion",
	},
	FieldAIExposure: {
		" ai ", "artificial intelligence", "chatgpt", "chat gpt", " gpt", "copilot",
		"machine learning", " llm", "generative", "claude", "gemini", "automation",
	},
	FieldChangeAppetite: {
		" change", " adopt", "open to", "willing", "excited", "resist", "new tools",
		"new technolog", "embrace", "appetite", "try new", "comfortable", "hesitant",
		"reluctant", "transform",
	},
	FieldTeamSize: {
		" team", " people", " staff", "headcount", " members", "direct reports",
		"reports to me", "employees", "colleagues", " engineers",
	},
	FieldTimeSpent: {
		" hours", " hour ", " hrs ", "repetitive", "time spent", " spend", "per week",
		" a week", "each week", "every day", " routine", "time consuming",
	},
	FieldMetricsUsed: {
		" metric", " measure", " kpi", " okr", " track", " target", " nps ", " csat",
		"dashboard", "report on", " success",
	},
	FieldProcessMap: {
		" process", "workflow", " steps", "step by step", "pipeline", "procedure",
		"hand off", "handoff", "approval",
	},
	FieldRootCauses: {
		"root cause", "because", " reason", " due to ", " caused", "stems from", " why ",
	},
	FieldDataFlows: {
		" data", "database", " export", " import", "integration", " sync", " api ",
		" csv", "spreadsheet", "source of truth",
	},
	FieldAIOpportunities: {
		"opportunit", " automate", " wish", " ideal", "if only", "save time",
		"help with", "use case", "could be automated",
	},
	FieldBlockers: {
		"blocker", " blocked", "obstacle", "barrier", " prevent", "stop us", "hold back",
		"holding us back", " budget", "approval", "security", "compliance", " concern",
	},
}

// combinedFields may join their two best candidates into one text
var combinedFields = map[Field]bool{
	FieldResponsibilities: true,
	FieldPainPoints:       true,
	FieldCurrentTools:     true,
}

// Keywords returns a copy of the keyword list for f
func Keywords(f Field) []string {
	return append([]string(nil), fieldKeywords[f]...)
}
