package insight

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var toolCatalog = []catalogEntry{
	{"Excel", []string{" excel "}},
	{"Google Sheets", []string{" google sheets ", " sheets "}},
	{"Salesforce", []string{" salesforce "}},
	{"HubSpot", []string{" hubspot "}},
	{"Jira", []string{" jira "}},
	{"Confluence", []string{" confluence "}},
	{"Slack", []string{" slack "}},
	{"Microsoft Teams", []string{" microsoft teams ", " ms teams "}},
	{"Notion", []string{" notion "}},
	{"Asana", []string{" asana "}},
	{"Trello", []string{" trello "}},
	{"SAP", []string{" sap "}},
	{"Oracle", []string{" oracle "}},
	{"Zendesk", []string{" zendesk "}},
	{"Figma", []string{" figma "}},
	{"GitHub", []string{" github "}},
	{"Outlook", []string{" outlook "}},
	{"Power BI", []string{" power bi ", " powerbi "}},
	{"Tableau", []string{" tableau "}},
	{"QuickBooks", []string{" quickbooks "}},
	{"Xero", []string{" xero "}},
	{"Workday", []string{" workday "}},
	{"ServiceNow", []string{" servicenow "}},
	{"Zapier", []string{" zapier "}},
	{"Airtable", []string{" airtable "}},
	{"Monday.com", []string{" monday com "}},
	{"Google Drive", []string{" google drive "}},
	{"SharePoint", []string{" sharepoint "}},
}

var aiToolCatalog = []catalogEntry{
	{"ChatGPT", []string{" chatgpt ", " chat gpt "}},
	{"GitHub Copilot", []string{" github copilot "}},
	{"Copilot", []string{" copilot "}},
	{"Claude", []string{" claude "}},
	{"Gemini", []string{" gemini "}},
	{"Bard", []string{" bard "}},
	{"Midjourney", []string{" midjourney "}},
	{"DALL-E", []string{" dall e ", " dalle "}},
	{"Jasper", []string{" jasper "}},
	{"Grammarly", []string{" grammarly "}},
	{"Perplexity", []string{" perplexity "}},
	{"Otter.ai", []string{" otter "}},
	{"Notion AI", []string{" notion ai "}},
}

var metricCatalog = []catalogEntry{
	{"KPIs", []string{" kpi ", " kpis "}},
	{"OKRs", []string{" okr ", " okrs "}},
	{"NPS", []string{" nps ", " net promoter "}},
	{"CSAT", []string{" csat ", " customer satisfaction "}},
	{"Revenue", []string{" revenue "}},
	{"Conversion rate", []string{" conversion "}},
	{"Churn", []string{" churn "}},
	{"Retention", []string{" retention "}},
	{"ROI", []string{" roi "}},
	{"SLAs", []string{" sla ", " slas "}},
	{"Velocity", []string{" velocity "}},
	{"Throughput", []string{" throughput "}},
	{"Cycle time", []string{" cycle time "}},
	{"Lead time", []string{" lead time "}},
	{"Response time", []string{" response time "}},
	{"Resolution time", []string{" resolution time "}},
	{"Engagement", []string{" engagement "}},
	{"Utilization", []string{" utilization ", " utilisation "}},
	{"Ticket volume", []string{" ticket volume ", " tickets "}},
}

// ToolNames returns the known business tools named in text, in order of appearance
func ToolNames(text string) []string {
	return findInOrder(normalize(text), toolCatalog)
}

// AIToolNames returns the AI assistants named in text, in order of appearance.
// "GitHub Copilot" suppresses the bare "Copilot" entry.
func AIToolNames(text string) []string {
	names := findInOrder(normalize(text), aiToolCatalog)
	out := names[:0]
	github := false
	for _, n := range names {
		if n == "GitHub Copilot" {
			github = true
		}
	}
	for _, n := range names {
		if github && n == "Copilot" {
			continue
		}
		out = append(out, n)
	}
	return out
}

// MetricNames returns the metrics named in text, in order of appearance
func MetricNames(text string) []string {
	return findInOrder(normalize(text), metricCatalog)
}

var percentPattern = regexp.MustCompile(`(?i)(\d{1,3})\s*(?:%|percent)`)

// automationPhrases are checked in order; the first match wins
var automationPhrases = []struct {
	phrase string
	level  int
}{
	{" fully automated ", 90},
	{" completely automated ", 90},
	{" mostly automated ", 70},
	{" largely automated ", 70},
	{" partially automated ", 40},
	{" semi automated ", 40},
	{" some automation ", 40},
	{" mostly manual ", 20},
	{" largely manual ", 20},
	{" fully manual ", 5},
	{" completely manual ", 5},
	{" all manual ", 5},
	{" no automation ", 0},
}

// AutomationLevel reads an automation percentage from text. An explicit
// percentage wins over descriptive phrases. Nil when neither is present.
func AutomationLevel(text string) *int {
	if m := percentPattern.FindStringSubmatch(text); m != nil {
		v, err := strconv.Atoi(m[1])
		if err == nil {
			v = min(max(v, 0), 100)
			return &v
		}
	}
	norm := normalize(text)
	for _, p := range automationPhrases {
		if strings.Contains(norm, p.phrase) {
			v := p.level
			return &v
		}
	}
	return nil
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7,
	"eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12, "fifteen": 15,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50, "hundred": 100,
}

const numberAlt = `(\d+|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|fifteen|twenty|thirty|forty|fifty|hundred)`

var (
	teamOfPattern = regexp.MustCompile(`(?i)\bteam of (?:about |around |roughly )?` + numberAlt + `\b`)
	headPattern   = regexp.MustCompile(`(?i)\b` + numberAlt + `\s+(?:other\s+)?(?:people|persons|members|staff|employees|direct reports|reports|engineers|developers|designers|analysts|agents|colleagues|marketers)\b`)
)

func parseCount(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	n, ok := numberWords[strings.ToLower(s)]
	return n, ok
}

// TeamCount reads a head count such as "team of 8" or "12 people".
// The earliest mention wins.
func TeamCount(text string) *int {
	best, pos := 0, -1
	for _, re := range []*regexp.Regexp{teamOfPattern, headPattern} {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil || (pos >= 0 && loc[0] >= pos) {
			continue
		}
		if n, ok := parseCount(text[loc[2]:loc[3]]); ok {
			best, pos = n, loc[0]
		}
	}
	if pos < 0 {
		return nil
	}
	return &best
}

var hoursPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:hours?|hrs?)\b(?:\s*(?:a|an|per|each|every)\s+(day|week|month))?`)

const weeksPerMonth = 52.0 / 12.0

// HoursPerWeek reads a time figure and normalizes it to hours per week.
// Daily figures assume a five-day week; figures without a unit are taken as weekly.
func HoursPerWeek(text string) *float64 {
	m := hoursPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	switch strings.ToLower(m[2]) {
	case "day":
		v *= 5
	case "month":
		v = math.Round(v/weeksPerMonth*10) / 10
	}
	return &v
}

var (
	aiPositive = []string{
		" use ", " using ", " used ", " daily ", "regularly", "every day", "experiment",
		"familiar", "comfortable", " tried ", " rely ", "integrated", " love ", "helpful",
		" often ",
	}
	aiNegative = []string{
		" never ", " not ", " don t ", " dont ", " haven t ", "no experience",
		"unfamiliar", "skeptic", "sceptic", " worried", " rarely ", "little experience",
		"not sure", " banned ", " avoid",
	}
	changePositive = []string{
		"excited", " open ", " eager", "embrace", "willing", " keen ", " love ",
		" ready ", "welcome", "enthusias", "curious", "looking forward", "happy to",
		"opportunit",
	}
	changeNegative = []string{
		"resist", "hesitant", "reluctant", " worried", " concern", "skeptic", "sceptic",
		"afraid", " fear", "pushback", "push back", "slow to adopt", " not ready",
		"overwhelm", " risk",
	}
)

const neutralLevel = 3

// SentimentLevel maps positive and negative keyword hits onto 0..5.
// Equal counts give the neutral 3.
func SentimentLevel(text string, positive, negative []string) int {
	norm := normalize(text)
	diff := distinctHits(norm, positive) - distinctHits(norm, negative)
	return min(max(neutralLevel+diff, 0), 5)
}
