package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"singularshift/internal/model"
)

func user(s string) model.Message      { return model.Message{Role: model.RoleUser, Content: s} }
func assistant(s string) model.Message { return model.Message{Role: model.RoleAssistant, Content: s} }

func TestGroupTurns(t *testing.T) {
	turns := GroupTurns([]model.Message{
		assistant("Hello, thanks for joining."),
		user("Hi"),
		user("happy to be here"),
		assistant("Tell me about your role."),
		{Role: model.RoleSystem, Content: "ignored"},
		user("   "),
		user("I run payroll."),
		assistant("Thanks."),
	})

	require.Len(t, turns, 3)
	assert.Empty(t, turns[0].UserUtterances)
	assert.Equal(t, []string{"Hello, thanks for joining."}, turns[0].AssistantUtterances)
	assert.Equal(t, []string{"Hi", "happy to be here"}, turns[1].UserUtterances)
	assert.Equal(t, []string{"Tell me about your role."}, turns[1].AssistantUtterances)
	assert.Equal(t, []string{"I run payroll."}, turns[2].UserUtterances)
}

func TestExtract_EmptyLog(t *testing.T) {
	set := New().Extract(nil)

	for _, in := range []model.Insight{
		set.Responsibilities, set.PainPoints, set.CurrentTools.Insight, set.AIExposure.Insight,
		set.ChangeAppetite.Insight, set.TeamSize.Insight, set.TimeSpentOnRepetitiveTasks.Insight,
		set.MetricsUsed.Insight, set.ProcessMap, set.RootCauses, set.DataFlows,
		set.AIOpportunities, set.Blockers,
	} {
		assert.Equal(t, NotDiscussed, in.Text)
		assert.Equal(t, model.SourceDefault, in.Source)
		assert.Zero(t, in.Confidence)
	}
	assert.Empty(t, set.CurrentTools.ToolsList)
	assert.NotNil(t, set.CurrentTools.ToolsList)
	assert.Nil(t, set.CurrentTools.AutomationLevel)
	assert.Zero(t, set.AIExposure.Level)
	assert.Zero(t, set.ChangeAppetite.Level)
	assert.Nil(t, set.TeamSize.Count)
	assert.Nil(t, set.TimeSpentOnRepetitiveTasks.HoursPerWeek)
}

func TestExtract_ResponsibilitiesAndPainPoints(t *testing.T) {
	set := New().Extract([]model.Message{
		user("I manage onboarding for 10 people"),
		assistant("..."),
		user("Our biggest bottleneck is manual data entry"),
		assistant("..."),
	})

	assert.Contains(t, set.Responsibilities.Text, "manage onboarding")
	assert.NotContains(t, set.Responsibilities.Text, "bottleneck")
	assert.Equal(t, model.SourceHeuristic, set.Responsibilities.Source)
	assert.Contains(t, set.PainPoints.Text, "manual data entry")
	assert.Equal(t, model.SourceHeuristic, set.PainPoints.Source)

	require.NotNil(t, set.TeamSize.Count)
	assert.Equal(t, 10, *set.TeamSize.Count)
}

func TestExtract_Idempotent(t *testing.T) {
	log := []model.Message{
		assistant("What tools do you use today?"),
		user("We use Excel and Salesforce, maybe 30% is automated"),
		assistant("How do you feel about AI?"),
		user("I use ChatGPT daily and I'm excited to adopt more"),
		assistant("How much time goes on repetitive work?"),
		user("About 2 hours a day on repetitive reporting"),
	}

	e := New()
	assert.Equal(t, e.Extract(log), e.Extract(log))
}

func TestExtract_TypedExtras(t *testing.T) {
	set := New().Extract([]model.Message{
		assistant("Which tools and software does your team use?"),
		user("We use Excel and Salesforce, maybe 30% is automated"),
		assistant("Have you tried any AI tools?"),
		user("I use ChatGPT and Copilot regularly, plus Claude for writing, they are really helpful"),
		assistant("And how much time goes on repetitive tasks?"),
		user("About 2 hours a day on repetitive reporting"),
		assistant("Which metrics do you track?"),
		user("We track NPS and churn every month, plus revenue"),
	})

	assert.Equal(t, []string{"Excel", "Salesforce"}, set.CurrentTools.ToolsList)
	require.NotNil(t, set.CurrentTools.AutomationLevel)
	assert.Equal(t, 30, *set.CurrentTools.AutomationLevel)

	assert.Equal(t, []string{"ChatGPT", "Copilot", "Claude"}, set.AIExposure.ToolsUsed)
	assert.Greater(t, set.AIExposure.Level, 3)

	require.NotNil(t, set.TimeSpentOnRepetitiveTasks.HoursPerWeek)
	assert.InDelta(t, 10.0, *set.TimeSpentOnRepetitiveTasks.HoursPerWeek, 0.001)

	assert.Equal(t, []string{"NPS", "Churn", "Revenue"}, set.MetricsUsed.MetricsList)

	data := set.StructuredData()
	assert.Equal(t, set.CurrentTools.ToolsList, data.ToolsUsed)
	assert.Equal(t, set.AIExposure.Level, data.AIExposureLevel)
}

func TestExtract_CombinesCloseCandidates(t *testing.T) {
	set := New().Extract([]model.Message{
		user("I manage the finance team"),
		user("I also handle vendor payments"),
		assistant("Got it."),
	})

	// the second utterance scores slightly higher, so it leads
	assert.Equal(t, "I also handle vendor payments I manage the finance team", set.Responsibilities.Text)
}

func TestExtract_DoesNotCombineSubstring(t *testing.T) {
	set := New().Extract([]model.Message{
		user("I manage the finance team"),
		user("manage the finance"),
		assistant("Got it."),
	})

	assert.Equal(t, "I manage the finance team", set.Responsibilities.Text)
}

func TestExtract_ConfidenceCapped(t *testing.T) {
	long := "I manage a large team, handle onboarding, oversee payroll and my daily tasks and duties " +
		"are in charge of 40 people because the role is broad, which is a typical day for me."
	set := New().Extract([]model.Message{user(long), assistant("ok")})

	assert.Equal(t, 1.0, set.Responsibilities.Confidence)
}

func TestScore(t *testing.T) {
	kw := []string{" manage"}
	// 20 runes -> 1, one hit -> 2
	assert.InDelta(t, 3.0, Score("I manage everything.", kw), 0.001)
	// digit, comma and reasoning bonuses
	s := Score("I manage 3 teams, because I must", kw)
	assert.InDelta(t, float64(len("I manage 3 teams, because I must"))/20+2+5+3+2, s, 0.001)
}
