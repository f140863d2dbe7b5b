package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"singularshift/internal/model"
)

func trainingDoc() *model.InterviewDocument {
	team := 6
	hours := 10.0
	return &model.InterviewDocument{
		InterviewID: "i1",
		UserID:      "u1",
		Role:        "Finance Manager",
		Department:  "Finance",
		Finalized:   true,
		Messages: []model.Message{
			{Role: model.RoleAssistant, Content: "Hello, what is your role?"},
			{Role: model.RoleUser, Content: " I manage the finance team. "},
			{Role: model.RoleAssistant, Content: "What slows you down?"},
			{Role: model.RoleUser, Content: "Manual reconciliation."},
			{Role: model.RoleAssistant, Content: "Which tools do you use?"},
			{Role: model.RoleUser, Content: "Excel and SAP."},
			{Role: model.RoleAssistant, Content: "Thank you for your time."},
		},
		StructuredData: model.StructuredData{
			TeamSize:                   &team,
			AIExposureLevel:            3,
			ChangeReadiness:            4,
			ToolsUsed:                  []string{"Excel", "SAP"},
			TimeSpentOnRepetitiveTasks: &hours,
		},
		AuditReport: model.AuditReport{
			ReadinessScore:   73,
			BenchmarkSummary: "Ahead of most finance peers.",
			Recommendations:  []string{"Automate reconciliation", "Adopt AI forecasting"},
		},
	}
}

func TestFormatForTraining_ConversationPairs(t *testing.T) {
	doc := trainingDoc()
	doc.ReadinessScore = 0

	pairs := FormatForTraining(doc)
	require.Len(t, pairs, 3)

	first := pairs[0]
	assert.True(t, strings.HasPrefix(first.Prompt, "You are Leila, Principal AI Strategy Consultant at SingularShift, conducting an AI readiness interview with a Finance Manager in the Finance department."))
	assert.NotContains(t, first.Prompt, "Conversation history:")
	assert.True(t, strings.HasSuffix(first.Prompt, "User: I manage the finance team.\n\nYou:"))
	assert.Equal(t, "What slows you down?", first.Response)

	second := pairs[1]
	assert.Contains(t, second.Prompt, "Conversation history:\nUser: I manage the finance team.\nYou: What slows you down?\n")

	third := pairs[2]
	assert.NotContains(t, third.Prompt, "Hello, what is your role?")
	assert.Contains(t, third.Prompt, "User: I manage the finance team.\n")
	assert.Contains(t, third.Prompt, "User: Manual reconciliation.\nYou: Which tools do you use?\n")
	assert.Equal(t, "Thank you for your time.", third.Response)
}

func TestFormatForTraining_ReportSamples(t *testing.T) {
	pairs := FormatForTraining(trainingDoc())
	require.Len(t, pairs, 6)

	score := pairs[3]
	assert.Equal(t, "73", score.Response)
	assert.Contains(t, score.Prompt, "• Team Size: 6")
	assert.Contains(t, score.Prompt, "• Automation Level: Not detected%")
	assert.Contains(t, score.Prompt, "• AI Exposure Level: 3/5")
	assert.Contains(t, score.Prompt, "• Tools Used: Excel, SAP")
	assert.Contains(t, score.Prompt, "• AI Tools Used: None detected")
	assert.Contains(t, score.Prompt, "• Time Spent on Repetitive Tasks: 10 hours/week")

	assert.Equal(t, "Automate reconciliation\n\nAdopt AI forecasting", pairs[4].Response)

	summary := pairs[5]
	assert.Contains(t, summary.Prompt, "• Readiness Score: 73/100")
	assert.Equal(t, "Ahead of most finance peers.", summary.Response)
}

func TestExportService_WriteJSONL(t *testing.T) {
	draft := trainingDoc()
	draft.InterviewID = "draft"
	draft.Finalized = false

	repo := &fakeInterviewRepo{}
	_, _ = repo.Create(context.Background(), trainingDoc())
	_, _ = repo.Create(context.Background(), draft)

	var buf bytes.Buffer
	interviews, pairs, err := NewExportService(repo, zap.NewNop()).WriteJSONL(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, interviews)
	assert.Equal(t, 6, pairs)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	for _, line := range lines {
		var p model.TrainingPair
		require.NoError(t, json.Unmarshal([]byte(line), &p))
		assert.NotEmpty(t, p.Prompt)
		assert.NotEmpty(t, p.Response)
	}
}

func TestFormatForTraining_HistoryWindow(t *testing.T) {
	doc := &model.InterviewDocument{Role: "Analyst", Department: "Operations"}
	for _, q := range []string{"one", "two", "three", "four"} {
		doc.Messages = append(doc.Messages,
			model.Message{Role: model.RoleUser, Content: "answer " + q},
			model.Message{Role: model.RoleAssistant, Content: "question " + q},
		)
	}

	pairs := FormatForTraining(doc)
	require.Len(t, pairs, 4)
	assert.Contains(t, pairs[2].Prompt, "Conversation history:\nUser: answer one\n")
	assert.NotContains(t, pairs[3].Prompt, "answer one")
	assert.Contains(t, pairs[3].Prompt, "Conversation history:\nUser: answer two\nYou: question two\nUser: answer three\nYou: question three\n\nUser: answer four")
}
