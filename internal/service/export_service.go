package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"singularshift/internal/model"
	"singularshift/internal/repository"
)

// TrainingFilename is the attachment name of the JSONL export
const TrainingFilename = "singularshift-training-data.jsonl"

// historyWindow is how many prior messages each conversational sample carries
const historyWindow = 4

const personaContext = `You are Leila, Principal AI Strategy Consultant at SingularShift, conducting an AI readiness interview with a %s in the %s department.
Your goal is to understand their workflows, tools, challenges, and opportunities for AI implementation.
Respond in a warm, professional tone with short, focused questions. Use British English.`

// ExportService turns finalized interviews into fine-tuning samples
type ExportService struct {
	repo   repository.InterviewRepo
	logger *zap.Logger
}

func NewExportService(repo repository.InterviewRepo, logger *zap.Logger) *ExportService {
	return &ExportService{repo: repo, logger: logger}
}

// WriteJSONL streams one JSON object per line for every finalized interview.
// It returns the number of interviews and pairs written.
func (s *ExportService) WriteJSONL(ctx context.Context, w io.Writer) (int, int, error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	interviews, pairs := 0, 0
	err := s.repo.EachFinalized(ctx, func(doc *model.InterviewDocument) error {
		interviews++
		for _, p := range FormatForTraining(doc) {
			if err := enc.Encode(p); err != nil {
				return fmt.Errorf("write training pair: %w", err)
			}
			pairs++
		}
		return nil
	})
	if err != nil {
		return interviews, pairs, err
	}

	s.logger.Info("training data exported",
		zap.Int("interviews", interviews),
		zap.Int("pairs", pairs))
	return interviews, pairs, nil
}

// FormatForTraining builds the prompt/response samples for one interview
func FormatForTraining(doc *model.InterviewDocument) []model.TrainingPair {
	pairs := conversationPairs(doc)
	if doc.ReadinessScore == 0 {
		return pairs
	}

	sd := structuredLines(doc.StructuredData)
	header := fmt.Sprintf("INTERVIEW CONTEXT:\n• Role: %s\n• Department: %s\n• Team Size: %s",
		doc.Role, doc.Department, orDefault(intString(doc.StructuredData.TeamSize), "Not specified"))

	pairs = append(pairs, model.TrainingPair{
		Prompt: "You are an AI readiness consultant analyzing interview data to produce a readiness score.\n\n" +
			header + "\n\n" + sd + "\n\n" +
			"Provide an AI readiness score from 0-100 based on this data. Return only the score as a number.",
		Response: strconv.Itoa(doc.ReadinessScore),
	})

	if len(doc.Recommendations) > 0 {
		pairs = append(pairs, model.TrainingPair{
			Prompt: "You are an AI readiness consultant analyzing interview data to produce recommendations.\n\n" +
				header + "\n\n" + sd + "\n\n" +
				`Based on this data, provide 3 specific, practical recommendations for improving AI readiness. Each recommendation should follow the format: "Implement [specific solution] for [specific process] to address [specific pain point]." Return only the recommendations.`,
			Response: strings.Join(doc.Recommendations, "\n\n"),
		})
	}

	if doc.BenchmarkSummary != "" {
		pairs = append(pairs, model.TrainingPair{
			Prompt: "You are an AI readiness consultant analyzing interview data to produce a benchmark summary.\n\n" +
				header + fmt.Sprintf("\n• Readiness Score: %d/100", doc.ReadinessScore) + "\n\n" + sd + "\n\n" +
				"Provide a concise, evidence-based benchmark summary (100-150 words) with role-specific context.",
			Response: doc.BenchmarkSummary,
		})
	}
	return pairs
}

func conversationPairs(doc *model.InterviewDocument) []model.TrainingPair {
	system := fmt.Sprintf(personaContext, doc.Role, doc.Department)
	var (
		pairs   []model.TrainingPair
		history []model.Message
	)
	for i := 0; i+1 < len(doc.Messages); i++ {
		cur, next := doc.Messages[i], doc.Messages[i+1]
		if cur.Role != model.RoleUser || next.Role != model.RoleAssistant {
			continue
		}

		var b strings.Builder
		b.WriteString(system)
		if len(history) > 0 {
			b.WriteString("\n\nConversation history:\n")
			for _, m := range history {
				speaker := "You"
				if m.Role == model.RoleUser {
					speaker = "User"
				}
				fmt.Fprintf(&b, "%s: %s\n", speaker, strings.TrimSpace(m.Content))
			}
		}
		fmt.Fprintf(&b, "\nUser: %s\n\nYou: ", strings.TrimSpace(cur.Content))

		pairs = append(pairs, model.TrainingPair{
			Prompt:   strings.TrimSpace(b.String()),
			Response: strings.TrimSpace(next.Content),
		})

		history = append(history, cur, next)
		if len(history) > historyWindow {
			history = history[len(history)-historyWindow:]
		}
	}
	return pairs
}

func structuredLines(sd model.StructuredData) string {
	lines := []string{
		"STRUCTURED DATA:",
		"• Automation Level: " + orDefault(intString(sd.AutomationLevel), "Not detected") + "%",
		fmt.Sprintf("• AI Exposure Level: %d/5", sd.AIExposureLevel),
		fmt.Sprintf("• Change Readiness: %d/5", sd.ChangeReadiness),
		"• Tools Used: " + orDefault(strings.Join(sd.ToolsUsed, ", "), "None detected"),
		"• AI Tools Used: " + orDefault(strings.Join(sd.AIToolsUsed, ", "), "None detected"),
		"• Time Spent on Repetitive Tasks: " + orDefault(floatString(sd.TimeSpentOnRepetitiveTasks), "Not specified") + " hours/week",
	}
	return strings.Join(lines, "\n")
}

// intString renders n, treating nil and zero as absent
func intString(n *int) string {
	if n == nil || *n == 0 {
		return ""
	}
	return strconv.Itoa(*n)
}

func floatString(f *float64) string {
	if f == nil || *f == 0 {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
