package audit

import (
	"strings"

	"singularshift/internal/model"
)

// completionPhrases are the closings the interviewer assistant uses when it
// has covered every question
var completionPhrases = []string{
	"have a great day",
	"thank you for your time",
	"this concludes",
	"that concludes our",
	"interview is complete",
	"we've completed the interview",
	"we have completed the interview",
}

// recentAssistantWindow bounds how far back CompletionObserved looks
const recentAssistantWindow = 3

// ContainsCompletionPhrase reports whether an assistant utterance closes the interview
func ContainsCompletionPhrase(text string) bool {
	lower := strings.ToLower(strings.ReplaceAll(text, "’", "'"))
	for _, p := range completionPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// CompletionObserved scans the last few assistant messages of a log for a
// completion phrase
func CompletionObserved(messages []model.Message) bool {
	seen := 0
	for i := len(messages) - 1; i >= 0 && seen < recentAssistantWindow; i-- {
		if messages[i].Role != model.RoleAssistant {
			continue
		}
		seen++
		if ContainsCompletionPhrase(messages[i].Content) {
			return true
		}
	}
	return false
}

// IsFinalized applies the finalization rule: a completion phrase was
// observed and the participant gave enough substantive answers
func IsFinalized(completionObserved bool, messages []model.Message, minSubstantive int) bool {
	return completionObserved && model.CountSubstantive(messages) >= minSubstantive
}
