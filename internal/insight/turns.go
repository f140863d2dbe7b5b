package insight

import (
	"strings"

	"singularshift/internal/model"
)

// Turn is a user exchange followed by the assistant's reply. Consecutive
// messages from the same speaker coalesce into one turn.
type Turn struct {
	UserUtterances      []string
	AssistantUtterances []string
}

// GroupTurns groups the message log into turns. A new turn begins when a user
// message follows a turn that already holds an assistant message. System
// messages, unknown roles and blank content are skipped.
func GroupTurns(messages []model.Message) []Turn {
	var turns []Turn
	for _, m := range messages {
		text := strings.TrimSpace(m.Content)
		if text == "" {
			continue
		}
		switch m.Role {
		case model.RoleUser:
			if len(turns) == 0 || len(turns[len(turns)-1].AssistantUtterances) > 0 {
				turns = append(turns, Turn{})
			}
			cur := &turns[len(turns)-1]
			cur.UserUtterances = append(cur.UserUtterances, text)
		case model.RoleAssistant:
			if len(turns) == 0 {
				turns = append(turns, Turn{})
			}
			cur := &turns[len(turns)-1]
			cur.AssistantUtterances = append(cur.AssistantUtterances, text)
		}
	}
	return turns
}
