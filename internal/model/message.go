package model

import "strings"

// Role identifies the speaker of a transcript message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known speaker roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message is one final transcript fragment, in conversational order
type Message struct {
	Role    Role   `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}

// SubstantiveMinLength is the length a user message must exceed to count as substantive
const SubstantiveMinLength = 10

// CountSubstantive returns how many user messages are longer than SubstantiveMinLength
func CountSubstantive(messages []Message) int {
	n := 0
	for _, m := range messages {
		if m.Role == RoleUser && len(strings.TrimSpace(m.Content)) > SubstantiveMinLength {
			n++
		}
	}
	return n
}
