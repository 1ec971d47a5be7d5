// Package assistant holds the per-invocation values exchanged by the graph
// question assistant: conversation turns, the model's directive and the
// response returned to the caller.
package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ConversationTurn is one message in the exchange with the language model.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserTurn builds a user-authored turn.
func UserTurn(content string) ConversationTurn {
	return ConversationTurn{Role: RoleUser, Content: content}
}

// AssistantTurn builds an assistant-authored turn.
func AssistantTurn(content string) ConversationTurn {
	return ConversationTurn{Role: RoleAssistant, Content: content}
}

// ParseHistory decodes a serialized conversation history, oldest turn first.
// Blank input is an empty history. Roles are matched case-insensitively.
func ParseHistory(raw string) ([]ConversationTurn, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}

	var turns []ConversationTurn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}

	for i := range turns {
		turns[i].Role = Role(strings.ToLower(strings.TrimSpace(string(turns[i].Role))))
		if !turns[i].Role.IsValid() {
			return nil, fmt.Errorf("history turn %d: unknown role %q", i, turns[i].Role)
		}
	}
	return turns, nil
}

// BuildMessages appends the question to a copy of history as the final user turn.
func BuildMessages(history []ConversationTurn, question string) []ConversationTurn {
	messages := make([]ConversationTurn, 0, len(history)+1)
	messages = append(messages, history...)
	return append(messages, UserTurn(question))
}

// TrimLeadingNonUser drops turns from the front until the first remaining
// turn is user-authored. Some conversational model APIs reject sequences
// that open with an assistant turn.
func TrimLeadingNonUser(messages []ConversationTurn) []ConversationTurn {
	for i, m := range messages {
		if m.Role == RoleUser {
			return messages[i:]
		}
	}
	return nil
}
