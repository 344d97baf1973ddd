package memory

import (
	"strings"

	"github.com/SaiNageswarS/course-rag/llm"
)

// Conversation represents a conversation session with messages
type Conversation struct {
	ID       string        `json:"id"`
	Messages []llm.Message `json:"messages"`
}

func (m *Conversation) AddUserMessage(content string) {
	m.Messages = append(m.Messages, llm.Message{Role: llm.RoleUser, Content: content})
}

func (m *Conversation) AddAssistantMessage(content string) {
	m.Messages = append(m.Messages, llm.Message{Role: llm.RoleAssistant, Content: content})
}

// FormatHistory renders messages as a plain transcript, one "User:" or "Assistant:"
// line per message.
func FormatHistory(msgs []llm.Message) string {
	var sb strings.Builder
	for _, m := range msgs {
		switch m.Role {
		case llm.RoleUser:
			sb.WriteString("User: ")
		case llm.RoleAssistant:
			sb.WriteString("Assistant: ")
		default:
			continue
		}
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
