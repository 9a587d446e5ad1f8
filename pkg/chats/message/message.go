// Package message defines the Message type used in LLM conversations.
package message

import (
	"github.com/germanamz/steerlab/pkg/chats/role"
)

// Message represents a single message in a conversation.
// It is a value type that copies cheaply and marshals directly to the
// role/content wire shape used by inference APIs.
type Message struct {
	Role    role.Role `json:"role"`
	Content string    `json:"content"`
}

// New creates a message with the given role and content.
func New(r role.Role, content string) Message {
	return Message{Role: r, Content: content}
}

// User creates a user message.
func User(content string) Message {
	return New(role.User, content)
}

// Assistant creates an assistant message.
func Assistant(content string) Message {
	return New(role.Assistant, content)
}

// System creates a system message.
func System(content string) Message {
	return New(role.System, content)
}
