package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session status values. Status reflects the outcome of the most recent
// network operation for the session.
const (
	StatusNone       = ""
	StatusGenerating = "generating"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatSession is one independent conversation thread with its own history,
// product recommendations and status.
type ChatSession struct {
	SessionID    string             `json:"sessionId"`
	CreatedAt    string             `json:"createdAt"`
	Title        string             `json:"title,omitempty"`
	Conversation []ChatContextEntry `json:"conversation"`
	Products     []Product          `json:"products,omitempty"`
	Status       string             `json:"status,omitempty"`
}

// ChatContextEntry is one turn in a conversation.
type ChatContextEntry struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

// SessionMeta is a partial update of session fields. Nil fields are left
// untouched. The session id itself can never be changed through a meta
// update.
type SessionMeta struct {
	Title    *string    `json:"title,omitempty"`
	Status   *string    `json:"status,omitempty"`
	Products *[]Product `json:"products,omitempty"`
}

// NewChatSession creates an empty session with a fresh id and creation
// timestamp.
func NewChatSession(title string) ChatSession {
	return ChatSession{
		SessionID:    "session-" + uuid.New().String(),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		Title:        title,
		Conversation: []ChatContextEntry{},
	}
}
