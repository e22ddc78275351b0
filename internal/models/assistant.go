package models

import "time"

const (
	AssistantSenderUser      = "user"
	AssistantSenderAssistant = "assistant"
)

// AssistantConversation is the single AI-assistant thread a user owns.
type AssistantConversation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AssistantMessage struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
