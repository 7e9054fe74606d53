package model

import "time"

// ChatMessageType distinguishes candidate messages from system/AI messages.
type ChatMessageType string

const (
	ChatMessageUser ChatMessageType = "user"
	ChatMessageAI   ChatMessageType = "ai"
)

// ChatMessage is one entry of the interview transcript. The transcript is
// append-only and display-only; ordering is insertion order.
type ChatMessage struct {
	ID         string          `json:"id"`
	Type       ChatMessageType `json:"type"`
	Content    string          `json:"content"`
	QuestionID string          `json:"question_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}
