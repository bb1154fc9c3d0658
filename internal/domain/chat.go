package domain

import "time"

// MessageRole enumerates who authored a chat message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// ChatMessage is one turn of the study-plan conversation. StudyPlanID is
// set only on assistant messages whose response produced a plan.
type ChatMessage struct {
	ID          int         `json:"id"`
	UserID      int         `json:"userId"`
	StudyPlanID int         `json:"studyPlanId,omitempty"`
	Role        MessageRole `json:"role"`
	Content     string      `json:"content"`
	Timestamp   time.Time   `json:"timestamp"`
}

// NewChatMessage carries the caller-supplied fields for message creation.
// The store assigns ID and Timestamp.
type NewChatMessage struct {
	UserID      int
	StudyPlanID int
	Role        MessageRole
	Content     string
}
