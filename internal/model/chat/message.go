package chat

import "time"

// Roles a transcript turn can carry.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message persists individual turns of an interview transcript.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
