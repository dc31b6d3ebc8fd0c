package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage represents one turn of a conversation. Interrupted is set
// when a streamed reply failed mid-flight; the partial text already
// delivered is kept.
type ChatMessage struct {
	ID          uuid.UUID `json:"id"`
	Role        Role      `json:"role"`
	Text        string    `json:"text"`
	Interrupted bool      `json:"interrupted,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChatSession represents one conversation. Its transcript is the ordered
// sequence of messages, mutated only by appending a user turn and then
// appending and updating the streaming model turn. Sessions are memory-only
// and reset on process restart.
type ChatSession struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
