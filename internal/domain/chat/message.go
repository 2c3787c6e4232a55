package chat

import "time"

// Role identifies the author of a transcript message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation transcript. SessionID is assigned
// by the backend on the first successful exchange; an outgoing message
// staged before that carries an empty session id and is retro-fitted once
// the id is known.
type Message struct {
	SessionID string    `json:"sessionId"`
	Text      string    `json:"message"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// SendRequest is the payload for posting a message. SessionID is omitted
// until the backend has assigned one.
type SendRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"sessionId,omitempty"`
}
