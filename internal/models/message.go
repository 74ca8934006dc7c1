package models

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who authored a chat message
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// Message represents a chat entry. Once appended to a view it is never mutated.
type Message struct {
	ID        string
	Content   string
	Sender    Sender
	Timestamp time.Time
}

// NewMessage creates a message stamped with the given time
func NewMessage(content string, sender Sender, at time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    sender,
		Timestamp: at,
	}
}

// IsUser reports whether the message was written by the human operator
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// Clock returns the time-of-day label shown next to the message (two-digit hour:minute)
func (m Message) Clock() string {
	return m.Timestamp.Format("15:04")
}
