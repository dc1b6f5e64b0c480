package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/docchat/internal/domain/search/outcome"
)

// Sender identifies who authored a chat message.
type Sender string

const (
	// SenderUser is the person typing queries.
	SenderUser Sender = "user"
	// SenderAssistant is the dashboard answering with search results.
	SenderAssistant Sender = "assistant"
)

// Message is an ephemeral chat transcript entry. It is never persisted.
type Message struct {
	id        string
	text      string
	sender    Sender
	outcome   *outcome.Outcome
	createdAt time.Time
}

// NewUserMessage creates a message typed by the user.
func NewUserMessage(text string) Message {
	return Message{id: uuid.NewString(), text: text, sender: SenderUser, createdAt: time.Now().UTC()}
}

// NewAssistantMessage creates a response message with the outcome attached.
func NewAssistantMessage(text string, o *outcome.Outcome) Message {
	return Message{id: uuid.NewString(), text: text, sender: SenderAssistant, outcome: o, createdAt: time.Now().UTC()}
}

// NewSystemError creates an assistant message for a top-level failure.
func NewSystemError(reason string) Message {
	return NewAssistantMessage("Error: "+reason, nil)
}

// ID returns the message identifier.
func (m *Message) ID() string { return m.id }

// Text returns the message body.
func (m *Message) Text() string { return m.text }

// Sender returns the author role.
func (m *Message) Sender() Sender { return m.sender }

// Outcome returns the attached search outcome, nil if none.
func (m *Message) Outcome() *outcome.Outcome { return m.outcome }

// CreatedAt returns the creation time in UTC.
func (m *Message) CreatedAt() time.Time { return m.createdAt }
