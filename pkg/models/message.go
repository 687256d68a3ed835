package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageType distinguishes free-form chat from structured inquiries.
type MessageType string

const (
	MessageTypeChat           MessageType = "MESSAGE"
	MessageTypeProductInquiry MessageType = "PRODUCT_INQUIRY"
)

// MaxMessageLength caps chat message content.
const MaxMessageLength = 4000

// Message is a chat entry or structured inquiry within a connection.
// Messages are append-only: never mutated or deleted.
// Stored in messages table.
type Message struct {
	ID           uuid.UUID      `json:"id"`
	ConnectionID uuid.UUID      `json:"connection_id"`
	SenderUserID string         `json:"sender_user_id"`
	Content      string         `json:"content"`
	Type         MessageType    `json:"type"`
	Metadata     map[string]any `json:"metadata,omitempty"` // opaque payload for inquiries
	CreatedAt    time.Time      `json:"created_at"`
}

// InquiryProductName extracts the product name from inquiry metadata.
// Returns empty string for plain chat messages.
func (m *Message) InquiryProductName() string {
	if m.Type != MessageTypeProductInquiry || m.Metadata == nil {
		return ""
	}
	name, _ := m.Metadata["product_name"].(string)
	return name
}
