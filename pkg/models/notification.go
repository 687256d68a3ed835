package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types emitted by workflow transitions.
const (
	NotificationConnectionRequest  = "CONNECTION_REQUEST"
	NotificationConnectionAccepted = "CONNECTION_ACCEPTED"
	NotificationConnectionRejected = "CONNECTION_REJECTED"
	NotificationProductInquiry     = "PRODUCT_INQUIRY"
	NotificationQuoteReceived      = "QUOTE_RECEIVED"
	NotificationQuoteAccepted      = "QUOTE_ACCEPTED"
	NotificationQuoteDeclined      = "QUOTE_DECLINED"
	NotificationNewMessage         = "NEW_MESSAGE"
)

// Notification is a user-facing event record. Rows are written on workflow
// transitions and mutated only to flip is_read.
// Stored in notifications table.
type Notification struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link,omitempty"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
