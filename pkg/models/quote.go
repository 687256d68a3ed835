package models

import (
	"time"

	"github.com/google/uuid"
)

// QuoteStatus is the lifecycle state of a commercial proposal.
type QuoteStatus string

const (
	QuotePending  QuoteStatus = "PENDING"
	QuoteAccepted QuoteStatus = "ACCEPTED"
	QuoteDeclined QuoteStatus = "DECLINED"
)

// Quote is a priced commercial proposal attached to a connection.
// Immutable after reaching a terminal status.
// Stored in quotes table.
type Quote struct {
	ID           uuid.UUID   `json:"id"`
	ConnectionID uuid.UUID   `json:"connection_id"`
	SenderUserID string      `json:"sender_user_id"`
	ProductName  string      `json:"product_name"`
	Quantity     float64     `json:"quantity"`
	Unit         string      `json:"unit"` // e.g. 'kg', 'ton', 'crate'
	UnitPrice    float64     `json:"unit_price"`
	TotalAmount  float64     `json:"total_amount"`
	Notes        string      `json:"notes,omitempty"`
	Status       QuoteStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
