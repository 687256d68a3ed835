package models

import (
	"time"

	"github.com/google/uuid"
)

// ConnectionStatus is the lifecycle state of a farmer-company link.
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "PENDING"
	ConnectionAccepted ConnectionStatus = "ACCEPTED"
	ConnectionRejected ConnectionStatus = "REJECTED"
)

// Connection links one farmer profile and one company profile.
// The (farmer_id, company_id) pair is unique at the schema level.
// Stored in connections table.
type Connection struct {
	ID          uuid.UUID        `json:"id"`
	FarmerID    uuid.UUID        `json:"farmer_id"`
	CompanyID   uuid.UUID        `json:"company_id"`
	Status      ConnectionStatus `json:"status"`
	InitiatedBy Role             `json:"initiated_by"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProfileIDFor returns the connection-side profile ID for the given role.
func (c *Connection) ProfileIDFor(role Role) uuid.UUID {
	if role == RoleFarmer {
		return c.FarmerID
	}
	return c.CompanyID
}
