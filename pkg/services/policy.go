package services

import (
	"github.com/google/uuid"

	"github.com/agrilink-hq/agrilink-engine/pkg/models"
)

// Actor is a resolved marketplace participant: the authenticated user plus
// the profile they act through.
type Actor struct {
	UserID    string
	Role      models.Role
	ProfileID uuid.UUID
}

// IsParty reports whether the actor's profile is one side of the connection.
func (a Actor) IsParty(conn *models.Connection) bool {
	return conn.ProfileIDFor(a.Role) == a.ProfileID
}

// Capability checks for workflow mutations. These are pure functions over
// already loaded rows so they can be tested without storage.

// CanRespondToConnection reports whether the actor may accept or reject the
// connection: they must be the counterparty of the initiator and the
// connection must still be pending.
func CanRespondToConnection(actor Actor, conn *models.Connection) bool {
	if conn.Status != models.ConnectionPending {
		return false
	}
	if conn.InitiatedBy == actor.Role {
		return false
	}
	return actor.IsParty(conn)
}

// CanResignConnection reports whether the actor may delete the connection.
// Either party may resign at any status.
func CanResignConnection(actor Actor, conn *models.Connection) bool {
	return actor.IsParty(conn)
}

// CanViewConnection reports whether the actor may read the connection and
// its messages and quotes.
func CanViewConnection(actor Actor, conn *models.Connection) bool {
	return actor.IsParty(conn)
}

// CanSendMessage reports whether the actor may post a chat message on the
// connection: party membership plus an accepted connection.
func CanSendMessage(actor Actor, conn *models.Connection) bool {
	return actor.IsParty(conn) && conn.Status == models.ConnectionAccepted
}

// CanRespondToQuote reports whether the actor may accept or decline the
// quote: they must be a party of the quote's connection and must not be the
// quote's sender.
func CanRespondToQuote(actor Actor, quote *models.Quote, conn *models.Connection) bool {
	if quote.SenderUserID == actor.UserID {
		return false
	}
	return actor.IsParty(conn)
}
