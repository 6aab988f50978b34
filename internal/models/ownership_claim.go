package models

import (
	"time"

	"github.com/google/uuid"
)

// Ownership claim statuses. Transitions are admin-driven and terminal
// once the claim leaves pending.
const (
	ClaimStatusPending  = "pending"
	ClaimStatusResolved = "resolved"
	ClaimStatusRejected = "rejected"
	ClaimStatusExpired  = "expired"
)

// OwnershipClaim links a claimant principal, the current owner, and a
// vehicle under dispute.
type OwnershipClaim struct {
	ID         uuid.UUID `db:"id"`
	VehicleID  uuid.UUID `db:"vehicle_id"`
	ClaimantID uuid.UUID `db:"claimant_id"`
	OwnerID    uuid.UUID `db:"owner_id"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
