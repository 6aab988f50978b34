package models

import (
	"time"

	"github.com/google/uuid"
)

// Listing statuses. Admin review moves pending listings to approved,
// rejected, or on_hold; cancellation is seller-driven and out of scope.
const (
	ListingStatusPending   = "pending"
	ListingStatusApproved  = "approved"
	ListingStatusRejected  = "rejected"
	ListingStatusOnHold    = "on_hold"
	ListingStatusCancelled = "cancelled"
)

// VehicleListing is a marketplace listing for a vehicle. Reviewer
// identity and timestamp are recorded on every admin transition.
type VehicleListing struct {
	ID         uuid.UUID  `db:"id"`
	VehicleID  uuid.UUID  `db:"vehicle_id"`
	SellerID   uuid.UUID  `db:"seller_id"`
	Price      float64    `db:"price"`
	Status     string     `db:"status"`
	AdminNotes *string    `db:"admin_notes"`
	ReviewedBy *uuid.UUID `db:"reviewed_by"`
	ReviewedAt *time.Time `db:"reviewed_at"`
	CreatedAt  time.Time  `db:"created_at"`
}
