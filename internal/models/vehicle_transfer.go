package models

import (
	"time"

	"github.com/google/uuid"
)

// VehicleTransfer records a pending handover of a vehicle to another
// account. Read-only in the admin surface; no moderation action exists.
type VehicleTransfer struct {
	ID         uuid.UUID `db:"id"`
	VehicleID  uuid.UUID `db:"vehicle_id"`
	FromUserID uuid.UUID `db:"from_user_id"`
	ToEmail    string    `db:"to_email"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}
