package models

import (
	"time"

	"github.com/google/uuid"
)

// Suspension blocks a principal from sensitive app functionality.
// At most one active record exists per principal, enforced by a unique
// constraint on user_id so concurrent suspends cannot double-insert.
type Suspension struct {
	ID          uuid.UUID `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	SuspendedBy uuid.UUID `db:"suspended_by"`
	Reason      *string   `db:"reason"`
	CreatedAt   time.Time `db:"created_at"`
}
