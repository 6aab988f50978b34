package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the local snapshot of a principal kept in the domain store.
// The managed identity service is authoritative; this table only backs
// display enrichment when the identity service is not configured.
type User struct {
	ID        uuid.UUID `db:"id"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}
