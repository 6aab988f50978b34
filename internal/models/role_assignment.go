package models

import (
	"time"

	"github.com/google/uuid"
)

// Role names
const (
	RoleSuperAdmin = "super_admin"
)

// RoleAssignment is a (principal, role) pair. Uniqueness per pair is
// enforced by the database; presence of a super_admin assignment is the
// sole source of truth for admin authorization.
type RoleAssignment struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}
