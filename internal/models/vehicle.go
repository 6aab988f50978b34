package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Vehicle is owned by exactly one principal. Verification fields are
// mutated only through admin moderation actions.
type Vehicle struct {
	ID                 uuid.UUID  `db:"id"`
	UserID             uuid.UUID  `db:"user_id"`
	RegistrationNumber string     `db:"registration_number"`
	Make               string     `db:"make"`
	Model              string     `db:"model"`
	Year               *int       `db:"year"`
	IsVerified         bool       `db:"is_verified"`
	VerifiedAt         *time.Time `db:"verified_at"`
	InsuranceExpiry    *time.Time `db:"insurance_expiry"`
	PUCExpiry          *time.Time `db:"puc_expiry"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

// NormalizeRegistration canonicalizes a registration number before any
// lookup or insert: whitespace trimmed, uppercased.
func NormalizeRegistration(reg string) string {
	return strings.ToUpper(strings.TrimSpace(reg))
}
