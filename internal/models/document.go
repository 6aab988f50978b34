package models

import (
	"time"

	"github.com/google/uuid"
)

// Document types recognized by the upload pipeline
const (
	DocTypeRegistration = "registration_certificate"
	DocTypeInsurance    = "insurance"
	DocTypePUC          = "puc_certificate"
	DocTypeOther        = "other"
)

// Document belongs to exactly one vehicle and one uploading principal.
// Extraction of structured fields happens upstream; this service only
// counts and correlates documents.
type Document struct {
	ID          uuid.UUID  `db:"id"`
	VehicleID   uuid.UUID  `db:"vehicle_id"`
	UserID      uuid.UUID  `db:"user_id"`
	DocType     string     `db:"doc_type"`
	StoragePath string     `db:"storage_path"`
	ExpiryDate  *time.Time `db:"expiry_date"`
	CreatedAt   time.Time  `db:"created_at"`
}
