package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types for the vehicle history trail
const (
	HistoryEventAdminVerified   = "ADMIN_VERIFIED"
	HistoryEventAdminUnverified = "ADMIN_UNVERIFIED"
	HistoryEventListingReviewed = "LISTING_REVIEWED"
	HistoryEventClaimResolved   = "CLAIM_RESOLVED"
	HistoryEventDocumentAdded   = "DOCUMENT_ADDED"
	HistoryEventOwnershipChange = "OWNERSHIP_CHANGE"
)

// HistoryEvent is an append-only audit entry tied to a vehicle and the
// acting principal. Events are never mutated or deleted.
type HistoryEvent struct {
	ID          uuid.UUID     `db:"id"`
	VehicleID   uuid.UUID     `db:"vehicle_id"`
	UserID      uuid.UUID     `db:"user_id"`
	EventType   string        `db:"event_type"`
	Description string        `db:"description"`
	Metadata    EventMetadata `db:"metadata"`
	CreatedAt   time.Time     `db:"created_at"`
}

// EventMetadata holds additional context for history events
type EventMetadata map[string]interface{}

// Scan implements sql.Scanner for JSONB
func (em *EventMetadata) Scan(value interface{}) error {
	if value == nil {
		*em = make(EventMetadata)
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return ErrBadRequest
	}

	var m map[string]interface{}
	if err := json.Unmarshal(bytes, &m); err != nil {
		return err
	}
	*em = EventMetadata(m)
	return nil
}

// Value implements driver.Valuer for JSONB
func (em EventMetadata) Value() (driver.Value, error) {
	if em == nil {
		return nil, nil
	}
	return json.Marshal(em)
}

// MarshalJSON implements json.Marshaler
func (em EventMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}(em))
}

// UnmarshalJSON implements json.Unmarshaler
func (em *EventMetadata) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*em = EventMetadata(m)
	return nil
}
