package handlers

// Every request body carries the action discriminator ("type") plus
// that action's parameters at the top level.

// ActionEnvelope selects the operation before any parameters are read.
type ActionEnvelope struct {
	Type string `json:"type"`
}

// PageParams are shared by all listing actions. Out-of-range values are
// normalized by the service, never rejected.
type PageParams struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

type SuspendUserRequest struct {
	UserID string  `json:"userId" validate:"required,uuid"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type UnsuspendUserRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

type SetVehicleVerificationRequest struct {
	VehicleID  string `json:"vehicleId" validate:"required,uuid"`
	IsVerified *bool  `json:"isVerified" validate:"required"`
}

type UpdateClaimStatusRequest struct {
	ClaimID string `json:"claimId" validate:"required,uuid"`
	Status  string `json:"status" validate:"required,oneof=resolved rejected expired"`
}

type UpdateListingStatusRequest struct {
	ListingID  string  `json:"listingId" validate:"required,uuid"`
	Status     string  `json:"status" validate:"required,oneof=approved rejected on_hold"`
	AdminNotes *string `json:"adminNotes,omitempty" validate:"omitempty,max=1000"`
}
