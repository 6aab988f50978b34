package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/motofleet/admin-api/internal/models"
	"github.com/motofleet/admin-api/pkg/logger"
)

type SuspensionStore interface {
	Create(ctx context.Context, suspension *models.Suspension) (*models.Suspension, error)
	Delete(ctx context.Context, userID uuid.UUID) (int64, error)
}

type VehicleModerator interface {
	SetVerification(ctx context.Context, id uuid.UUID, isVerified bool) (*models.Vehicle, error)
}

type ClaimModerator interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.OwnershipClaim, error)
}

type ListingModerator interface {
	UpdateReview(ctx context.Context, id uuid.UUID, status string, adminNotes *string, reviewedBy uuid.UUID) (*models.VehicleListing, error)
}

type HistoryWriter interface {
	Create(ctx context.Context, event *models.HistoryEvent) (*models.HistoryEvent, error)
}

// ModerationService carries out the write-side admin actions. Every
// mutation is followed by an audit record: a vehicle history event when
// the action touches a vehicle, and always a structured moderation log.
type ModerationService struct {
	suspensions SuspensionStore
	vehicles    VehicleModerator
	claims      ClaimModerator
	listings    ListingModerator
	history     HistoryWriter
	audit       *logger.ModerationLogger
	logger      *slog.Logger
}

func NewModerationService(
	suspensions SuspensionStore,
	vehicles VehicleModerator,
	claims ClaimModerator,
	listings ListingModerator,
	history HistoryWriter,
	audit *logger.ModerationLogger,
	log *slog.Logger,
) *ModerationService {
	return &ModerationService{
		suspensions: suspensions,
		vehicles:    vehicles,
		claims:      claims,
		listings:    listings,
		history:     history,
		audit:       audit,
		logger:      log,
	}
}

// SuspendUser suspends the target principal. Suspending yourself is
// rejected, and suspending an already-suspended user surfaces
// models.ErrAlreadySuspended from the unique constraint, so two
// concurrent suspends cannot both succeed.
func (s *ModerationService) SuspendUser(ctx context.Context, adminID, targetID uuid.UUID, reason *string) (*models.Suspension, error) {
	if adminID == targetID {
		return nil, models.ErrSelfSuspension
	}

	suspension, err := s.suspensions.Create(ctx, &models.Suspension{
		UserID:      targetID,
		SuspendedBy: adminID,
		Reason:      reason,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			err = models.ErrAlreadySuspended
		}
		s.audit.LogAction(logger.ModerationEvent{
			Action:        "suspend_user",
			AdminID:       adminID.String(),
			TargetType:    "user",
			TargetID:      targetID.String(),
			Success:       false,
			FailureReason: err.Error(),
		})
		return nil, err
	}

	s.audit.LogAction(logger.ModerationEvent{
		Action:     "suspend_user",
		AdminID:    adminID.String(),
		TargetType: "user",
		TargetID:   targetID.String(),
		Success:    true,
	})

	return suspension, nil
}

// UnsuspendUser lifts a suspension. Lifting a suspension that does not
// exist is a successful no-op; the returned flag reports whether a
// record was actually removed.
func (s *ModerationService) UnsuspendUser(ctx context.Context, adminID, targetID uuid.UUID) (bool, error) {
	removed, err := s.suspensions.Delete(ctx, targetID)
	if err != nil {
		return false, err
	}

	s.audit.LogAction(logger.ModerationEvent{
		Action:     "unsuspend_user",
		AdminID:    adminID.String(),
		TargetType: "user",
		TargetID:   targetID.String(),
		Success:    true,
		Metadata:   map[string]string{"removed": strconv.FormatBool(removed > 0)},
	})

	return removed > 0, nil
}

// SetVehicleVerification flips a vehicle's verification flag. The
// update doubles as the existence check: a missing vehicle returns
// models.ErrNotFound with no history written. On success exactly one
// history event is appended, attributed to the vehicle owner with the
// acting admin recorded in metadata.
func (s *ModerationService) SetVehicleVerification(ctx context.Context, adminID, vehicleID uuid.UUID, verified bool) (*models.Vehicle, error) {
	vehicle, err := s.vehicles.SetVerification(ctx, vehicleID, verified)
	if err != nil {
		return nil, err
	}

	eventType := models.HistoryEventAdminVerified
	description := "Vehicle verified by administrator"
	if !verified {
		eventType = models.HistoryEventAdminUnverified
		description = "Vehicle verification removed by administrator"
	}

	if _, err := s.history.Create(ctx, &models.HistoryEvent{
		VehicleID:   vehicle.ID,
		UserID:      vehicle.UserID,
		EventType:   eventType,
		Description: description,
		Metadata: models.EventMetadata{
			"adminId":  adminID.String(),
			"verified": verified,
		},
	}); err != nil {
		// The verification change is already committed; surface the
		// audit failure instead of silently dropping the trail.
		s.logger.Error("failed to record verification history event",
			slog.String("vehicle_id", vehicle.ID.String()),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to record history event: %w", err)
	}

	s.audit.LogAction(logger.ModerationEvent{
		Action:     "set_vehicle_verification",
		AdminID:    adminID.String(),
		TargetType: "vehicle",
		TargetID:   vehicle.ID.String(),
		Success:    true,
		Metadata:   map[string]string{"verified": strconv.FormatBool(verified)},
	})

	return vehicle, nil
}

// UpdateClaimStatus moves an ownership claim to a new status and
// appends a resolution event to the vehicle's history.
func (s *ModerationService) UpdateClaimStatus(ctx context.Context, adminID, claimID uuid.UUID, status string) (*models.OwnershipClaim, error) {
	claim, err := s.claims.UpdateStatus(ctx, claimID, status)
	if err != nil {
		return nil, err
	}

	if _, err := s.history.Create(ctx, &models.HistoryEvent{
		VehicleID:   claim.VehicleID,
		UserID:      claim.ClaimantID,
		EventType:   models.HistoryEventClaimResolved,
		Description: fmt.Sprintf("Ownership claim %s by administrator", status),
		Metadata: models.EventMetadata{
			"adminId": adminID.String(),
			"claimId": claim.ID.String(),
			"status":  status,
		},
	}); err != nil {
		s.logger.Error("failed to record claim history event",
			slog.String("claim_id", claim.ID.String()),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to record history event: %w", err)
	}

	s.audit.LogAction(logger.ModerationEvent{
		Action:     "update_claim_status",
		AdminID:    adminID.String(),
		TargetType: "claim",
		TargetID:   claim.ID.String(),
		Success:    true,
		Metadata:   map[string]string{"status": status},
	})

	return claim, nil
}

// UpdateListingStatus applies an admin review decision to a listing,
// recording reviewer identity and timestamp, and appends a review event
// to the vehicle's history.
func (s *ModerationService) UpdateListingStatus(ctx context.Context, adminID, listingID uuid.UUID, status string, adminNotes *string) (*models.VehicleListing, error) {
	listing, err := s.listings.UpdateReview(ctx, listingID, status, adminNotes, adminID)
	if err != nil {
		return nil, err
	}

	metadata := models.EventMetadata{
		"adminId":   adminID.String(),
		"listingId": listing.ID.String(),
		"status":    status,
		"price":     listing.Price,
	}
	if adminNotes != nil {
		metadata["adminNotes"] = *adminNotes
	}

	if _, err := s.history.Create(ctx, &models.HistoryEvent{
		VehicleID:   listing.VehicleID,
		UserID:      listing.SellerID,
		EventType:   models.HistoryEventListingReviewed,
		Description: fmt.Sprintf("Listing %s by administrator", status),
		Metadata:    metadata,
	}); err != nil {
		s.logger.Error("failed to record listing history event",
			slog.String("listing_id", listing.ID.String()),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to record history event: %w", err)
	}

	s.audit.LogAction(logger.ModerationEvent{
		Action:     "update_listing_status",
		AdminID:    adminID.String(),
		TargetType: "listing",
		TargetID:   listing.ID.String(),
		Success:    true,
		Metadata:   map[string]string{"status": status},
	})

	return listing, nil
}
