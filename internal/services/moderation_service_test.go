package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/motofleet/admin-api/internal/models"
	"github.com/motofleet/admin-api/internal/services"
	pkglogger "github.com/motofleet/admin-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── mock implementations ──────────────────────────────────────────────────────

type mockSuspensionStore struct {
	createFunc func(ctx context.Context, suspension *models.Suspension) (*models.Suspension, error)
	deleteFunc func(ctx context.Context, userID uuid.UUID) (int64, error)
	created    []*models.Suspension
}

func (m *mockSuspensionStore) Create(ctx context.Context, suspension *models.Suspension) (*models.Suspension, error) {
	m.created = append(m.created, suspension)
	if m.createFunc == nil {
		out := *suspension
		out.ID = uuid.New()
		out.CreatedAt = time.Now()
		return &out, nil
	}
	return m.createFunc(ctx, suspension)
}
func (m *mockSuspensionStore) Delete(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.deleteFunc == nil {
		return 1, nil
	}
	return m.deleteFunc(ctx, userID)
}

type mockVehicleModerator struct {
	setVerificationFunc func(ctx context.Context, id uuid.UUID, isVerified bool) (*models.Vehicle, error)
}

func (m *mockVehicleModerator) SetVerification(ctx context.Context, id uuid.UUID, isVerified bool) (*models.Vehicle, error) {
	if m.setVerificationFunc == nil {
		now := time.Now()
		v := &models.Vehicle{ID: id, UserID: uuid.New(), IsVerified: isVerified}
		if isVerified {
			v.VerifiedAt = &now
		}
		return v, nil
	}
	return m.setVerificationFunc(ctx, id, isVerified)
}

type mockClaimModerator struct {
	updateStatusFunc func(ctx context.Context, id uuid.UUID, status string) (*models.OwnershipClaim, error)
}

func (m *mockClaimModerator) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.OwnershipClaim, error) {
	if m.updateStatusFunc == nil {
		return &models.OwnershipClaim{ID: id, VehicleID: uuid.New(), ClaimantID: uuid.New(), OwnerID: uuid.New(), Status: status, UpdatedAt: time.Now()}, nil
	}
	return m.updateStatusFunc(ctx, id, status)
}

type mockListingModerator struct {
	updateReviewFunc func(ctx context.Context, id uuid.UUID, status string, adminNotes *string, reviewedBy uuid.UUID) (*models.VehicleListing, error)
}

func (m *mockListingModerator) UpdateReview(ctx context.Context, id uuid.UUID, status string, adminNotes *string, reviewedBy uuid.UUID) (*models.VehicleListing, error) {
	if m.updateReviewFunc == nil {
		now := time.Now()
		return &models.VehicleListing{
			ID: id, VehicleID: uuid.New(), SellerID: uuid.New(), Price: 45000,
			Status: status, AdminNotes: adminNotes, ReviewedBy: &reviewedBy, ReviewedAt: &now,
		}, nil
	}
	return m.updateReviewFunc(ctx, id, status, adminNotes, reviewedBy)
}

type mockHistoryWriter struct {
	createFunc func(ctx context.Context, event *models.HistoryEvent) (*models.HistoryEvent, error)
	events     []*models.HistoryEvent
}

func (m *mockHistoryWriter) Create(ctx context.Context, event *models.HistoryEvent) (*models.HistoryEvent, error) {
	m.events = append(m.events, event)
	if m.createFunc == nil {
		return event, nil
	}
	return m.createFunc(ctx, event)
}

type moderationMocks struct {
	suspensions *mockSuspensionStore
	vehicles    *mockVehicleModerator
	claims      *mockClaimModerator
	listings    *mockListingModerator
	history     *mockHistoryWriter
}

func newModerationService(m *moderationMocks) *services.ModerationService {
	logger := testLogger()
	return services.NewModerationService(
		m.suspensions, m.vehicles, m.claims, m.listings, m.history,
		pkglogger.NewModerationLogger(logger), logger,
	)
}

func defaultModerationMocks() *moderationMocks {
	return &moderationMocks{
		suspensions: &mockSuspensionStore{},
		vehicles:    &mockVehicleModerator{},
		claims:      &mockClaimModerator{},
		listings:    &mockListingModerator{},
		history:     &mockHistoryWriter{},
	}
}

// ── suspension ────────────────────────────────────────────────────────────────

func TestSuspendUser_Success(t *testing.T) {
	m := defaultModerationMocks()
	svc := newModerationService(m)

	admin := uuid.New()
	target := uuid.New()
	reason := "fraudulent documents"

	suspension, err := svc.SuspendUser(context.Background(), admin, target, &reason)

	require.NoError(t, err)
	assert.Equal(t, target, suspension.UserID)
	assert.Equal(t, admin, suspension.SuspendedBy)
	require.Len(t, m.suspensions.created, 1)
	require.NotNil(t, m.suspensions.created[0].Reason)
	assert.Equal(t, reason, *m.suspensions.created[0].Reason)
}

func TestSuspendUser_RejectsSelfSuspension(t *testing.T) {
	m := defaultModerationMocks()
	svc := newModerationService(m)

	admin := uuid.New()
	_, err := svc.SuspendUser(context.Background(), admin, admin, nil)

	require.ErrorIs(t, err, models.ErrSelfSuspension)
	// The store must never be reached
	assert.Empty(t, m.suspensions.created)
}

func TestSuspendUser_TranslatesConflict(t *testing.T) {
	m := defaultModerationMocks()
	m.suspensions.createFunc = func(ctx context.Context, s *models.Suspension) (*models.Suspension, error) {
		return nil, models.ErrConflict
	}
	svc := newModerationService(m)

	_, err := svc.SuspendUser(context.Background(), uuid.New(), uuid.New(), nil)

	require.ErrorIs(t, err, models.ErrAlreadySuspended)
}

func TestUnsuspendUser_ReportsRemoval(t *testing.T) {
	m := defaultModerationMocks()
	svc := newModerationService(m)

	removed, err := svc.UnsuspendUser(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestUnsuspendUser_NoOpWhenNotSuspended(t *testing.T) {
	m := defaultModerationMocks()
	m.suspensions.deleteFunc = func(ctx context.Context, userID uuid.UUID) (int64, error) {
		return 0, nil
	}
	svc := newModerationService(m)

	removed, err := svc.UnsuspendUser(context.Background(), uuid.New(), uuid.New())

	require.NoError(t, err)
	assert.False(t, removed)
}

// ── vehicle verification ──────────────────────────────────────────────────────

func TestSetVehicleVerification_AppendsHistoryEvent(t *testing.T) {
	owner := uuid.New()
	vehicleID := uuid.New()

	m := defaultModerationMocks()
	m.vehicles.setVerificationFunc = func(ctx context.Context, id uuid.UUID, isVerified bool) (*models.Vehicle, error) {
		return &models.Vehicle{ID: id, UserID: owner, IsVerified: isVerified}, nil
	}
	svc := newModerationService(m)

	admin := uuid.New()
	vehicle, err := svc.SetVehicleVerification(context.Background(), admin, vehicleID, true)

	require.NoError(t, err)
	assert.True(t, vehicle.IsVerified)

	require.Len(t, m.history.events, 1)
	event := m.history.events[0]
	assert.Equal(t, models.HistoryEventAdminVerified, event.EventType)
	assert.Equal(t, vehicleID, event.VehicleID)
	assert.Equal(t, owner, event.UserID)
	assert.Equal(t, admin.String(), event.Metadata["adminId"])
}

func TestSetVehicleVerification_UnverifyEventType(t *testing.T) {
	m := defaultModerationMocks()
	svc := newModerationService(m)

	_, err := svc.SetVehicleVerification(context.Background(), uuid.New(), uuid.New(), false)

	require.NoError(t, err)
	require.Len(t, m.history.events, 1)
	assert.Equal(t, models.HistoryEventAdminUnverified, m.history.events[0].EventType)
}

func TestSetVehicleVerification_MissingVehicleWritesNoHistory(t *testing.T) {
	m := defaultModerationMocks()
	m.vehicles.setVerificationFunc = func(ctx context.Context, id uuid.UUID, isVerified bool) (*models.Vehicle, error) {
		return nil, models.ErrNotFound
	}
	svc := newModerationService(m)

	_, err := svc.SetVehicleVerification(context.Background(), uuid.New(), uuid.New(), true)

	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, m.history.events)
}

// ── claims ────────────────────────────────────────────────────────────────────

func TestUpdateClaimStatus_AppendsResolutionEvent(t *testing.T) {
	claimID := uuid.New()
	vehicleID := uuid.New()
	claimant := uuid.New()

	m := defaultModerationMocks()
	m.claims.updateStatusFunc = func(ctx context.Context, id uuid.UUID, status string) (*models.OwnershipClaim, error) {
		return &models.OwnershipClaim{ID: id, VehicleID: vehicleID, ClaimantID: claimant, Status: status}, nil
	}
	svc := newModerationService(m)

	claim, err := svc.UpdateClaimStatus(context.Background(), uuid.New(), claimID, models.ClaimStatusResolved)

	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusResolved, claim.Status)

	require.Len(t, m.history.events, 1)
	event := m.history.events[0]
	assert.Equal(t, models.HistoryEventClaimResolved, event.EventType)
	assert.Equal(t, vehicleID, event.VehicleID)
	assert.Equal(t, claimID.String(), event.Metadata["claimId"])
}

func TestUpdateClaimStatus_MissingClaim(t *testing.T) {
	m := defaultModerationMocks()
	m.claims.updateStatusFunc = func(ctx context.Context, id uuid.UUID, status string) (*models.OwnershipClaim, error) {
		return nil, models.ErrNotFound
	}
	svc := newModerationService(m)

	_, err := svc.UpdateClaimStatus(context.Background(), uuid.New(), uuid.New(), models.ClaimStatusRejected)

	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, m.history.events)
}

// ── listings ──────────────────────────────────────────────────────────────────

func TestUpdateClaimStatus_DecidedClaimWritesNoHistory(t *testing.T) {
	m := defaultModerationMocks()
	m.claims.updateStatusFunc = func(ctx context.Context, id uuid.UUID, status string) (*models.OwnershipClaim, error) {
		return nil, models.ErrTerminalStatus
	}
	svc := newModerationService(m)

	_, err := svc.UpdateClaimStatus(context.Background(), uuid.New(), uuid.New(), models.ClaimStatusRejected)

	require.ErrorIs(t, err, models.ErrTerminalStatus)
	assert.Empty(t, m.history.events)
}

func TestUpdateListingStatus_RecordsReviewerAndNotes(t *testing.T) {
	var gotReviewer uuid.UUID
	m := defaultModerationMocks()
	m.listings.updateReviewFunc = func(ctx context.Context, id uuid.UUID, status string, adminNotes *string, reviewedBy uuid.UUID) (*models.VehicleListing, error) {
		gotReviewer = reviewedBy
		now := time.Now()
		return &models.VehicleListing{
			ID: id, VehicleID: uuid.New(), SellerID: uuid.New(), Price: 45000,
			Status: status, AdminNotes: adminNotes, ReviewedBy: &reviewedBy, ReviewedAt: &now,
		}, nil
	}
	svc := newModerationService(m)

	admin := uuid.New()
	notes := "documents check out"
	listing, err := svc.UpdateListingStatus(context.Background(), admin, uuid.New(), models.ListingStatusApproved, &notes)

	require.NoError(t, err)
	assert.Equal(t, admin, gotReviewer)
	assert.Equal(t, models.ListingStatusApproved, listing.Status)

	require.Len(t, m.history.events, 1)
	event := m.history.events[0]
	assert.Equal(t, models.HistoryEventListingReviewed, event.EventType)
	assert.Equal(t, notes, event.Metadata["adminNotes"])
	assert.Equal(t, float64(45000), event.Metadata["price"])
}

func TestUpdateListingStatus_MissingListingWritesNoHistory(t *testing.T) {
	m := defaultModerationMocks()
	m.listings.updateReviewFunc = func(ctx context.Context, id uuid.UUID, status string, adminNotes *string, reviewedBy uuid.UUID) (*models.VehicleListing, error) {
		return nil, models.ErrNotFound
	}
	svc := newModerationService(m)

	_, err := svc.UpdateListingStatus(context.Background(), uuid.New(), uuid.New(), models.ListingStatusRejected, nil)

	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, m.history.events)
}

func TestUpdateListingStatus_DecidedListingWritesNoHistory(t *testing.T) {
	m := defaultModerationMocks()
	m.listings.updateReviewFunc = func(ctx context.Context, id uuid.UUID, status string, adminNotes *string, reviewedBy uuid.UUID) (*models.VehicleListing, error) {
		return nil, models.ErrTerminalStatus
	}
	svc := newModerationService(m)

	_, err := svc.UpdateListingStatus(context.Background(), uuid.New(), uuid.New(), models.ListingStatusRejected, nil)

	require.ErrorIs(t, err, models.ErrTerminalStatus)
	assert.Empty(t, m.history.events)
}

func TestUpdateListingStatus_HistoryFailureSurfaces(t *testing.T) {
	m := defaultModerationMocks()
	m.history.createFunc = func(ctx context.Context, event *models.HistoryEvent) (*models.HistoryEvent, error) {
		return nil, errors.New("insert failed")
	}
	svc := newModerationService(m)

	_, err := svc.UpdateListingStatus(context.Background(), uuid.New(), uuid.New(), models.ListingStatusApproved, nil)

	require.Error(t, err)
}
