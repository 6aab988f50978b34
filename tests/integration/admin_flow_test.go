package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motofleet/admin-api/internal/models"
)

// TestAdminFlow exercises the full stack against a real database:
// token auth, the role gate, aggregation reads, and moderation writes.
func TestAdminFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	ts := NewTestServer(testDB.DB)
	defer ts.Close()

	// Seed an admin, a regular owner, and a vehicle with a listing
	adminID, err := SeedUser(ctx, testDB.Pool, UniqueEmail("admin"))
	require.NoError(t, err)
	require.NoError(t, ts.Roles.Assign(ctx, adminID, models.RoleSuperAdmin))

	ownerID, err := SeedUser(ctx, testDB.Pool, UniqueEmail("owner"))
	require.NoError(t, err)

	vehicleID, err := SeedVehicle(ctx, testDB.Pool, ownerID, "KA01AB1234", false)
	require.NoError(t, err)

	listingID, err := SeedListing(ctx, testDB.Pool, vehicleID, ownerID, 45000)
	require.NoError(t, err)

	adminToken, err := ts.TokenManager.GenerateAccessToken(adminID.String(), "admin@test.local")
	require.NoError(t, err)
	ownerToken, err := ts.TokenManager.GenerateAccessToken(ownerID.String(), "owner@test.local")
	require.NoError(t, err)

	t.Run("rejects requests without a token", func(t *testing.T) {
		resp, err := ts.PostAdmin("", map[string]string{"type": "overview"})
		require.NoError(t, err)

		var body map[string]interface{}
		require.NoError(t, ParseJSONResponse(resp, &body))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "AUTH_MISSING", body["errorCode"])
	})

	t.Run("rejects authenticated non-admins", func(t *testing.T) {
		resp, err := ts.PostAdmin(ownerToken, map[string]string{"type": "overview"})
		require.NoError(t, err)

		var body map[string]interface{}
		require.NoError(t, ParseJSONResponse(resp, &body))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", body["errorCode"])
	})

	t.Run("rejects unknown actions", func(t *testing.T) {
		resp, err := ts.PostAdmin(adminToken, map[string]string{"type": "drop_tables"})
		require.NoError(t, err)

		var body map[string]interface{}
		require.NoError(t, ParseJSONResponse(resp, &body))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "UNKNOWN_ACTION", body["errorCode"])
	})

	t.Run("overview counts seeded data", func(t *testing.T) {
		resp, err := ts.PostAdmin(adminToken, map[string]string{"type": "overview"})
		require.NoError(t, err)

		var body map[string]interface{}
		require.NoError(t, ParseJSONResponse(resp, &body))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(1), body["totalVehicles"])
		assert.Equal(t, float64(0), body["verifiedVehicles"])
		assert.Equal(t, float64(1), body["pendingListings"])
	})

	t.Run("verifies a vehicle and records history", func(t *testing.T) {
		resp, err := ts.PostAdmin(adminToken, map[string]interface{}{
			"type":       "set_vehicle_verification",
			"vehicleId":  vehicleID.String(),
			"isVerified": true,
		})
		require.NoError(t, err)

		var body map[string]interface{}
		require.NoError(t, ParseJSONResponse(resp, &body))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["isVerified"])

		count, err := ts.History.CountByVehicleID(ctx, vehicleID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("suspend is rejected for self and duplicates", func(t *testing.T) {
		resp, err := ts.PostAdmin(adminToken, map[string]interface{}{
			"type":   "suspend_user",
			"userId": adminID.String(),
		})
		require.NoError(t, err)
		var body map[string]interface{}
		require.NoError(t, ParseJSONResponse(resp, &body))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "SELF_SUSPENSION", body["errorCode"])

		resp, err = ts.PostAdmin(adminToken, map[string]interface{}{
			"type":   "suspend_user",
			"userId": ownerID.String(),
			"reason": "fraudulent documents",
		})
		require.NoError(t, err)
		require.NoError(t, ParseJSONResponse(resp, &body))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = ts.PostAdmin(adminToken, map[string]interface{}{
			"type":   "suspend_user",
			"userId": ownerID.String(),
		})
		require.NoError(t, err)
		require.NoError(t, ParseJSONResponse(resp, &body))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "ALREADY_SUSPENDED", body["errorCode"])
	})

	t.Run("unsuspend is idempotent", func(t *testing.T) {
		resp, err := ts.PostAdmin(adminToken, map[string]interface{}{
			"type":   "unsuspend_user",
			"userId": ownerID.String(),
		})
		require.NoError(t, err)
		var body map[string]interface{}
		require.NoError(t, ParseJSONResponse(resp, &body))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["removed"])

		resp, err = ts.PostAdmin(adminToken, map[string]interface{}{
			"type":   "unsuspend_user",
			"userId": ownerID.String(),
		})
		require.NoError(t, err)
		require.NoError(t, ParseJSONResponse(resp, &body))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, body["removed"])
	})

	t.Run("listing review updates status and reviewer", func(t *testing.T) {
		resp, err := ts.PostAdmin(adminToken, map[string]interface{}{
			"type":       "update_listing_status",
			"listingId":  listingID.String(),
			"status":     "approved",
			"adminNotes": "documents check out",
		})
		require.NoError(t, err)

		var body map[string]interface{}
		require.NoError(t, ParseJSONResponse(resp, &body))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "approved", body["status"])

		listing, err := ts.Listings.GetByID(ctx, listingID)
		require.NoError(t, err)
		require.NotNil(t, listing.ReviewedBy)
		assert.Equal(t, adminID, *listing.ReviewedBy)
		assert.NotNil(t, listing.ReviewedAt)
	})

	t.Run("approved listing cannot be re-reviewed", func(t *testing.T) {
		resp, err := ts.PostAdmin(adminToken, map[string]interface{}{
			"type":      "update_listing_status",
			"listingId": listingID.String(),
			"status":    "rejected",
		})
		require.NoError(t, err)

		var body map[string]interface{}
		require.NoError(t, ParseJSONResponse(resp, &body))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "STATUS_TERMINAL", body["errorCode"])

		listing, err := ts.Listings.GetByID(ctx, listingID)
		require.NoError(t, err)
		assert.Equal(t, models.ListingStatusApproved, listing.Status)
	})

	t.Run("resolved claim cannot change status", func(t *testing.T) {
		claimantID, err := SeedUser(ctx, testDB.Pool, UniqueEmail("claimant"))
		require.NoError(t, err)
		claimID, err := SeedClaim(ctx, testDB.Pool, vehicleID, claimantID, ownerID)
		require.NoError(t, err)

		resp, err := ts.PostAdmin(adminToken, map[string]interface{}{
			"type":    "update_claim_status",
			"claimId": claimID.String(),
			"status":  "resolved",
		})
		require.NoError(t, err)
		var body map[string]interface{}
		require.NoError(t, ParseJSONResponse(resp, &body))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = ts.PostAdmin(adminToken, map[string]interface{}{
			"type":    "update_claim_status",
			"claimId": claimID.String(),
			"status":  "rejected",
		})
		require.NoError(t, err)
		require.NoError(t, ParseJSONResponse(resp, &body))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "STATUS_TERMINAL", body["errorCode"])
	})

	t.Run("lists users with enrichment", func(t *testing.T) {
		resp, err := ts.PostAdmin(adminToken, map[string]interface{}{
			"type": "users",
			"page": 1,
		})
		require.NoError(t, err)

		var body struct {
			Success    bool `json:"success"`
			TotalCount int  `json:"totalCount"`
			Users      []struct {
				UserID       string `json:"userId"`
				Email        string `json:"email"`
				VehicleCount int    `json:"vehicleCount"`
			} `json:"users"`
		}
		require.NoError(t, ParseJSONResponse(resp, &body))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.True(t, body.Success)
		require.Len(t, body.Users, 1)
		assert.Equal(t, ownerID.String(), body.Users[0].UserID)
		assert.NotEqual(t, "Unknown", body.Users[0].Email)
		assert.Equal(t, 1, body.Users[0].VehicleCount)
	})

	t.Run("revoked admin loses access immediately", func(t *testing.T) {
		require.NoError(t, ts.Roles.Revoke(ctx, adminID, models.RoleSuperAdmin))

		resp, err := ts.PostAdmin(adminToken, map[string]string{"type": "overview"})
		require.NoError(t, err)

		var body map[string]interface{}
		require.NoError(t, ParseJSONResponse(resp, &body))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", body["errorCode"])
	})
}
