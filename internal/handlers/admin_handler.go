package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/motofleet/admin-api/internal/auth"
	"github.com/motofleet/admin-api/internal/models"
	"github.com/motofleet/admin-api/internal/services"
	pkghttp "github.com/motofleet/admin-api/pkg/http"
)

// maxBodyBytes bounds the request body; admin action payloads are small.
const maxBodyBytes = 64 << 10

// AdminQueryService defines the read-side contract.
type AdminQueryService interface {
	GetOverview(ctx context.Context) (*services.OverviewResponse, error)
	ListUsers(ctx context.Context, req services.PageRequest) (*services.UsersResponse, error)
	ListVehicles(ctx context.Context, req services.PageRequest) (*services.VehiclesResponse, error)
	ListActivity(ctx context.Context, req services.PageRequest) (*services.ActivityResponse, error)
	ListTransfers(ctx context.Context, req services.PageRequest) (*services.TransfersResponse, error)
	ListClaims(ctx context.Context, req services.PageRequest) (*services.ClaimsResponse, error)
	ListListings(ctx context.Context, req services.PageRequest) (*services.ListingsResponse, error)
}

// ModerationServiceInterface defines the write-side contract.
type ModerationServiceInterface interface {
	SuspendUser(ctx context.Context, adminID, targetID uuid.UUID, reason *string) (*models.Suspension, error)
	UnsuspendUser(ctx context.Context, adminID, targetID uuid.UUID) (bool, error)
	SetVehicleVerification(ctx context.Context, adminID, vehicleID uuid.UUID, verified bool) (*models.Vehicle, error)
	UpdateClaimStatus(ctx context.Context, adminID, claimID uuid.UUID, status string) (*models.OwnershipClaim, error)
	UpdateListingStatus(ctx context.Context, adminID, listingID uuid.UUID, status string, adminNotes *string) (*models.VehicleListing, error)
}

// actionFunc handles one dispatched action. The raw body is passed so
// each action can bind its own parameter struct.
type actionFunc func(w http.ResponseWriter, r *http.Request, body []byte)

// AdminHandler serves the single admin endpoint. Operations are
// selected by the "type" field against a closed registry; anything
// outside the registry is rejected before touching any service.
type AdminHandler struct {
	queries    AdminQueryService
	moderation ModerationServiceInterface
	logger     *slog.Logger
	registry   map[string]actionFunc
}

func NewAdminHandler(queries AdminQueryService, moderation ModerationServiceInterface, logger *slog.Logger) *AdminHandler {
	h := &AdminHandler{
		queries:    queries,
		moderation: moderation,
		logger:     logger,
	}

	h.registry = map[string]actionFunc{
		"overview":                 h.getOverview,
		"users":                    h.getUsers,
		"vehicles":                 h.getVehicles,
		"activity":                 h.getActivity,
		"transfers":                h.getTransfers,
		"claims":                   h.getClaims,
		"listings":                 h.getListings,
		"suspend_user":             h.suspendUser,
		"unsuspend_user":           h.unsuspendUser,
		"set_vehicle_verification": h.setVehicleVerification,
		"update_claim_status":      h.updateClaimStatus,
		"update_listing_status":    h.updateListingStatus,
	}

	return h
}

// HandleAction handles POST /admin
func (h *AdminHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		pkghttp.WriteError(w, http.StatusBadRequest, pkghttp.CodeInvalidJSON, "Unable to read request body")
		return
	}

	var envelope ActionEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		pkghttp.WriteError(w, http.StatusBadRequest, pkghttp.CodeInvalidJSON, "Request body must be valid JSON")
		return
	}

	if envelope.Type == "" {
		pkghttp.WriteError(w, http.StatusBadRequest, pkghttp.CodeInvalidAction, "Missing action type")
		return
	}

	fn, ok := h.registry[envelope.Type]
	if !ok {
		pkghttp.WriteError(w, http.StatusBadRequest, pkghttp.CodeUnknownAction, "Unknown action: "+envelope.Type)
		return
	}

	fn(w, r, body)
}

// adminID extracts the authenticated admin's id from the request
// context. The auth middleware guarantees claims are present and the
// subject parses; a miss here means a wiring bug, not a client error.
func (h *AdminHandler) adminID(r *http.Request) (uuid.UUID, bool) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func writeValidationError(w http.ResponseWriter, ve *ValidationError) {
	pkghttp.WriteErrorWithDetails(w, http.StatusBadRequest, pkghttp.CodeValidationError,
		ve.Error(), map[string]interface{}{"field": ve.Field, "message": ve.Message})
}

// writeServiceError maps service failures onto the error envelope.
// Known state errors get their stable codes; everything else is a 500
// with the action's generic failure code.
func (h *AdminHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, failureCode, failureMessage string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	case errors.Is(err, models.ErrAlreadySuspended):
		pkghttp.WriteError(w, http.StatusConflict, pkghttp.CodeAlreadySuspended, "User is already suspended")
	case errors.Is(err, models.ErrSelfSuspension):
		pkghttp.WriteError(w, http.StatusBadRequest, pkghttp.CodeSelfSuspension, "Admins cannot suspend their own account")
	case errors.Is(err, models.ErrTerminalStatus):
		pkghttp.WriteError(w, http.StatusConflict, pkghttp.CodeStatusTerminal, "Status has already been decided and cannot change")
	default:
		h.logger.Error(failureMessage,
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Any("error", err),
		)
		pkghttp.WriteInternalError(w, failureCode, failureMessage)
	}
}

func bindPage(body []byte) services.PageRequest {
	var params PageParams
	// Page parameters are optional; a bind failure falls back to defaults
	_ = json.Unmarshal(body, &params)
	return services.PageRequest{Page: params.Page, PageSize: params.PageSize}
}

// ── read actions ──────────────────────────────────────────────────────────────

func (h *AdminHandler) getOverview(w http.ResponseWriter, r *http.Request, _ []byte) {
	resp, err := h.queries.GetOverview(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, pkghttp.CodeInternalError, "Failed to compute overview")
		return
	}
	pkghttp.WriteSuccess(w, resp)
}

func (h *AdminHandler) getUsers(w http.ResponseWriter, r *http.Request, body []byte) {
	resp, err := h.queries.ListUsers(r.Context(), bindPage(body))
	if err != nil {
		h.writeServiceError(w, r, err, pkghttp.CodeInternalError, "Failed to list users")
		return
	}
	pkghttp.WriteSuccess(w, resp)
}

func (h *AdminHandler) getVehicles(w http.ResponseWriter, r *http.Request, body []byte) {
	resp, err := h.queries.ListVehicles(r.Context(), bindPage(body))
	if err != nil {
		h.writeServiceError(w, r, err, pkghttp.CodeInternalError, "Failed to list vehicles")
		return
	}
	pkghttp.WriteSuccess(w, resp)
}

func (h *AdminHandler) getActivity(w http.ResponseWriter, r *http.Request, body []byte) {
	resp, err := h.queries.ListActivity(r.Context(), bindPage(body))
	if err != nil {
		h.writeServiceError(w, r, err, pkghttp.CodeInternalError, "Failed to list activity")
		return
	}
	pkghttp.WriteSuccess(w, resp)
}

func (h *AdminHandler) getTransfers(w http.ResponseWriter, r *http.Request, body []byte) {
	resp, err := h.queries.ListTransfers(r.Context(), bindPage(body))
	if err != nil {
		h.writeServiceError(w, r, err, pkghttp.CodeInternalError, "Failed to list transfers")
		return
	}
	pkghttp.WriteSuccess(w, resp)
}

func (h *AdminHandler) getClaims(w http.ResponseWriter, r *http.Request, body []byte) {
	resp, err := h.queries.ListClaims(r.Context(), bindPage(body))
	if err != nil {
		h.writeServiceError(w, r, err, pkghttp.CodeInternalError, "Failed to list claims")
		return
	}
	pkghttp.WriteSuccess(w, resp)
}

func (h *AdminHandler) getListings(w http.ResponseWriter, r *http.Request, body []byte) {
	resp, err := h.queries.ListListings(r.Context(), bindPage(body))
	if err != nil {
		h.writeServiceError(w, r, err, pkghttp.CodeInternalError, "Failed to list listings")
		return
	}
	pkghttp.WriteSuccess(w, resp)
}

// ── moderation actions ────────────────────────────────────────────────────────

func (h *AdminHandler) suspendUser(w http.ResponseWriter, r *http.Request, body []byte) {
	var req SuspendUserRequest
	if err := json.Unmarshal(body, &req); err != nil {
		pkghttp.WriteError(w, http.StatusBadRequest, pkghttp.CodeInvalidJSON, "Request body must be valid JSON")
		return
	}
	if ve := ValidateRequest(&req); ve != nil {
		writeValidationError(w, ve)
		return
	}

	adminID, ok := h.adminID(r)
	if !ok {
		pkghttp.WriteUnauthorized(w, pkghttp.CodeAuthMissing, "Missing authentication")
		return
	}

	suspension, err := h.moderation.SuspendUser(r.Context(), adminID, uuid.MustParse(req.UserID), req.Reason)
	if err != nil {
		h.writeServiceError(w, r, err, pkghttp.CodeSuspendFailed, "Failed to suspend user")
		return
	}

	pkghttp.WriteSuccess(w, map[string]interface{}{
		"userId":      suspension.UserID.String(),
		"suspendedAt": suspension.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *AdminHandler) unsuspendUser(w http.ResponseWriter, r *http.Request, body []byte) {
	var req UnsuspendUserRequest
	if err := json.Unmarshal(body, &req); err != nil {
		pkghttp.WriteError(w, http.StatusBadRequest, pkghttp.CodeInvalidJSON, "Request body must be valid JSON")
		return
	}
	if ve := ValidateRequest(&req); ve != nil {
		writeValidationError(w, ve)
		return
	}

	adminID, ok := h.adminID(r)
	if !ok {
		pkghttp.WriteUnauthorized(w, pkghttp.CodeAuthMissing, "Missing authentication")
		return
	}

	removed, err := h.moderation.UnsuspendUser(r.Context(), adminID, uuid.MustParse(req.UserID))
	if err != nil {
		h.writeServiceError(w, r, err, pkghttp.CodeUnsuspendFailed, "Failed to unsuspend user")
		return
	}

	pkghttp.WriteSuccess(w, map[string]interface{}{
		"userId":  req.UserID,
		"removed": removed,
	})
}

func (h *AdminHandler) setVehicleVerification(w http.ResponseWriter, r *http.Request, body []byte) {
	var req SetVehicleVerificationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		pkghttp.WriteError(w, http.StatusBadRequest, pkghttp.CodeInvalidJSON, "Request body must be valid JSON")
		return
	}
	if ve := ValidateRequest(&req); ve != nil {
		writeValidationError(w, ve)
		return
	}

	adminID, ok := h.adminID(r)
	if !ok {
		pkghttp.WriteUnauthorized(w, pkghttp.CodeAuthMissing, "Missing authentication")
		return
	}

	vehicle, err := h.moderation.SetVehicleVerification(r.Context(), adminID, uuid.MustParse(req.VehicleID), *req.IsVerified)
	if err != nil {
		h.writeServiceError(w, r, err, pkghttp.CodeUpdateFailed, "Failed to update vehicle verification")
		return
	}

	resp := map[string]interface{}{
		"vehicleId":  vehicle.ID.String(),
		"isVerified": vehicle.IsVerified,
	}
	if vehicle.VerifiedAt != nil {
		resp["verifiedAt"] = vehicle.VerifiedAt.UTC().Format(time.RFC3339)
	}
	pkghttp.WriteSuccess(w, resp)
}

func (h *AdminHandler) updateClaimStatus(w http.ResponseWriter, r *http.Request, body []byte) {
	var req UpdateClaimStatusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		pkghttp.WriteError(w, http.StatusBadRequest, pkghttp.CodeInvalidJSON, "Request body must be valid JSON")
		return
	}
	if ve := ValidateRequest(&req); ve != nil {
		writeValidationError(w, ve)
		return
	}

	adminID, ok := h.adminID(r)
	if !ok {
		pkghttp.WriteUnauthorized(w, pkghttp.CodeAuthMissing, "Missing authentication")
		return
	}

	claim, err := h.moderation.UpdateClaimStatus(r.Context(), adminID, uuid.MustParse(req.ClaimID), req.Status)
	if err != nil {
		h.writeServiceError(w, r, err, pkghttp.CodeUpdateFailed, "Failed to update claim status")
		return
	}

	pkghttp.WriteSuccess(w, map[string]interface{}{
		"claimId":   claim.ID.String(),
		"status":    claim.Status,
		"updatedAt": claim.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *AdminHandler) updateListingStatus(w http.ResponseWriter, r *http.Request, body []byte) {
	var req UpdateListingStatusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		pkghttp.WriteError(w, http.StatusBadRequest, pkghttp.CodeInvalidJSON, "Request body must be valid JSON")
		return
	}
	if ve := ValidateRequest(&req); ve != nil {
		writeValidationError(w, ve)
		return
	}

	adminID, ok := h.adminID(r)
	if !ok {
		pkghttp.WriteUnauthorized(w, pkghttp.CodeAuthMissing, "Missing authentication")
		return
	}

	listing, err := h.moderation.UpdateListingStatus(r.Context(), adminID, uuid.MustParse(req.ListingID), req.Status, req.AdminNotes)
	if err != nil {
		h.writeServiceError(w, r, err, pkghttp.CodeUpdateFailed, "Failed to update listing status")
		return
	}

	resp := map[string]interface{}{
		"listingId": listing.ID.String(),
		"status":    listing.Status,
	}
	if listing.ReviewedAt != nil {
		resp["reviewedAt"] = listing.ReviewedAt.UTC().Format(time.RFC3339)
	}
	pkghttp.WriteSuccess(w, resp)
}
