package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/motofleet/admin-api/internal/models"
	"github.com/motofleet/admin-api/internal/repositories"
	"golang.org/x/sync/errgroup"
)

// Narrow per-consumer repository interfaces, so unit tests can inject
// fakes without a database.

type VehicleReader interface {
	VehicleGetter
	List(ctx context.Context, limit, offset int) ([]*models.Vehicle, error)
	Count(ctx context.Context) (int64, error)
	CountVerified(ctx context.Context) (int64, error)
	ListOwners(ctx context.Context, limit, offset int) ([]*repositories.VehicleOwner, error)
	CountOwners(ctx context.Context) (int64, error)
}

type DocumentCounter interface {
	Count(ctx context.Context) (int64, error)
	CountExpiringBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type HistoryReader interface {
	List(ctx context.Context, limit, offset int) ([]*models.HistoryEvent, error)
	Count(ctx context.Context) (int64, error)
}

type TransferReader interface {
	List(ctx context.Context, limit, offset int) ([]*models.VehicleTransfer, error)
	Count(ctx context.Context) (int64, error)
}

type ClaimReader interface {
	List(ctx context.Context, limit, offset int) ([]*models.OwnershipClaim, error)
	Count(ctx context.Context) (int64, error)
}

type ListingReader interface {
	List(ctx context.Context, limit, offset int) ([]*models.VehicleListing, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type SuspensionReader interface {
	Count(ctx context.Context) (int64, error)
	SuspendedSet(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

// PageRequest carries the caller's pagination inputs before clamping.
type PageRequest struct {
	Page     int
	PageSize int
}

// PageMeta is the pagination metadata attached to every listing response.
type PageMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// AdminService serves the aggregation and listing reads behind the
// admin console.
type AdminService struct {
	vehicles    VehicleReader
	documents   DocumentCounter
	history     HistoryReader
	transfers   TransferReader
	claims      ClaimReader
	listings    ListingReader
	suspensions SuspensionReader
	enricher    *Enricher
	logger      *slog.Logger

	defaultPageSize int
	maxPageSize     int
}

func NewAdminService(
	vehicles VehicleReader,
	documents DocumentCounter,
	history HistoryReader,
	transfers TransferReader,
	claims ClaimReader,
	listings ListingReader,
	suspensions SuspensionReader,
	enricher *Enricher,
	logger *slog.Logger,
	defaultPageSize, maxPageSize int,
) *AdminService {
	return &AdminService{
		vehicles:        vehicles,
		documents:       documents,
		history:         history,
		transfers:       transfers,
		claims:          claims,
		listings:        listings,
		suspensions:     suspensions,
		enricher:        enricher,
		logger:          logger,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// normalizePage applies defaults and clamps the page size to the hard
// maximum. Oversized page sizes are clamped, never rejected.
func (s *AdminService) normalizePage(req PageRequest) (page, pageSize, offset int) {
	page = req.Page
	if page < 1 {
		page = 1
	}

	pageSize = req.PageSize
	if pageSize < 1 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	return page, pageSize, (page - 1) * pageSize
}

func pageMeta(page, pageSize int, totalCount int64) PageMeta {
	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	return PageMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

// ── overview ──────────────────────────────────────────────────────────────────

// OverviewResponse contains the scalar aggregates for the console's
// landing screen.
type OverviewResponse struct {
	TotalVehicles     int64 `json:"totalVehicles"`
	VerifiedVehicles  int64 `json:"verifiedVehicles"`
	TotalDocuments    int64 `json:"totalDocuments"`
	SuspendedUsers    int64 `json:"suspendedUsers"`
	ExpiringThisMonth int64 `json:"expiringThisMonth"`
	PendingListings   int64 `json:"pendingListings"`
}

// GetOverview computes the dashboard aggregates with six independent
// counting queries issued concurrently. The counts have no ordering
// dependency, so the only synchronization is waiting for all of them.
func (s *AdminService) GetOverview(ctx context.Context) (*OverviewResponse, error) {
	var resp OverviewResponse

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		resp.TotalVehicles, err = s.vehicles.Count(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		resp.VerifiedVehicles, err = s.vehicles.CountVerified(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		resp.TotalDocuments, err = s.documents.Count(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		resp.SuspendedUsers, err = s.suspensions.Count(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		resp.ExpiringThisMonth, err = s.documents.CountExpiringBetween(ctx, monthStart, monthEnd)
		return err
	})
	g.Go(func() error {
		var err error
		resp.PendingListings, err = s.listings.CountByStatus(ctx, models.ListingStatusPending)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("overview aggregation failed", slog.Any("error", err))
		return nil, err
	}

	return &resp, nil
}

// ── users ─────────────────────────────────────────────────────────────────────

// UserRow is one entry of the owner roster, derived by grouping
// vehicles by owner rather than listing principals directly.
type UserRow struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	VehicleCount int64  `json:"vehicleCount"`
	Suspended    bool   `json:"suspended"`
	FirstAddedAt string `json:"firstAddedAt"`
}

type UsersResponse struct {
	Users []UserRow `json:"users"`
	PageMeta
}

func (s *AdminService) ListUsers(ctx context.Context, req PageRequest) (*UsersResponse, error) {
	page, pageSize, offset := s.normalizePage(req)

	owners, err := s.vehicles.ListOwners(ctx, pageSize, offset)
	if err != nil {
		s.logger.Error("failed to list vehicle owners", slog.Any("error", err))
		return nil, err
	}

	total, err := s.vehicles.CountOwners(ctx)
	if err != nil {
		s.logger.Error("failed to count vehicle owners", slog.Any("error", err))
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0, len(owners))
	for _, o := range owners {
		userIDs = append(userIDs, o.UserID)
	}

	emails := s.enricher.Emails(ctx, userIDs)

	suspended, err := s.suspensions.SuspendedSet(ctx, userIDs)
	if err != nil {
		s.logger.Error("failed to resolve suspension set", slog.Any("error", err))
		return nil, err
	}

	rows := make([]UserRow, 0, len(owners))
	for _, o := range owners {
		rows = append(rows, UserRow{
			UserID:       o.UserID.String(),
			Email:        emails[o.UserID],
			VehicleCount: o.VehicleCount,
			Suspended:    suspended[o.UserID],
			FirstAddedAt: o.FirstAddedAt.UTC().Format(time.RFC3339),
		})
	}

	resp := &UsersResponse{Users: rows, PageMeta: pageMeta(page, pageSize, total)}
	return resp, nil
}

// ── vehicles ──────────────────────────────────────────────────────────────────

type VehicleRow struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"userId"`
	OwnerEmail         string  `json:"ownerEmail"`
	RegistrationNumber string  `json:"registrationNumber"`
	Make               string  `json:"make"`
	Model              string  `json:"model"`
	Year               *int    `json:"year,omitempty"`
	IsVerified         bool    `json:"isVerified"`
	VerifiedAt         *string `json:"verifiedAt,omitempty"`
	CreatedAt          string  `json:"createdAt"`
}

type VehiclesResponse struct {
	Vehicles []VehicleRow `json:"vehicles"`
	PageMeta
}

func (s *AdminService) ListVehicles(ctx context.Context, req PageRequest) (*VehiclesResponse, error) {
	page, pageSize, offset := s.normalizePage(req)

	vehicles, err := s.vehicles.List(ctx, pageSize, offset)
	if err != nil {
		s.logger.Error("failed to list vehicles", slog.Any("error", err))
		return nil, err
	}

	total, err := s.vehicles.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count vehicles", slog.Any("error", err))
		return nil, err
	}

	ownerIDs := make([]uuid.UUID, 0, len(vehicles))
	for _, v := range vehicles {
		ownerIDs = append(ownerIDs, v.UserID)
	}
	emails := s.enricher.Emails(ctx, ownerIDs)

	rows := make([]VehicleRow, 0, len(vehicles))
	for _, v := range vehicles {
		rows = append(rows, VehicleRow{
			ID:                 v.ID.String(),
			UserID:             v.UserID.String(),
			OwnerEmail:         emails[v.UserID],
			RegistrationNumber: v.RegistrationNumber,
			Make:               v.Make,
			Model:              v.Model,
			Year:               v.Year,
			IsVerified:         v.IsVerified,
			VerifiedAt:         formatTimePtr(v.VerifiedAt),
			CreatedAt:          v.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return &VehiclesResponse{Vehicles: rows, PageMeta: pageMeta(page, pageSize, total)}, nil
}

// ── activity ──────────────────────────────────────────────────────────────────

type ActivityRow struct {
	ID                 string               `json:"id"`
	VehicleID          string               `json:"vehicleId"`
	Registration       string               `json:"registration"`
	ActorID            string               `json:"actorId"`
	ActorEmail         string               `json:"actorEmail"`
	EventType          string               `json:"eventType"`
	Description        string               `json:"description"`
	Metadata           models.EventMetadata `json:"metadata,omitempty"`
	CreatedAt          string               `json:"createdAt"`
}

type ActivityResponse struct {
	Events []ActivityRow `json:"events"`
	PageMeta
}

func (s *AdminService) ListActivity(ctx context.Context, req PageRequest) (*ActivityResponse, error) {
	page, pageSize, offset := s.normalizePage(req)

	events, err := s.history.List(ctx, pageSize, offset)
	if err != nil {
		s.logger.Error("failed to list history events", slog.Any("error", err))
		return nil, err
	}

	total, err := s.history.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count history events", slog.Any("error", err))
		return nil, err
	}

	actorIDs := make([]uuid.UUID, 0, len(events))
	vehicleIDs := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		actorIDs = append(actorIDs, e.UserID)
		vehicleIDs = append(vehicleIDs, e.VehicleID)
	}
	emails := s.enricher.Emails(ctx, actorIDs)
	registrations := s.enricher.Registrations(ctx, vehicleIDs)

	rows := make([]ActivityRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, ActivityRow{
			ID:           e.ID.String(),
			VehicleID:    e.VehicleID.String(),
			Registration: registrations[e.VehicleID],
			ActorID:      e.UserID.String(),
			ActorEmail:   emails[e.UserID],
			EventType:    e.EventType,
			Description:  e.Description,
			Metadata:     e.Metadata,
			CreatedAt:    e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return &ActivityResponse{Events: rows, PageMeta: pageMeta(page, pageSize, total)}, nil
}

// ── transfers ─────────────────────────────────────────────────────────────────

type TransferRow struct {
	ID           string `json:"id"`
	VehicleID    string `json:"vehicleId"`
	Registration string `json:"registration"`
	FromUserID   string `json:"fromUserId"`
	FromEmail    string `json:"fromEmail"`
	ToEmail      string `json:"toEmail"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
}

type TransfersResponse struct {
	Transfers []TransferRow `json:"transfers"`
	PageMeta
}

func (s *AdminService) ListTransfers(ctx context.Context, req PageRequest) (*TransfersResponse, error) {
	page, pageSize, offset := s.normalizePage(req)

	transfers, err := s.transfers.List(ctx, pageSize, offset)
	if err != nil {
		s.logger.Error("failed to list transfers", slog.Any("error", err))
		return nil, err
	}

	total, err := s.transfers.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count transfers", slog.Any("error", err))
		return nil, err
	}

	senderIDs := make([]uuid.UUID, 0, len(transfers))
	vehicleIDs := make([]uuid.UUID, 0, len(transfers))
	for _, t := range transfers {
		senderIDs = append(senderIDs, t.FromUserID)
		vehicleIDs = append(vehicleIDs, t.VehicleID)
	}
	emails := s.enricher.Emails(ctx, senderIDs)
	registrations := s.enricher.Registrations(ctx, vehicleIDs)

	rows := make([]TransferRow, 0, len(transfers))
	for _, t := range transfers {
		rows = append(rows, TransferRow{
			ID:           t.ID.String(),
			VehicleID:    t.VehicleID.String(),
			Registration: registrations[t.VehicleID],
			FromUserID:   t.FromUserID.String(),
			FromEmail:    emails[t.FromUserID],
			ToEmail:      t.ToEmail,
			Status:       t.Status,
			CreatedAt:    t.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return &TransfersResponse{Transfers: rows, PageMeta: pageMeta(page, pageSize, total)}, nil
}

// ── claims ────────────────────────────────────────────────────────────────────

type ClaimRow struct {
	ID            string `json:"id"`
	VehicleID     string `json:"vehicleId"`
	Registration  string `json:"registration"`
	ClaimantID    string `json:"claimantId"`
	ClaimantEmail string `json:"claimantEmail"`
	OwnerID       string `json:"ownerId"`
	OwnerEmail    string `json:"ownerEmail"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
}

type ClaimsResponse struct {
	Claims []ClaimRow `json:"claims"`
	PageMeta
}

func (s *AdminService) ListClaims(ctx context.Context, req PageRequest) (*ClaimsResponse, error) {
	page, pageSize, offset := s.normalizePage(req)

	claims, err := s.claims.List(ctx, pageSize, offset)
	if err != nil {
		s.logger.Error("failed to list ownership claims", slog.Any("error", err))
		return nil, err
	}

	total, err := s.claims.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count ownership claims", slog.Any("error", err))
		return nil, err
	}

	principalIDs := make([]uuid.UUID, 0, len(claims)*2)
	vehicleIDs := make([]uuid.UUID, 0, len(claims))
	for _, c := range claims {
		principalIDs = append(principalIDs, c.ClaimantID, c.OwnerID)
		vehicleIDs = append(vehicleIDs, c.VehicleID)
	}
	emails := s.enricher.Emails(ctx, principalIDs)
	registrations := s.enricher.Registrations(ctx, vehicleIDs)

	rows := make([]ClaimRow, 0, len(claims))
	for _, c := range claims {
		rows = append(rows, ClaimRow{
			ID:            c.ID.String(),
			VehicleID:     c.VehicleID.String(),
			Registration:  registrations[c.VehicleID],
			ClaimantID:    c.ClaimantID.String(),
			ClaimantEmail: emails[c.ClaimantID],
			OwnerID:       c.OwnerID.String(),
			OwnerEmail:    emails[c.OwnerID],
			Status:        c.Status,
			CreatedAt:     c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return &ClaimsResponse{Claims: rows, PageMeta: pageMeta(page, pageSize, total)}, nil
}

// ── listings ──────────────────────────────────────────────────────────────────

type ListingRow struct {
	ID           string  `json:"id"`
	VehicleID    string  `json:"vehicleId"`
	Registration string  `json:"registration"`
	SellerID     string  `json:"sellerId"`
	SellerEmail  string  `json:"sellerEmail"`
	Price        float64 `json:"price"`
	Status       string  `json:"status"`
	AdminNotes   *string `json:"adminNotes,omitempty"`
	ReviewedBy   *string `json:"reviewedBy,omitempty"`
	ReviewedAt   *string `json:"reviewedAt,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

type ListingsResponse struct {
	Listings []ListingRow `json:"listings"`
	PageMeta
}

func (s *AdminService) ListListings(ctx context.Context, req PageRequest) (*ListingsResponse, error) {
	page, pageSize, offset := s.normalizePage(req)

	listings, err := s.listings.List(ctx, pageSize, offset)
	if err != nil {
		s.logger.Error("failed to list listings", slog.Any("error", err))
		return nil, err
	}

	total, err := s.listings.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count listings", slog.Any("error", err))
		return nil, err
	}

	sellerIDs := make([]uuid.UUID, 0, len(listings))
	vehicleIDs := make([]uuid.UUID, 0, len(listings))
	for _, l := range listings {
		sellerIDs = append(sellerIDs, l.SellerID)
		vehicleIDs = append(vehicleIDs, l.VehicleID)
	}
	emails := s.enricher.Emails(ctx, sellerIDs)
	registrations := s.enricher.Registrations(ctx, vehicleIDs)

	rows := make([]ListingRow, 0, len(listings))
	for _, l := range listings {
		var reviewedBy *string
		if l.ReviewedBy != nil {
			id := l.ReviewedBy.String()
			reviewedBy = &id
		}
		rows = append(rows, ListingRow{
			ID:           l.ID.String(),
			VehicleID:    l.VehicleID.String(),
			Registration: registrations[l.VehicleID],
			SellerID:     l.SellerID.String(),
			SellerEmail:  emails[l.SellerID],
			Price:        l.Price,
			Status:       l.Status,
			AdminNotes:   l.AdminNotes,
			ReviewedBy:   reviewedBy,
			ReviewedAt:   formatTimePtr(l.ReviewedAt),
			CreatedAt:    l.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return &ListingsResponse{Listings: rows, PageMeta: pageMeta(page, pageSize, total)}, nil
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
