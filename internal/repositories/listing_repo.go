package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/motofleet/admin-api/internal/database"
	"github.com/motofleet/admin-api/internal/models"
)

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(db *database.DB) *ListingRepository {
	return &ListingRepository{pool: db.Pool}
}

func scanListingRow(scanner rowScanner) (*models.VehicleListing, error) {
	var l models.VehicleListing

	err := scanner.Scan(
		&l.ID, &l.VehicleID, &l.SellerID, &l.Price, &l.Status,
		&l.AdminNotes, &l.ReviewedBy, &l.ReviewedAt, &l.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &l, nil
}

func scanListingRows(rows pgx.Rows) ([]*models.VehicleListing, error) {
	defer rows.Close()

	listings := make([]*models.VehicleListing, 0)

	for rows.Next() {
		l, err := scanListingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listing rows: %w", err)
	}

	return listings, nil
}

const listingColumns = `id, vehicle_id, seller_id, price, status,
	       admin_notes, reviewed_by, reviewed_at, created_at`

func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VehicleListing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM vehicle_listings WHERE id = $1
	`

	return scanListingRow(r.pool.QueryRow(ctx, query, id))
}

func (r *ListingRepository) List(ctx context.Context, limit, offset int) ([]*models.VehicleListing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM vehicle_listings
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}

	return scanListingRows(rows)
}

func (r *ListingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vehicle_listings`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

func (r *ListingRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vehicle_listings WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count listings by status: %w", err)
	}
	return count, nil
}

// UpdateReview applies an admin review decision: status, notes, reviewer
// identity and timestamp in one statement, with no partial mutation.
// Only pending and on-hold listings are reviewable; an on-hold listing
// stays open for a later decision, but approved, rejected and cancelled
// ones are terminal. Zero rows then means a missing listing
// (models.ErrNotFound) or a terminal one (models.ErrTerminalStatus).
func (r *ListingRepository) UpdateReview(ctx context.Context, id uuid.UUID, status string, adminNotes *string, reviewedBy uuid.UUID) (*models.VehicleListing, error) {
	query := `
		UPDATE vehicle_listings
		SET status = $2, admin_notes = $3, reviewed_by = $4, reviewed_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'on_hold')
		RETURNING ` + listingColumns + `
	`

	listing, err := scanListingRow(r.pool.QueryRow(ctx, query, id, status, adminNotes, reviewedBy))
	if errors.Is(err, models.ErrNotFound) {
		var exists bool
		if checkErr := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM vehicle_listings WHERE id = $1)`, id).Scan(&exists); checkErr != nil {
			return nil, fmt.Errorf("failed to check listing existence: %w", checkErr)
		}
		if exists {
			return nil, models.ErrTerminalStatus
		}
		return nil, models.ErrNotFound
	}
	return listing, err
}
