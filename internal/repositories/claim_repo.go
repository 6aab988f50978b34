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

type ClaimRepository struct {
	pool *pgxpool.Pool
}

func NewClaimRepository(db *database.DB) *ClaimRepository {
	return &ClaimRepository{pool: db.Pool}
}

func scanClaimRow(scanner rowScanner) (*models.OwnershipClaim, error) {
	var c models.OwnershipClaim

	err := scanner.Scan(
		&c.ID, &c.VehicleID, &c.ClaimantID, &c.OwnerID,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &c, nil
}

func scanClaimRows(rows pgx.Rows) ([]*models.OwnershipClaim, error) {
	defer rows.Close()

	claims := make([]*models.OwnershipClaim, 0)

	for rows.Next() {
		c, err := scanClaimRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ownership claim: %w", err)
		}
		claims = append(claims, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating claim rows: %w", err)
	}

	return claims, nil
}

func (r *ClaimRepository) List(ctx context.Context, limit, offset int) ([]*models.OwnershipClaim, error) {
	query := `
		SELECT id, vehicle_id, claimant_id, owner_id, status, created_at, updated_at
		FROM ownership_claims
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ownership claims: %w", err)
	}

	return scanClaimRows(rows)
}

func (r *ClaimRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ownership_claims`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ownership claims: %w", err)
	}
	return count, nil
}

// UpdateStatus sets a claim's status. Resolved, rejected and expired
// claims are terminal: the guard keeps a decided claim from being
// flipped. Zero rows then means either a missing claim
// (models.ErrNotFound) or a terminal one (models.ErrTerminalStatus).
func (r *ClaimRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.OwnershipClaim, error) {
	query := `
		UPDATE ownership_claims
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING id, vehicle_id, claimant_id, owner_id, status, created_at, updated_at
	`

	claim, err := scanClaimRow(r.pool.QueryRow(ctx, query, id, status))
	if errors.Is(err, models.ErrNotFound) {
		var exists bool
		if checkErr := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM ownership_claims WHERE id = $1)`, id).Scan(&exists); checkErr != nil {
			return nil, fmt.Errorf("failed to check claim existence: %w", checkErr)
		}
		if exists {
			return nil, models.ErrTerminalStatus
		}
		return nil, models.ErrNotFound
	}
	return claim, err
}
