package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/motofleet/admin-api/internal/database"
	"github.com/motofleet/admin-api/internal/models"
)

type VehicleRepository struct {
	pool *pgxpool.Pool
}

func NewVehicleRepository(db *database.DB) *VehicleRepository {
	return &VehicleRepository{pool: db.Pool}
}

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanVehicleRow handles nullable fields and populates a Vehicle model from a database row
func scanVehicleRow(scanner rowScanner) (*models.Vehicle, error) {
	var v models.Vehicle

	err := scanner.Scan(
		&v.ID, &v.UserID, &v.RegistrationNumber, &v.Make, &v.Model, &v.Year,
		&v.IsVerified, &v.VerifiedAt, &v.InsuranceExpiry, &v.PUCExpiry,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &v, nil
}

// scanVehicleRows iterates through rows and scans each into Vehicle models
func scanVehicleRows(rows pgx.Rows) ([]*models.Vehicle, error) {
	defer rows.Close()

	vehicles := make([]*models.Vehicle, 0)

	for rows.Next() {
		v, err := scanVehicleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vehicle rows: %w", err)
	}

	return vehicles, nil
}

const vehicleColumns = `id, user_id, registration_number, make, model, year,
	       is_verified, verified_at, insurance_expiry, puc_expiry,
	       created_at, updated_at`

func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles WHERE id = $1
	`

	return scanVehicleRow(r.pool.QueryRow(ctx, query, id))
}

// List returns vehicles most recent first. The secondary id sort keeps
// pages deterministic when timestamps collide; ordering across pages is
// still only a weak guarantee under concurrent inserts.
func (r *VehicleRepository) List(ctx context.Context, limit, offset int) ([]*models.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}

	return scanVehicleRows(rows)
}

func (r *VehicleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}
	return count, nil
}

func (r *VehicleRepository) CountVerified(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles WHERE is_verified = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count verified vehicles: %w", err)
	}
	return count, nil
}

// SetVerification flips the verified flag. verified_at is set when
// verifying and cleared when un-verifying. Missing vehicle maps to
// models.ErrNotFound via the RETURNING clause.
func (r *VehicleRepository) SetVerification(ctx context.Context, id uuid.UUID, isVerified bool) (*models.Vehicle, error) {
	query := `
		UPDATE vehicles
		SET is_verified = $2,
		    verified_at = CASE WHEN $2 THEN NOW() ELSE NULL END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + vehicleColumns + `
	`

	return scanVehicleRow(r.pool.QueryRow(ctx, query, id, isVerified))
}

// VehicleOwner is one row of the grouped owner roster.
type VehicleOwner struct {
	UserID       uuid.UUID
	VehicleCount int64
	FirstAddedAt time.Time
}

// ListOwners derives the admin user roster by grouping vehicles by owner,
// most recently active owners first.
func (r *VehicleRepository) ListOwners(ctx context.Context, limit, offset int) ([]*VehicleOwner, error) {
	query := `
		SELECT user_id, COUNT(*) AS vehicle_count, MIN(created_at) AS first_added_at
		FROM vehicles
		GROUP BY user_id
		ORDER BY MAX(created_at) DESC, user_id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicle owners: %w", err)
	}
	defer rows.Close()

	owners := make([]*VehicleOwner, 0)
	for rows.Next() {
		var o VehicleOwner
		if err := rows.Scan(&o.UserID, &o.VehicleCount, &o.FirstAddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle owner: %w", err)
		}
		owners = append(owners, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vehicle owner rows: %w", err)
	}

	return owners, nil
}

func (r *VehicleRepository) CountOwners(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(DISTINCT user_id) FROM vehicles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count vehicle owners: %w", err)
	}
	return count, nil
}
