package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/motofleet/admin-api/internal/database"
	"github.com/motofleet/admin-api/internal/models"
)

// TransferRepository is read-only: transfers are initiated and settled
// by the owner-facing app, the admin console only inspects them.
type TransferRepository struct {
	pool *pgxpool.Pool
}

func NewTransferRepository(db *database.DB) *TransferRepository {
	return &TransferRepository{pool: db.Pool}
}

func scanTransferRow(scanner rowScanner) (*models.VehicleTransfer, error) {
	var t models.VehicleTransfer

	err := scanner.Scan(&t.ID, &t.VehicleID, &t.FromUserID, &t.ToEmail, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &t, nil
}

func scanTransferRows(rows pgx.Rows) ([]*models.VehicleTransfer, error) {
	defer rows.Close()

	transfers := make([]*models.VehicleTransfer, 0)

	for rows.Next() {
		t, err := scanTransferRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfer rows: %w", err)
	}

	return transfers, nil
}

func (r *TransferRepository) List(ctx context.Context, limit, offset int) ([]*models.VehicleTransfer, error) {
	query := `
		SELECT id, vehicle_id, from_user_id, to_email, status, created_at
		FROM vehicle_transfers
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}

	return scanTransferRows(rows)
}

func (r *TransferRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vehicle_transfers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transfers: %w", err)
	}
	return count, nil
}
