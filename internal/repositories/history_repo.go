package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/motofleet/admin-api/internal/database"
	"github.com/motofleet/admin-api/internal/models"
)

// HistoryRepository handles the append-only vehicle history trail.
// There are deliberately no update or delete methods.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

func NewHistoryRepository(db *database.DB) *HistoryRepository {
	return &HistoryRepository{pool: db.Pool}
}

func scanHistoryRow(scanner rowScanner) (*models.HistoryEvent, error) {
	var e models.HistoryEvent

	err := scanner.Scan(
		&e.ID, &e.VehicleID, &e.UserID, &e.EventType,
		&e.Description, &e.Metadata, &e.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &e, nil
}

func scanHistoryRows(rows pgx.Rows) ([]*models.HistoryEvent, error) {
	defer rows.Close()

	events := make([]*models.HistoryEvent, 0)

	for rows.Next() {
		e, err := scanHistoryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return events, nil
}

// Create appends a new history event
func (r *HistoryRepository) Create(ctx context.Context, event *models.HistoryEvent) (*models.HistoryEvent, error) {
	query := `
		INSERT INTO vehicle_history (vehicle_id, user_id, event_type, description, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, vehicle_id, user_id, event_type, description, metadata, created_at
	`

	result, err := scanHistoryRow(r.pool.QueryRow(
		ctx, query,
		event.VehicleID, event.UserID, event.EventType, event.Description, event.Metadata,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create history event: %w", err)
	}

	return result, nil
}

// List returns history events most recent first
func (r *HistoryRepository) List(ctx context.Context, limit, offset int) ([]*models.HistoryEvent, error) {
	query := `
		SELECT id, vehicle_id, user_id, event_type, description, metadata, created_at
		FROM vehicle_history
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query history events: %w", err)
	}

	return scanHistoryRows(rows)
}

func (r *HistoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vehicle_history`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history events: %w", err)
	}
	return count, nil
}

// CountByVehicleID counts history events for one vehicle
func (r *HistoryRepository) CountByVehicleID(ctx context.Context, vehicleID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vehicle_history WHERE vehicle_id = $1`, vehicleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history events: %w", err)
	}
	return count, nil
}
