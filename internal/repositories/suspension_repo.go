package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/motofleet/admin-api/internal/database"
	"github.com/motofleet/admin-api/internal/models"
)

type SuspensionRepository struct {
	pool *pgxpool.Pool
}

func NewSuspensionRepository(db *database.DB) *SuspensionRepository {
	return &SuspensionRepository{pool: db.Pool}
}

func scanSuspensionRow(scanner rowScanner) (*models.Suspension, error) {
	var s models.Suspension

	err := scanner.Scan(&s.ID, &s.UserID, &s.SuspendedBy, &s.Reason, &s.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &s, nil
}

// Create inserts a suspension as a single conditional insert. The unique
// constraint on user_id makes concurrent duplicate suspends surface as
// models.ErrConflict instead of racing a separate existence check.
func (r *SuspensionRepository) Create(ctx context.Context, suspension *models.Suspension) (*models.Suspension, error) {
	query := `
		INSERT INTO suspensions (user_id, suspended_by, reason)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, suspended_by, reason, created_at
	`

	result, err := scanSuspensionRow(r.pool.QueryRow(
		ctx, query,
		suspension.UserID, suspension.SuspendedBy, suspension.Reason,
	))
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Delete removes the suspension for a user. Returns the number of rows
// removed; zero is not an error (unsuspending an unsuspended user is a no-op).
func (r *SuspensionRepository) Delete(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM suspensions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete suspension: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *SuspensionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM suspensions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count suspensions: %w", err)
	}
	return count, nil
}

// SuspendedSet returns which of the given users currently hold an active
// suspension, as a membership set.
func (r *SuspensionRepository) SuspendedSet(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	suspended := make(map[uuid.UUID]bool, len(userIDs))
	if len(userIDs) == 0 {
		return suspended, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT user_id FROM suspensions WHERE user_id = ANY($1)`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query suspensions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan suspension: %w", err)
		}
		suspended[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suspension rows: %w", err)
	}

	return suspended, nil
}
