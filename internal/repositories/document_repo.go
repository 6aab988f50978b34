package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/motofleet/admin-api/internal/database"
)

// DocumentRepository exposes the counting queries the admin overview
// needs. Document CRUD lives in the upload service, not here.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(db *database.DB) *DocumentRepository {
	return &DocumentRepository{pool: db.Pool}
}

func (r *DocumentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// CountExpiringBetween counts documents whose expiry falls inside
// [from, to). The overview uses the current calendar month.
func (r *DocumentRepository) CountExpiringBetween(ctx context.Context, from, to time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM documents
		WHERE expiry_date >= $1 AND expiry_date < $2
	`

	var count int64
	err := r.pool.QueryRow(ctx, query, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expiring documents: %w", err)
	}
	return count, nil
}
