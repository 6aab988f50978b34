package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/motofleet/admin-api/internal/database"
)

// RoleRepository backs the role authority. HasRole hits the database on
// every call; authorization decisions are never cached across requests.
type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(db *database.DB) *RoleRepository {
	return &RoleRepository{pool: db.Pool}
}

func (r *RoleRepository) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM role_assignments WHERE user_id = $1 AND role = $2
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, role).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check role assignment: %w", err)
	}

	return exists, nil
}

// Assign grants a role to a user. Re-assigning an existing role is a
// no-op thanks to the uniqueness constraint.
func (r *RoleRepository) Assign(ctx context.Context, userID uuid.UUID, role string) error {
	query := `
		INSERT INTO role_assignments (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, userID, role); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	return nil
}

// Revoke removes a role from a user
func (r *RoleRepository) Revoke(ctx context.Context, userID uuid.UUID, role string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM role_assignments WHERE user_id = $1 AND role = $2`, userID, role); err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}

	return nil
}
