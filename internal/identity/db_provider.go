package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/motofleet/admin-api/internal/models"
)

// UserFetcher is the subset of the user repository the DB provider needs.
type UserFetcher interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// DBProvider resolves emails from the local users table. Used when no
// managed identity service is configured (self-hosted deploys, tests).
type DBProvider struct {
	users UserFetcher
}

func NewDBProvider(users UserFetcher) *DBProvider {
	return &DBProvider{users: users}
}

func (p *DBProvider) GetEmail(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := p.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}
