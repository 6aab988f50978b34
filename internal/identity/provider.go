package identity

import (
	"context"

	"github.com/google/uuid"
)

// Provider resolves a principal's display email by opaque user id.
// It is used only for enrichment; authorization never consults it.
type Provider interface {
	GetEmail(ctx context.Context, userID uuid.UUID) (string, error)
}
