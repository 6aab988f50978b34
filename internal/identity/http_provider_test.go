package identity_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/motofleet/admin-api/internal/identity"
	"github.com/motofleet/admin-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvider_GetEmail(t *testing.T) {
	userID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/users/"+userID.String(), r.URL.Path)
		assert.Equal(t, "Bearer svc-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"` + userID.String() + `","email":"owner@example.com"}`))
	}))
	defer server.Close()

	provider := identity.NewHTTPProvider(server.URL, "svc-token", 2*time.Second)

	email, err := provider.GetEmail(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", email)
}

func TestHTTPProvider_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider := identity.NewHTTPProvider(server.URL, "svc-token", 2*time.Second)

	_, err := provider.GetEmail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestHTTPProvider_EmptyEmailTreatedAsMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"x","email":""}`))
	}))
	defer server.Close()

	provider := identity.NewHTTPProvider(server.URL, "svc-token", 2*time.Second)

	_, err := provider.GetEmail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestHTTPProvider_ServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := identity.NewHTTPProvider(server.URL, "svc-token", 2*time.Second)

	_, err := provider.GetEmail(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

type stubUserFetcher struct {
	user *models.User
	err  error
}

func (s *stubUserFetcher) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.user, s.err
}

func TestDBProvider_GetEmail(t *testing.T) {
	provider := identity.NewDBProvider(&stubUserFetcher{
		user: &models.User{ID: uuid.New(), Email: "local@example.com"},
	})

	email, err := provider.GetEmail(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "local@example.com", email)
}

func TestDBProvider_PropagatesNotFound(t *testing.T) {
	provider := identity.NewDBProvider(&stubUserFetcher{err: models.ErrNotFound})

	_, err := provider.GetEmail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
