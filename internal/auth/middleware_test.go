package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/motofleet/admin-api/internal/auth"
	"github.com/motofleet/admin-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-characters-long-for-testing"

type mockRoleAuthority struct {
	hasRoleFunc func(ctx context.Context, userID uuid.UUID, role string) (bool, error)
	calls       int
}

func (m *mockRoleAuthority) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	m.calls++
	if m.hasRoleFunc == nil {
		return false, nil
	}
	return m.hasRoleFunc(ctx, userID, role)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func nextCounter(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

// ── Authenticate ──────────────────────────────────────────────────────────────

func TestAuthenticate_MissingHeader(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 15*time.Minute)
	var called bool
	handler := auth.Authenticate(tm)(nextCounter(&called))

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "AUTH_MISSING", decodeError(t, recorder)["errorCode"])
	assert.False(t, called)
}

func TestAuthenticate_MalformedScheme(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 15*time.Minute)
	var called bool
	handler := auth.Authenticate(tm)(nextCounter(&called))

	for _, header := range []string{"Basic abc123", "Bearer", "Bearer "} {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.Header.Set("Authorization", header)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code, "header %q", header)
		assert.Equal(t, "AUTH_MISSING", decodeError(t, recorder)["errorCode"], "header %q", header)
	}
	assert.False(t, called)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 15*time.Minute)
	var called bool
	handler := auth.Authenticate(tm)(nextCounter(&called))

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "AUTH_INVALID", decodeError(t, recorder)["errorCode"])
	assert.False(t, called)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	expired := auth.NewTokenManager(testSecret, -1*time.Minute)
	token, err := expired.GenerateAccessToken(uuid.New().String(), "admin@example.com")
	require.NoError(t, err)

	tm := auth.NewTokenManager(testSecret, 15*time.Minute)
	var called bool
	handler := auth.Authenticate(tm)(nextCounter(&called))

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "AUTH_INVALID", decodeError(t, recorder)["errorCode"])
	assert.False(t, called)
}

func TestAuthenticate_ValidTokenInjectsClaims(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 15*time.Minute)
	userID := uuid.New().String()
	token, err := tm.GenerateAccessToken(userID, "admin@example.com")
	require.NoError(t, err)

	var gotClaims *models.TokenClaims
	handler := auth.Authenticate(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = auth.GetUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, userID, gotClaims.UserID)
	assert.Equal(t, "admin@example.com", gotClaims.Email)
}

// ── RequireRole ───────────────────────────────────────────────────────────────

func withClaims(req *http.Request, userID string) *http.Request {
	claims := &models.TokenClaims{Type: "access", UserID: userID}
	return req.WithContext(context.WithValue(req.Context(), auth.UserContextKey, claims))
}

func TestRequireRole_MissingClaims(t *testing.T) {
	authority := &mockRoleAuthority{}
	var called bool
	handler := auth.RequireRole(authority, models.RoleSuperAdmin, testLogger())(nextCounter(&called))

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, called)
	assert.Zero(t, authority.calls)
}

func TestRequireRole_CheckFailureIsServerError(t *testing.T) {
	authority := &mockRoleAuthority{
		hasRoleFunc: func(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
			return false, errors.New("connection refused")
		},
	}
	var called bool
	handler := auth.RequireRole(authority, models.RoleSuperAdmin, testLogger())(nextCounter(&called))

	req := withClaims(httptest.NewRequest(http.MethodPost, "/admin", nil), uuid.New().String())
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	// A failed check must never pass as 403
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "ROLE_CHECK_FAILED", decodeError(t, recorder)["errorCode"])
	assert.False(t, called)
}

func TestRequireRole_NonMemberForbidden(t *testing.T) {
	authority := &mockRoleAuthority{}
	var called bool
	handler := auth.RequireRole(authority, models.RoleSuperAdmin, testLogger())(nextCounter(&called))

	req := withClaims(httptest.NewRequest(http.MethodPost, "/admin", nil), uuid.New().String())
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, recorder)["errorCode"])
	assert.False(t, called)
}

func TestRequireRole_ChecksOnEveryRequest(t *testing.T) {
	granted := true
	authority := &mockRoleAuthority{
		hasRoleFunc: func(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
			return granted, nil
		},
	}
	var called bool
	handler := auth.RequireRole(authority, models.RoleSuperAdmin, testLogger())(nextCounter(&called))

	req := withClaims(httptest.NewRequest(http.MethodPost, "/admin", nil), uuid.New().String())
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, called)

	// Revocation takes effect immediately; nothing is cached
	granted = false
	called = false
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.False(t, called)
	assert.Equal(t, 2, authority.calls)
}
