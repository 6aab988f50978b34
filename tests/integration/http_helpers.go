package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/motofleet/admin-api/internal/auth"
	"github.com/motofleet/admin-api/internal/database"
	"github.com/motofleet/admin-api/internal/handlers"
	"github.com/motofleet/admin-api/internal/identity"
	middlewareCustom "github.com/motofleet/admin-api/internal/middleware"
	"github.com/motofleet/admin-api/internal/models"
	"github.com/motofleet/admin-api/internal/repositories"
	"github.com/motofleet/admin-api/internal/routes"
	"github.com/motofleet/admin-api/internal/services"
	pkglogger "github.com/motofleet/admin-api/pkg/logger"
)

const testJWTSecret = "test-secret-32-characters-long-for-testing"

// TestServer wraps httptest.Server with database and all dependencies
type TestServer struct {
	Server       *httptest.Server
	DB           *database.DB
	TokenManager *auth.TokenManager

	// Repository references for seeding and inspection in tests
	Roles       *repositories.RoleRepository
	Users       *repositories.UserRepository
	Vehicles    *repositories.VehicleRepository
	Suspensions *repositories.SuspensionRepository
	History     *repositories.HistoryRepository
	Listings    *repositories.ListingRepository
	Claims      *repositories.ClaimRepository
}

// NewTestServer initializes the complete admin HTTP stack against a real database
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	vehicleRepo := repositories.NewVehicleRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)
	historyRepo := repositories.NewHistoryRepository(db)
	suspensionRepo := repositories.NewSuspensionRepository(db)
	claimRepo := repositories.NewClaimRepository(db)
	listingRepo := repositories.NewListingRepository(db)
	transferRepo := repositories.NewTransferRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	userRepo := repositories.NewUserRepository(db)

	tokenManager := auth.NewTokenManager(testJWTSecret, 15*time.Minute)

	enricher := services.NewEnricher(identity.NewDBProvider(userRepo), vehicleRepo, 10, logger)
	moderationLogger := pkglogger.NewModerationLogger(logger)

	adminService := services.NewAdminService(
		vehicleRepo, documentRepo, historyRepo, transferRepo,
		claimRepo, listingRepo, suspensionRepo,
		enricher, logger, 20, 100,
	)
	moderationService := services.NewModerationService(
		suspensionRepo, vehicleRepo, claimRepo, listingRepo, historyRepo,
		moderationLogger, logger,
	)

	adminHandler := handlers.NewAdminHandler(adminService, moderationService, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: "test"}))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	routes.Register(
		r,
		adminHandler,
		auth.Authenticate(tokenManager),
		middlewareCustom.RateLimitByUserID(middlewareCustom.RateLimitConfig{RequestsPerMinute: 1000}),
		auth.RequireRole(roleRepo, models.RoleSuperAdmin, logger),
	)

	server := httptest.NewServer(r)

	return &TestServer{
		Server:       server,
		DB:           db,
		TokenManager: tokenManager,
		Roles:        roleRepo,
		Users:        userRepo,
		Vehicles:     vehicleRepo,
		Suspensions:  suspensionRepo,
		History:      historyRepo,
		Listings:     listingRepo,
		Claims:       claimRepo,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
	}
}

// PostAdmin sends an action request to POST /admin with the given token
func (ts *TestServer) PostAdmin(accessToken string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/admin", bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	return http.DefaultClient.Do(req)
}

// ParseJSONResponse parses JSON response body into target struct
func ParseJSONResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}
