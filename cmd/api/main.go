package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/motofleet/admin-api/internal/auth"
	"github.com/motofleet/admin-api/internal/config"
	"github.com/motofleet/admin-api/internal/database"
	"github.com/motofleet/admin-api/internal/handlers"
	"github.com/motofleet/admin-api/internal/identity"
	middlewareCustom "github.com/motofleet/admin-api/internal/middleware"
	"github.com/motofleet/admin-api/internal/models"
	"github.com/motofleet/admin-api/internal/repositories"
	"github.com/motofleet/admin-api/internal/routes"
	"github.com/motofleet/admin-api/internal/services"
	pkghttp "github.com/motofleet/admin-api/pkg/http"
	pkglogger "github.com/motofleet/admin-api/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		err := db.Migrate(migrateCtx)
		cancel()
		if err != nil {
			logger.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Initialize repositories
	vehicleRepo := repositories.NewVehicleRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)
	historyRepo := repositories.NewHistoryRepository(db)
	suspensionRepo := repositories.NewSuspensionRepository(db)
	claimRepo := repositories.NewClaimRepository(db)
	listingRepo := repositories.NewListingRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// Initialize token manager
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry)

	// Identity provider: remote identity service when configured,
	// otherwise the local users table
	var identityProvider identity.Provider
	if cfg.Identity.BaseURL != "" {
		identityProvider = identity.NewHTTPProvider(cfg.Identity.BaseURL, cfg.Identity.ServiceToken, cfg.Identity.Timeout)
		logger.Info("using remote identity provider", slog.String("base_url", cfg.Identity.BaseURL))
	} else {
		identityProvider = identity.NewDBProvider(userRepo)
		logger.Info("using local identity provider")
	}

	// Initialize services
	enricher := services.NewEnricher(identityProvider, vehicleRepo, cfg.Admin.EnrichBatchSize, logger)
	moderationLogger := pkglogger.NewModerationLogger(logger)

	adminService := services.NewAdminService(
		vehicleRepo, documentRepo, historyRepo, repositories.NewTransferRepository(db),
		claimRepo, listingRepo, suspensionRepo,
		enricher, logger,
		cfg.Admin.DefaultPageSize, cfg.Admin.MaxPageSize,
	)
	moderationService := services.NewModerationService(
		suspensionRepo, vehicleRepo, claimRepo, listingRepo, historyRepo,
		moderationLogger, logger,
	)

	// Initialize handlers
	adminHandler := handlers.NewAdminHandler(adminService, moderationService, logger)

	// Bootstrap the first super admin if configured
	bootstrapCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureSuperAdmin(bootstrapCtx, roleRepo, logger); err != nil {
		logger.Error("failed to ensure super admin", slog.Any("error", err))
	}
	cancel()

	// Setup router
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger, &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	// Register routes
	routes.Register(
		router,
		adminHandler,
		auth.Authenticate(tokenManager),
		middlewareCustom.RateLimitByUserID(middlewareCustom.RateLimitConfig{RequestsPerMinute: cfg.Admin.RequestsPerMinute}),
		auth.RequireRole(roleRepo, models.RoleSuperAdmin, logger),
	)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// ensureSuperAdmin grants the super_admin role to the principal named
// by ADMIN_USER_ID. The grant is idempotent, so restarts are safe.
func ensureSuperAdmin(ctx context.Context, roleRepo *repositories.RoleRepository, logger *slog.Logger) error {
	adminUserID := os.Getenv("ADMIN_USER_ID")
	if adminUserID == "" {
		logger.Info("no ADMIN_USER_ID set, skipping super admin bootstrap")
		return nil
	}

	userID, err := uuid.Parse(adminUserID)
	if err != nil {
		return fmt.Errorf("ADMIN_USER_ID is not a valid UUID: %w", err)
	}

	if err := roleRepo.Assign(ctx, userID, models.RoleSuperAdmin); err != nil {
		return fmt.Errorf("failed to assign super admin role: %w", err)
	}

	logger.Info("super admin role ensured", slog.String("user_id", userID.String()))
	return nil
}
