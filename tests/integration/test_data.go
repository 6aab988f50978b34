package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motofleet/admin-api/internal/models"
)

// UniqueEmail generates a unique test email using a timestamp
func UniqueEmail(suffix string) string {
	return fmt.Sprintf("test-%d-%s@example.com", time.Now().UnixNano(), suffix)
}

// SeedUser inserts a test user and returns its id
func SeedUser(ctx context.Context, pool *pgxpool.Pool, email string) (uuid.UUID, error) {
	var id uuid.UUID
	err := pool.QueryRow(ctx,
		`INSERT INTO users (email) VALUES ($1) RETURNING id`, email,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

// SeedVehicle inserts a vehicle for the given owner and returns its id.
// The registration is normalized the same way the app stores it.
func SeedVehicle(ctx context.Context, pool *pgxpool.Pool, ownerID uuid.UUID, registration string, verified bool) (uuid.UUID, error) {
	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO vehicles (user_id, registration_number, make, model, is_verified, verified_at)
		VALUES ($1, $2, 'Honda', 'Activa', $3, CASE WHEN $3 THEN NOW() ELSE NULL END)
		RETURNING id
	`, ownerID, models.NormalizeRegistration(registration), verified).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert vehicle: %w", err)
	}
	return id, nil
}

// SeedDocument inserts a document for a vehicle with the given expiry
func SeedDocument(ctx context.Context, pool *pgxpool.Pool, vehicleID, ownerID uuid.UUID, docType string, expiry *time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO documents (vehicle_id, user_id, doc_type, storage_path, expiry_date)
		VALUES ($1, $2, $3, '/docs/test.pdf', $4)
		RETURNING id
	`, vehicleID, ownerID, docType, expiry).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert document: %w", err)
	}
	return id, nil
}

// SeedListing inserts a pending listing and returns its id
func SeedListing(ctx context.Context, pool *pgxpool.Pool, vehicleID, sellerID uuid.UUID, price float64) (uuid.UUID, error) {
	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO vehicle_listings (vehicle_id, seller_id, price)
		VALUES ($1, $2, $3)
		RETURNING id
	`, vehicleID, sellerID, price).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert listing: %w", err)
	}
	return id, nil
}

// SeedClaim inserts a pending ownership claim and returns its id
func SeedClaim(ctx context.Context, pool *pgxpool.Pool, vehicleID, claimantID, ownerID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO ownership_claims (vehicle_id, claimant_id, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, vehicleID, claimantID, ownerID).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert claim: %w", err)
	}
	return id, nil
}

// SeedTransfer inserts a pending transfer and returns its id
func SeedTransfer(ctx context.Context, pool *pgxpool.Pool, vehicleID, fromUserID uuid.UUID, toEmail string) (uuid.UUID, error) {
	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO vehicle_transfers (vehicle_id, from_user_id, to_email)
		VALUES ($1, $2, $3)
		RETURNING id
	`, vehicleID, fromUserID, toEmail).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert transfer: %w", err)
	}
	return id, nil
}
