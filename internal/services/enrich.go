package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/motofleet/admin-api/internal/identity"
	"github.com/motofleet/admin-api/internal/models"
	"golang.org/x/sync/errgroup"
)

// UnknownValue annotates rows whose referenced principal or vehicle
// cannot be resolved (e.g. deleted account). Enrichment is best-effort:
// a failed lookup never fails the page.
const UnknownValue = "Unknown"

// VehicleGetter is the subset of VehicleRepository the enricher needs.
type VehicleGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
}

// Enricher resolves foreign references to display-friendly values in
// bounded concurrent batches: lookups within a batch run concurrently,
// batches run sequentially, so peak load on the identity backend is
// capped at the batch size.
type Enricher struct {
	identity  identity.Provider
	vehicles  VehicleGetter
	batchSize int
	logger    *slog.Logger
}

func NewEnricher(provider identity.Provider, vehicles VehicleGetter, batchSize int, logger *slog.Logger) *Enricher {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Enricher{
		identity:  provider,
		vehicles:  vehicles,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Emails resolves user ids to emails. The result maps every input id;
// unresolvable ids map to UnknownValue.
func (e *Enricher) Emails(ctx context.Context, userIDs []uuid.UUID) map[uuid.UUID]string {
	return e.resolve(ctx, userIDs, func(ctx context.Context, id uuid.UUID) (string, error) {
		return e.identity.GetEmail(ctx, id)
	})
}

// Registrations resolves vehicle ids to registration numbers.
func (e *Enricher) Registrations(ctx context.Context, vehicleIDs []uuid.UUID) map[uuid.UUID]string {
	return e.resolve(ctx, vehicleIDs, func(ctx context.Context, id uuid.UUID) (string, error) {
		vehicle, err := e.vehicles.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return vehicle.RegistrationNumber, nil
	})
}

func (e *Enricher) resolve(ctx context.Context, ids []uuid.UUID, lookup func(context.Context, uuid.UUID) (string, error)) map[uuid.UUID]string {
	resolved := make(map[uuid.UUID]string, len(ids))

	// Deduplicate so a page with many rows for one owner costs one lookup
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
			resolved[id] = UnknownValue
		}
	}

	var mu sync.Mutex

	for start := 0; start < len(unique); start += e.batchSize {
		// Honor the request deadline between batches
		if ctx.Err() != nil {
			e.logger.Warn("enrichment aborted", slog.Any("error", ctx.Err()))
			return resolved
		}

		end := start + e.batchSize
		if end > len(unique) {
			end = len(unique)
		}

		g, batchCtx := errgroup.WithContext(ctx)
		for _, id := range unique[start:end] {
			g.Go(func() error {
				value, err := lookup(batchCtx, id)
				if err != nil {
					// Best-effort: leave the sentinel in place
					e.logger.Debug("enrichment lookup failed",
						slog.String("id", id.String()),
						slog.Any("error", err),
					)
					return nil
				}
				mu.Lock()
				resolved[id] = value
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}

	return resolved
}
