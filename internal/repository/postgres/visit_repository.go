package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/consultora/consulting-tracker/internal/domain"
	"github.com/consultora/consulting-tracker/internal/repository"
	"github.com/consultora/consulting-tracker/pkg/logger"
)

// VisitRepository implements the visit repository backed by PostgreSQL
type VisitRepository struct {
	db      *sqlx.DB
	logger  logger.Logger
	timeout time.Duration
}

// NewVisitRepository creates a new VisitRepository instance
func NewVisitRepository(db *sqlx.DB, logger logger.Logger, timeout time.Duration) *VisitRepository {
	return &VisitRepository{
		db:      db,
		logger:  logger,
		timeout: timeout,
	}
}

// Create persists a new visit
func (r *VisitRepository) Create(ctx context.Context, visit *domain.Visit) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := `
		INSERT INTO visits (
			id, product, client, opportunity_number, country, consultant,
			hours, visit_date, opportunity_value, active, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		visit.ID,
		visit.Product,
		visit.Client,
		visit.OpportunityNumber,
		visit.Country,
		visit.Consultant,
		visit.Hours,
		visit.VisitDate,
		visit.OpportunityValue,
		visit.Active,
		visit.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create visit", err, map[string]interface{}{
			"product": visit.Product,
		})
		return storageErr("failed to create visit", err)
	}

	return nil
}

// GetByID returns a visit by ID. Soft-deleted visits remain retrievable.
func (r *VisitRepository) GetByID(ctx context.Context, id string) (*domain.Visit, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := `
		SELECT
			id, product, client, opportunity_number, country, consultant,
			hours, visit_date, opportunity_value, active, created_at
		FROM visits
		WHERE id = $1
	`

	var visit domain.Visit
	err := r.db.GetContext(ctx, &visit, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get visit by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, storageErr("failed to get visit by ID", err)
	}

	return &visit, nil
}

// SoftDelete flips the active flag off. Deleting an already deleted visit
// matches the row again and succeeds without further effect.
func (r *VisitRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := `UPDATE visits SET active = FALSE WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to soft-delete visit", err, map[string]interface{}{
			"id": id,
		})
		return storageErr("failed to soft-delete visit", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageErr("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// List returns visits matching the filter, newest first
func (r *VisitRepository) List(ctx context.Context, filter repository.VisitFilter) ([]*domain.Visit, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := `
		SELECT
			id, product, client, opportunity_number, country, consultant,
			hours, visit_date, opportunity_value, active, created_at
		FROM visits
		WHERE active = $1
		ORDER BY created_at DESC
	`

	visits := []*domain.Visit{}
	err := r.db.SelectContext(ctx, &visits, query, filter.Status != repository.ListStatusArchived)
	if err != nil {
		r.logger.Error("Failed to list visits", err)
		return nil, storageErr("failed to list visits", err)
	}

	return visits, nil
}

// opCtx bounds a storage round trip with the configured query timeout
func (r *VisitRepository) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}
