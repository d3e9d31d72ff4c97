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

// ProjectRepository implements the project repository backed by PostgreSQL
type ProjectRepository struct {
	db      *sqlx.DB
	logger  logger.Logger
	timeout time.Duration
}

// NewProjectRepository creates a new ProjectRepository instance
func NewProjectRepository(db *sqlx.DB, logger logger.Logger, timeout time.Duration) *ProjectRepository {
	return &ProjectRepository{
		db:      db,
		logger:  logger,
		timeout: timeout,
	}
}

// Create persists a new project
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := `
		INSERT INTO projects (
			id, name, country, consultant, opportunity_number, client, manager,
			opportunity_amount, planned_hours, executed_hours, hourly_rate,
			start_date, end_date, observations, finalized, active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		project.ID,
		project.Name,
		project.Country,
		project.Consultant,
		project.OpportunityNumber,
		project.Client,
		project.Manager,
		project.OpportunityAmount,
		project.PlannedHours,
		project.ExecutedHours,
		project.HourlyRate,
		project.StartDate,
		project.EndDate,
		project.Observations,
		project.Finalized,
		project.Active,
		project.CreatedAt,
		project.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create project", err, map[string]interface{}{
			"name": project.Name,
		})
		return storageErr("failed to create project", err)
	}

	return nil
}

// GetByID returns a project by ID. Archived projects remain retrievable.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := `
		SELECT
			id, name, country, consultant, opportunity_number, client, manager,
			opportunity_amount, planned_hours, executed_hours, hourly_rate,
			start_date, end_date, observations, finalized, active, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	var project domain.Project
	err := r.db.GetContext(ctx, &project, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get project by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, storageErr("failed to get project by ID", err)
	}

	return &project, nil
}

// Update writes the full merged project row
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := `
		UPDATE projects
		SET
			name = $1,
			country = $2,
			consultant = $3,
			opportunity_number = $4,
			client = $5,
			manager = $6,
			opportunity_amount = $7,
			planned_hours = $8,
			executed_hours = $9,
			hourly_rate = $10,
			start_date = $11,
			end_date = $12,
			observations = $13,
			finalized = $14,
			updated_at = $15
		WHERE id = $16
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		project.Name,
		project.Country,
		project.Consultant,
		project.OpportunityNumber,
		project.Client,
		project.Manager,
		project.OpportunityAmount,
		project.PlannedHours,
		project.ExecutedHours,
		project.HourlyRate,
		project.StartDate,
		project.EndDate,
		project.Observations,
		project.Finalized,
		project.UpdatedAt,
		project.ID,
	)

	if err != nil {
		r.logger.Error("Failed to update project", err, map[string]interface{}{
			"id": project.ID,
		})
		return storageErr("failed to update project", err)
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

// Archive flips the active flag off and refreshes the update timestamp
func (r *ProjectRepository) Archive(ctx context.Context, id string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := `
		UPDATE projects
		SET active = FALSE, updated_at = $1
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to archive project", err, map[string]interface{}{
			"id": id,
		})
		return storageErr("failed to archive project", err)
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

// List returns projects matching the filter, newest first
func (r *ProjectRepository) List(ctx context.Context, filter repository.ProjectFilter) ([]*domain.Project, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := `
		SELECT
			id, name, country, consultant, opportunity_number, client, manager,
			opportunity_amount, planned_hours, executed_hours, hourly_rate,
			start_date, end_date, observations, finalized, active, created_at, updated_at
		FROM projects
		WHERE active = $1
		ORDER BY created_at DESC
	`

	projects := []*domain.Project{}
	err := r.db.SelectContext(ctx, &projects, query, filter.Status != repository.ListStatusArchived)
	if err != nil {
		r.logger.Error("Failed to list projects", err)
		return nil, storageErr("failed to list projects", err)
	}

	return projects, nil
}

// opCtx bounds a storage round trip with the configured query timeout
func (r *ProjectRepository) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}
