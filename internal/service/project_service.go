package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/consultora/consulting-tracker/internal/domain"
	"github.com/consultora/consulting-tracker/internal/messaging"
	"github.com/consultora/consulting-tracker/internal/repository"
	"github.com/consultora/consulting-tracker/internal/validation"
	"github.com/consultora/consulting-tracker/pkg/logger"
)

// Service-level errors
var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectNotFinalized = errors.New("project must be finalized before archiving")
	ErrEmptyUpdate         = errors.New("update contains no fields")
)

// ProjectService implements the project record lifecycle
type ProjectService struct {
	repo      repository.ProjectRepository
	cache     repository.ProjectCache
	producer  messaging.Publisher
	validator *validation.Validator
	logger    logger.Logger
}

// NewProjectService creates a new ProjectService instance. The cache and
// producer are optional and may be nil.
func NewProjectService(
	repo repository.ProjectRepository,
	cache repository.ProjectCache,
	producer messaging.Publisher,
	logger logger.Logger,
) *ProjectService {
	return &ProjectService{
		repo:      repo,
		cache:     cache,
		producer:  producer,
		validator: validation.New(),
		logger:    logger,
	}
}

// Create validates a normalized input and persists a new project.
// Validation always completes before the storage call; nothing is written
// on rejection.
func (s *ProjectService) Create(ctx context.Context, input *domain.ProjectInput) (*domain.Project, error) {
	if err := s.validator.ProjectCreate(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ID:        uuid.New().String(),
		Finalized: false,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.Apply(project)

	if err := s.repo.Create(ctx, project); err != nil {
		s.logger.Error("Failed to create project", err)
		return nil, err
	}

	if s.producer != nil {
		if err := s.producer.PublishProjectCreated(ctx, project); err != nil {
			s.logger.Warn("Failed to publish project creation event", map[string]interface{}{
				"project_id": project.ID,
				"error":      err.Error(),
			})
		}
	}

	return project, nil
}

// GetByID returns a project by ID, going through the cache when available.
// Archived projects remain individually retrievable.
func (s *ProjectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	if s.cache != nil {
		if project, err := s.cache.GetProject(ctx, id); err == nil {
			return project, nil
		}
	}

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("Failed to get project by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProject(ctx, project); err != nil {
			s.logger.Warn("Failed to cache project", map[string]interface{}{
				"project_id": id,
				"error":      err.Error(),
			})
		}
	}

	return project, nil
}

// Update merges the fields present in the validated partial input over the
// stored record. Omitted fields are left untouched; the update timestamp is
// always refreshed. The date-order constraint is re-checked on the merged
// record before anything is written.
func (s *ProjectService) Update(ctx context.Context, id string, input *domain.ProjectInput) (*domain.Project, error) {
	if input.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	if err := s.validator.ProjectUpdate(input); err != nil {
		return nil, err
	}

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("Failed to get project for update", err, map[string]interface{}{
			"id": id,
		})
		return nil, err
	}

	input.Apply(project)
	if err := s.validator.ProjectMerged(project); err != nil {
		return nil, err
	}
	project.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, project); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("Failed to update project", err, map[string]interface{}{
			"id": id,
		})
		return nil, err
	}

	s.invalidate(ctx, id)

	if s.producer != nil {
		if err := s.producer.PublishProjectUpdated(ctx, project, changedFields(input)); err != nil {
			s.logger.Warn("Failed to publish project update event", map[string]interface{}{
				"project_id": id,
				"error":      err.Error(),
			})
		}
	}

	return project, nil
}

// Archive soft-deletes a project. The project must be finalized first;
// archiving an already archived project succeeds without further effect.
func (s *ProjectService) Archive(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("Failed to get project for archiving", err, map[string]interface{}{
			"id": id,
		})
		return nil, err
	}

	if !project.CanArchive() {
		return nil, ErrProjectNotFinalized
	}

	if !project.Active {
		// Already archived
		return project, nil
	}

	if err := s.repo.Archive(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("Failed to archive project", err, map[string]interface{}{
			"id": id,
		})
		return nil, err
	}

	project.Active = false
	project.UpdatedAt = time.Now().UTC()

	s.invalidate(ctx, id)

	if s.producer != nil {
		if err := s.producer.PublishProjectArchived(ctx, project); err != nil {
			s.logger.Warn("Failed to publish project archive event", map[string]interface{}{
				"project_id": id,
				"error":      err.Error(),
			})
		}
	}

	return project, nil
}

// List returns projects with the given status, newest first. Active means
// not archived; finalized projects stay in the active listing until they
// are archived.
func (s *ProjectService) List(ctx context.Context, status repository.ListStatus) ([]*domain.Project, error) {
	projects, err := s.repo.List(ctx, repository.ProjectFilter{Status: status})
	if err != nil {
		s.logger.Error("Failed to list projects", err)
		return nil, err
	}
	return projects, nil
}

func (s *ProjectService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProject(ctx, id); err != nil {
		s.logger.Warn("Failed to invalidate project cache", map[string]interface{}{
			"project_id": id,
			"error":      err.Error(),
		})
	}
}

// changedFields builds the changed-field map for the update event
func changedFields(in *domain.ProjectInput) map[string]interface{} {
	changes := map[string]interface{}{}
	if in.Name != nil {
		changes["name"] = *in.Name
	}
	if in.Country != nil {
		changes["country"] = *in.Country
	}
	if in.Consultant != nil {
		changes["consultant"] = *in.Consultant
	}
	if in.OpportunityNumber != nil {
		changes["opportunity_number"] = *in.OpportunityNumber
	}
	if in.Client != nil {
		changes["client"] = *in.Client
	}
	if in.Manager != nil {
		changes["manager"] = *in.Manager
	}
	if in.OpportunityAmount != nil {
		changes["opportunity_amount"] = *in.OpportunityAmount
	}
	if in.PlannedHours != nil {
		changes["planned_hours"] = *in.PlannedHours
	}
	if in.ExecutedHours != nil {
		changes["executed_hours"] = *in.ExecutedHours
	}
	if in.HourlyRate != nil {
		changes["hourly_rate"] = *in.HourlyRate
	}
	if in.StartDate != nil {
		changes["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		changes["end_date"] = *in.EndDate
	}
	if in.Observations != nil {
		changes["observations"] = *in.Observations
	}
	if in.Finalized != nil {
		changes["finalized"] = *in.Finalized
	}
	return changes
}
