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

// ErrVisitNotFound is returned when the requested visit does not exist
var ErrVisitNotFound = errors.New("visit not found")

// VisitService implements the visit record lifecycle
type VisitService struct {
	repo      repository.VisitRepository
	producer  messaging.Publisher
	validator *validation.Validator
	logger    logger.Logger
}

// NewVisitService creates a new VisitService instance. The producer is
// optional and may be nil.
func NewVisitService(
	repo repository.VisitRepository,
	producer messaging.Publisher,
	logger logger.Logger,
) *VisitService {
	return &VisitService{
		repo:      repo,
		producer:  producer,
		validator: validation.New(),
		logger:    logger,
	}
}

// Create validates a normalized input and persists a new visit
func (s *VisitService) Create(ctx context.Context, input *domain.VisitInput) (*domain.Visit, error) {
	if err := s.validator.VisitCreate(input); err != nil {
		return nil, err
	}

	visit := &domain.Visit{
		ID:                uuid.New().String(),
		Product:           *input.Product,
		Client:            input.Client,
		OpportunityNumber: input.OpportunityNumber,
		Country:           input.Country,
		Consultant:        input.Consultant,
		Hours:             *input.Hours,
		VisitDate:         input.VisitDate,
		Active:            true,
		CreatedAt:         time.Now().UTC(),
	}
	if input.OpportunityValue != nil {
		visit.OpportunityValue = *input.OpportunityValue
	}

	if err := s.repo.Create(ctx, visit); err != nil {
		s.logger.Error("Failed to create visit", err)
		return nil, err
	}

	if s.producer != nil {
		if err := s.producer.PublishVisitCreated(ctx, visit); err != nil {
			s.logger.Warn("Failed to publish visit creation event", map[string]interface{}{
				"visit_id": visit.ID,
				"error":    err.Error(),
			})
		}
	}

	return visit, nil
}

// Delete soft-deletes a visit. Deleting an already deleted visit succeeds
// without further effect.
func (s *VisitService) Delete(ctx context.Context, id string) error {
	visit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrVisitNotFound
		}
		s.logger.Error("Failed to get visit for deletion", err, map[string]interface{}{
			"id": id,
		})
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrVisitNotFound
		}
		s.logger.Error("Failed to soft-delete visit", err, map[string]interface{}{
			"id": id,
		})
		return err
	}

	if s.producer != nil {
		visit.Active = false
		if err := s.producer.PublishVisitDeleted(ctx, visit); err != nil {
			s.logger.Warn("Failed to publish visit deletion event", map[string]interface{}{
				"visit_id": id,
				"error":    err.Error(),
			})
		}
	}

	return nil
}

// List returns visits with the given status, newest first
func (s *VisitService) List(ctx context.Context, status repository.ListStatus) ([]*domain.Visit, error) {
	visits, err := s.repo.List(ctx, repository.VisitFilter{Status: status})
	if err != nil {
		s.logger.Error("Failed to list visits", err)
		return nil, err
	}
	return visits, nil
}
