package repository

import (
	"context"

	"github.com/consultora/consulting-tracker/internal/domain"
)

// VisitFilter holds the filter parameters for visit listings
type VisitFilter struct {
	Status ListStatus
}

// VisitRepository defines the interface for the visit store
type VisitRepository interface {
	// Create persists a new visit
	Create(ctx context.Context, visit *domain.Visit) error

	// GetByID returns a visit by ID regardless of its active flag
	GetByID(ctx context.Context, id string) (*domain.Visit, error)

	// SoftDelete flips the active flag off; deleting an already
	// deleted visit is a no-op
	SoftDelete(ctx context.Context, id string) error

	// List returns visits matching the filter, newest first
	List(ctx context.Context, filter VisitFilter) ([]*domain.Visit, error)
}
