package repository

import (
	"context"

	"github.com/consultora/consulting-tracker/internal/domain"
)

// ListStatus selects between active and archived records
type ListStatus string

const (
	// ListStatusActive selects records that have not been archived
	ListStatusActive ListStatus = "active"
	// ListStatusArchived selects soft-deleted records
	ListStatusArchived ListStatus = "archived"
)

// ProjectFilter holds the filter parameters for project listings
type ProjectFilter struct {
	Status ListStatus
}

// ProjectRepository defines the interface for the project store
type ProjectRepository interface {
	// Create persists a new project
	Create(ctx context.Context, project *domain.Project) error

	// GetByID returns a project by ID regardless of its active flag
	GetByID(ctx context.Context, id string) (*domain.Project, error)

	// Update writes the full merged project row
	Update(ctx context.Context, project *domain.Project) error

	// Archive flips the active flag off and refreshes the update timestamp
	Archive(ctx context.Context, id string) error

	// List returns projects matching the filter, newest first
	List(ctx context.Context, filter ProjectFilter) ([]*domain.Project, error)
}

// ProjectCache defines the read-through cache for single project fetches
type ProjectCache interface {
	// GetProject returns a cached project or domain.ErrNotFound
	GetProject(ctx context.Context, id string) (*domain.Project, error)

	// SetProject stores a project in the cache
	SetProject(ctx context.Context, project *domain.Project) error

	// InvalidateProject drops a project from the cache
	InvalidateProject(ctx context.Context, id string) error
}
