package service_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultora/consulting-tracker/internal/domain"
	"github.com/consultora/consulting-tracker/internal/normalizer"
	"github.com/consultora/consulting-tracker/internal/repository"
	"github.com/consultora/consulting-tracker/internal/service"
	"github.com/consultora/consulting-tracker/internal/validation"
	"github.com/consultora/consulting-tracker/pkg/logger"
)

// fakeProjectRepo is an in-memory ProjectRepository
type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[string]domain.Project
	inserted []string
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[string]domain.Project{}}
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = *project
	r.inserted = append(r.inserted, project.ID)
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &project, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return domain.ErrNotFound
	}
	r.projects[project.ID] = *project
	return nil
}

func (r *fakeProjectRepo) Archive(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[id]
	if !ok {
		return domain.ErrNotFound
	}
	project.Active = false
	r.projects[id] = project
	return nil
}

func (r *fakeProjectRepo) List(ctx context.Context, filter repository.ProjectFilter) ([]*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wantActive := filter.Status != repository.ListStatusArchived
	result := []*domain.Project{}
	for _, project := range r.projects {
		if project.Active == wantActive {
			p := project
			result = append(result, &p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// fakeProjectCache records cache traffic
type fakeProjectCache struct {
	mu          sync.Mutex
	projects    map[string]domain.Project
	invalidated []string
}

func newFakeProjectCache() *fakeProjectCache {
	return &fakeProjectCache{projects: map[string]domain.Project{}}
}

func (c *fakeProjectCache) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	project, ok := c.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &project, nil
}

func (c *fakeProjectCache) SetProject(ctx context.Context, project *domain.Project) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects[project.ID] = *project
	return nil
}

func (c *fakeProjectCache) InvalidateProject(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.projects, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

// fakePublisher records published event types
type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *fakePublisher) record(event string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) PublishProjectCreated(ctx context.Context, project *domain.Project) error {
	return p.record("project_created")
}

func (p *fakePublisher) PublishProjectUpdated(ctx context.Context, project *domain.Project, changes map[string]interface{}) error {
	return p.record("project_updated")
}

func (p *fakePublisher) PublishProjectArchived(ctx context.Context, project *domain.Project) error {
	return p.record("project_archived")
}

func (p *fakePublisher) PublishVisitCreated(ctx context.Context, visit *domain.Visit) error {
	return p.record("visit_created")
}

func (p *fakePublisher) PublishVisitDeleted(ctx context.Context, visit *domain.Visit) error {
	return p.record("visit_deleted")
}

func testLogger() logger.Logger {
	return logger.NewLogger("error", true)
}

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool      { return &b }

func createInput() *domain.ProjectInput {
	return &domain.ProjectInput{
		Name:       strPtr("Cloud Migration"),
		Country:    strPtr("Chile"),
		Consultant: strPtr("Juan Pérez"),
	}
}

func TestProjectServiceCreateFromRawPayload(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepo()
	svc := service.NewProjectService(repo, nil, nil, testLogger())

	input := normalizer.Project(map[string]interface{}{
		"name":          "Cloud Migration",
		"country":       "Chile",
		"consultant":    "Juan Pérez",
		"plannedHours":  "40",
		"hourlyRate":    "50,5",
		"unknown_field": "ignored",
	})

	project, err := svc.Create(ctx, input)
	require.NoError(t, err)

	assert.NotEmpty(t, project.ID)
	assert.Equal(t, "Cloud Migration", project.Name)
	require.NotNil(t, project.PlannedHours)
	assert.Equal(t, 40.0, *project.PlannedHours)
	require.NotNil(t, project.HourlyRate)
	assert.Equal(t, 50.5, *project.HourlyRate)
	assert.False(t, project.Finalized)
	assert.True(t, project.Active)
	assert.False(t, project.CreatedAt.IsZero())
	assert.Equal(t, project.CreatedAt, project.UpdatedAt)
}

func TestProjectServiceCreateUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepo()
	svc := service.NewProjectService(repo, nil, nil, testLogger())

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		project, err := svc.Create(ctx, createInput())
		require.NoError(t, err)
		assert.False(t, seen[project.ID])
		seen[project.ID] = true
	}
}

func TestProjectServiceCreateValidationFailsFast(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepo()
	svc := service.NewProjectService(repo, nil, nil, testLogger())

	input := createInput()
	input.Country = nil

	_, err := svc.Create(ctx, input)
	require.Error(t, err)

	var errs *validation.Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs.Fields, 1)
	assert.Equal(t, "country", errs.Fields[0].Field)

	// Nothing was persisted
	assert.Empty(t, repo.projects)
}

func TestProjectServiceUpdateMergesOnlyPresentFields(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepo()
	svc := service.NewProjectService(repo, nil, nil, testLogger())

	input := createInput()
	input.Client = strPtr("Acme S.A.")
	input.PlannedHours = numPtr(40)
	input.StartDate = strPtr("2024-03-05")

	created, err := svc.Create(ctx, input)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &domain.ProjectInput{
		ExecutedHours: numPtr(12),
	})
	require.NoError(t, err)

	// The targeted field changed
	require.NotNil(t, updated.ExecutedHours)
	assert.Equal(t, 12.0, *updated.ExecutedHours)

	// Everything omitted is untouched
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Country, updated.Country)
	assert.Equal(t, created.Consultant, updated.Consultant)
	assert.Equal(t, *created.Client, *updated.Client)
	assert.Equal(t, *created.PlannedHours, *updated.PlannedHours)
	assert.Equal(t, *created.StartDate, *updated.StartDate)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	// The update timestamp is refreshed
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestProjectServiceUpdateKeepsDatesOrdered(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepo()
	svc := service.NewProjectService(repo, nil, nil, testLogger())

	input := createInput()
	input.StartDate = strPtr("2024-06-01")
	input.EndDate = strPtr("2024-06-30")

	created, err := svc.Create(ctx, input)
	require.NoError(t, err)

	// Moving only the end date before the stored start date must fail
	_, err = svc.Update(ctx, created.ID, &domain.ProjectInput{
		EndDate: strPtr("2024-01-01"),
	})
	require.Error(t, err)

	var errs *validation.Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs.Fields, 1)
	assert.Equal(t, "end_date", errs.Fields[0].Field)

	// The stored record is untouched
	stored, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-30", *stored.EndDate)

	// Moving only the start date past the stored end date must fail too
	_, err = svc.Update(ctx, created.ID, &domain.ProjectInput{
		StartDate: strPtr("2024-07-01"),
	})
	require.ErrorAs(t, err, &errs)

	// A single-date update that keeps the order is accepted
	updated, err := svc.Update(ctx, created.ID, &domain.ProjectInput{
		EndDate: strPtr("2024-07-15"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-07-15", *updated.EndDate)
}

func TestProjectServiceUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	svc := service.NewProjectService(newFakeProjectRepo(), nil, nil, testLogger())

	_, err := svc.Update(ctx, "missing", &domain.ProjectInput{
		Name: strPtr("New name"),
	})
	require.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestProjectServiceUpdateEmpty(t *testing.T) {
	ctx := context.Background()
	svc := service.NewProjectService(newFakeProjectRepo(), nil, nil, testLogger())

	_, err := svc.Update(ctx, "any", &domain.ProjectInput{})
	require.ErrorIs(t, err, service.ErrEmptyUpdate)
}

func TestProjectServiceArchivePrecondition(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepo()
	svc := service.NewProjectService(repo, nil, nil, testLogger())

	created, err := svc.Create(ctx, createInput())
	require.NoError(t, err)

	// Not finalized: archive must fail and leave the record untouched
	_, err = svc.Archive(ctx, created.ID)
	require.ErrorIs(t, err, service.ErrProjectNotFinalized)

	stored, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)

	// Finalize, then archive succeeds
	_, err = svc.Update(ctx, created.ID, &domain.ProjectInput{Finalized: boolPtr(true)})
	require.NoError(t, err)

	archived, err := svc.Archive(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, archived.Active)

	// Archiving again is idempotent
	archived, err = svc.Archive(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, archived.Active)
}

func TestProjectServiceArchiveNotFound(t *testing.T) {
	ctx := context.Background()
	svc := service.NewProjectService(newFakeProjectRepo(), nil, nil, testLogger())

	_, err := svc.Archive(ctx, "missing")
	require.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestProjectServiceListPartition(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepo()
	svc := service.NewProjectService(repo, nil, nil, testLogger())

	var ids []string
	for i := 0; i < 3; i++ {
		project, err := svc.Create(ctx, createInput())
		require.NoError(t, err)
		ids = append(ids, project.ID)
	}

	_, err := svc.Update(ctx, ids[0], &domain.ProjectInput{Finalized: boolPtr(true)})
	require.NoError(t, err)
	_, err = svc.Archive(ctx, ids[0])
	require.NoError(t, err)

	active, err := svc.List(ctx, repository.ListStatusActive)
	require.NoError(t, err)
	archived, err := svc.List(ctx, repository.ListStatusArchived)
	require.NoError(t, err)

	assert.Len(t, active, 2)
	assert.Len(t, archived, 1)

	for _, project := range active {
		assert.True(t, project.Active)
	}
	for _, project := range archived {
		assert.False(t, project.Active)
	}

	// Active and archived sets partition all records
	assert.Equal(t, archived[0].ID, ids[0])
}

func TestProjectServiceListFinalizedStaysActive(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepo()
	svc := service.NewProjectService(repo, nil, nil, testLogger())

	project, err := svc.Create(ctx, createInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, project.ID, &domain.ProjectInput{Finalized: boolPtr(true)})
	require.NoError(t, err)

	// Finalized but not archived projects remain in the active listing
	active, err := svc.List(ctx, repository.ListStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, active[0].Finalized)
}

func TestProjectServiceCacheFlow(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepo()
	cache := newFakeProjectCache()
	svc := service.NewProjectService(repo, cache, nil, testLogger())

	created, err := svc.Create(ctx, createInput())
	require.NoError(t, err)

	// First read populates the cache
	_, err = svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Contains(t, cache.projects, created.ID)

	// Mutations invalidate it
	_, err = svc.Update(ctx, created.ID, &domain.ProjectInput{Finalized: boolPtr(true)})
	require.NoError(t, err)
	assert.NotContains(t, cache.projects, created.ID)
	assert.Contains(t, cache.invalidated, created.ID)
}

func TestProjectServicePublishesEvents(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepo()
	publisher := &fakePublisher{}
	svc := service.NewProjectService(repo, nil, publisher, testLogger())

	created, err := svc.Create(ctx, createInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, &domain.ProjectInput{Finalized: boolPtr(true)})
	require.NoError(t, err)

	_, err = svc.Archive(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"project_created", "project_updated", "project_archived"}, publisher.events)
}

func TestProjectServiceGetByIDNotFound(t *testing.T) {
	ctx := context.Background()
	svc := service.NewProjectService(newFakeProjectRepo(), nil, nil, testLogger())

	_, err := svc.GetByID(ctx, "missing")
	require.ErrorIs(t, err, service.ErrProjectNotFound)
}
