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
)

type fakeVisitRepo struct {
	mu     sync.Mutex
	visits map[string]domain.Visit
}

func newFakeVisitRepo() *fakeVisitRepo {
	return &fakeVisitRepo{visits: map[string]domain.Visit{}}
}

func (r *fakeVisitRepo) Create(ctx context.Context, visit *domain.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visits[visit.ID] = *visit
	return nil
}

func (r *fakeVisitRepo) GetByID(ctx context.Context, id string) (*domain.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	visit, ok := r.visits[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &visit, nil
}

func (r *fakeVisitRepo) SoftDelete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	visit, ok := r.visits[id]
	if !ok {
		return domain.ErrNotFound
	}
	visit.Active = false
	r.visits[id] = visit
	return nil
}

func (r *fakeVisitRepo) List(ctx context.Context, filter repository.VisitFilter) ([]*domain.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wantActive := filter.Status != repository.ListStatusArchived
	result := []*domain.Visit{}
	for _, visit := range r.visits {
		if visit.Active == wantActive {
			v := visit
			result = append(result, &v)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func visitInput() *domain.VisitInput {
	return &domain.VisitInput{
		Product: strPtr("ERP Suite"),
		Hours:   numPtr(2.5),
	}
}

func TestVisitServiceCreate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeVisitRepo()
	svc := service.NewVisitService(repo, nil, testLogger())

	input := visitInput()
	input.Client = strPtr("Acme S.A.")
	input.VisitDate = strPtr("2024-03-05")

	visit, err := svc.Create(ctx, input)
	require.NoError(t, err)

	assert.NotEmpty(t, visit.ID)
	assert.Equal(t, "ERP Suite", visit.Product)
	assert.Equal(t, 2.5, visit.Hours)
	assert.Equal(t, 0.0, visit.OpportunityValue)
	assert.True(t, visit.Active)
	assert.False(t, visit.CreatedAt.IsZero())
}

func TestVisitServiceCreateFromRawPayload(t *testing.T) {
	ctx := context.Background()
	repo := newFakeVisitRepo()
	svc := service.NewVisitService(repo, nil, testLogger())

	input := normalizer.Visit(map[string]interface{}{
		"producto":         "ERP Suite",
		"horas":            "1,5",
		"valorOportunidad": "1.250,00",
		"fechaVisita":      "05/03/2024",
	})

	visit, err := svc.Create(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, "ERP Suite", visit.Product)
	assert.Equal(t, 1.5, visit.Hours)
	assert.Equal(t, 1250.0, visit.OpportunityValue)
	require.NotNil(t, visit.VisitDate)
	assert.Equal(t, "2024-03-05", *visit.VisitDate)
}

func TestVisitServiceCreateRequiresProductAndHours(t *testing.T) {
	ctx := context.Background()
	repo := newFakeVisitRepo()
	svc := service.NewVisitService(repo, nil, testLogger())

	_, err := svc.Create(ctx, &domain.VisitInput{})
	require.Error(t, err)

	var errs *validation.Errors
	require.ErrorAs(t, err, &errs)
	fields := map[string]bool{}
	for _, fe := range errs.Fields {
		fields[fe.Field] = true
	}
	assert.True(t, fields["product"])
	assert.True(t, fields["hours"])

	assert.Empty(t, repo.visits)
}

func TestVisitServiceCreateRejectsZeroHours(t *testing.T) {
	ctx := context.Background()
	svc := service.NewVisitService(newFakeVisitRepo(), nil, testLogger())

	input := visitInput()
	input.Hours = numPtr(0)

	_, err := svc.Create(ctx, input)
	var errs *validation.Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs.Fields, 1)
	assert.Equal(t, "hours", errs.Fields[0].Field)
}

func TestVisitServiceDelete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeVisitRepo()
	publisher := &fakePublisher{}
	svc := service.NewVisitService(repo, publisher, testLogger())

	visit, err := svc.Create(ctx, visitInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, visit.ID))
	assert.False(t, repo.visits[visit.ID].Active)

	// Deleting again succeeds without further effect
	require.NoError(t, svc.Delete(ctx, visit.ID))

	assert.Equal(t, []string{"visit_created", "visit_deleted", "visit_deleted"}, publisher.events)
}

func TestVisitServiceDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	svc := service.NewVisitService(newFakeVisitRepo(), nil, testLogger())

	require.ErrorIs(t, svc.Delete(ctx, "missing"), service.ErrVisitNotFound)
}

func TestVisitServiceListExcludesDeleted(t *testing.T) {
	ctx := context.Background()
	repo := newFakeVisitRepo()
	svc := service.NewVisitService(repo, nil, testLogger())

	first, err := svc.Create(ctx, visitInput())
	require.NoError(t, err)
	_, err = svc.Create(ctx, visitInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, first.ID))

	active, err := svc.List(ctx, repository.ListStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.NotEqual(t, first.ID, active[0].ID)

	deleted, err := svc.List(ctx, repository.ListStatusArchived)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, first.ID, deleted[0].ID)
}
