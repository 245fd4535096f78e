package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestataires/backend/internal/application/services"
	"github.com/prestataires/backend/internal/domain/entities"
	"github.com/prestataires/backend/internal/domain/repositories"
	apperrors "github.com/prestataires/backend/pkg/errors"
)

// fakeProviderRepo is an in-memory ProviderRepository.
type fakeProviderRepo struct {
	byID     map[string]*entities.Provider
	order    []string
	replaced map[string][]entities.Service
}

func newFakeProviderRepo() *fakeProviderRepo {
	return &fakeProviderRepo{
		byID:     make(map[string]*entities.Provider),
		replaced: make(map[string][]entities.Service),
	}
}

func (f *fakeProviderRepo) Create(_ context.Context, p *entities.Provider) error {
	f.byID[p.ID] = p
	f.order = append([]string{p.ID}, f.order...)
	return nil
}

func (f *fakeProviderRepo) GetByID(_ context.Context, id string) (*entities.Provider, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("provider not found")
	}
	return p, nil
}

func (f *fakeProviderRepo) Update(_ context.Context, p *entities.Provider) error {
	if _, ok := f.byID[p.ID]; !ok {
		return apperrors.NewNotFoundError("provider not found")
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProviderRepo) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeProviderRepo) List(_ context.Context, _ repositories.ProviderFilter) ([]*entities.Provider, error) {
	out := make([]*entities.Provider, 0, len(f.order))
	for _, id := range f.order {
		if p, ok := f.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProviderRepo) ReplaceServices(_ context.Context, providerID string, svcs []entities.Service) error {
	f.replaced[providerID] = svcs
	return nil
}

// fakeIndex records index operations and can be told to fail.
type fakeIndex struct {
	indexed []string
	deleted []string
	fail    bool
}

func (f *fakeIndex) Index(_ context.Context, p *entities.Provider) error {
	if f.fail {
		return errors.New("index unavailable")
	}
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _ int) ([]*entities.Provider, error) {
	return nil, nil
}

func session(userID string) *entities.Session {
	return &entities.Session{UserID: userID, Email: userID + "@example.com"}
}

func validProvider() *entities.Provider {
	return &entities.Provider{
		FirstName:  "Awa",
		LastName:   "Diallo",
		City:       "Paris",
		Phone:      "+33 6 00 00 00 00",
		Categories: []string{"Coiffeur"},
		Services: []entities.Service{
			{Name: "Coupe femme", Price: 35},
			{Name: "", Price: 10},        // incomplete, dropped
			{Name: "Brushing", Price: 0}, // incomplete, dropped
		},
	}
}

func TestProviderService_Create(t *testing.T) {
	repo := newFakeProviderRepo()
	index := &fakeIndex{}
	svc := services.NewProviderService(repo, index, nil)

	p := validProvider()
	err := svc.Create(context.Background(), session("u1"), p)
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	require.NotNil(t, p.UserID)
	assert.Equal(t, "u1", *p.UserID)
	require.Len(t, p.Services, 1)
	assert.Equal(t, "Coupe femme", p.Services[0].Name)
	assert.Equal(t, p.ID, p.Services[0].ProviderID)
	assert.Equal(t, []string{p.ID}, index.indexed)
}

func TestProviderService_Create_RequiresSession(t *testing.T) {
	svc := services.NewProviderService(newFakeProviderRepo(), nil, nil)

	err := svc.Create(context.Background(), nil, validProvider())

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
}

func TestProviderService_Create_RequiresCompleteService(t *testing.T) {
	svc := services.NewProviderService(newFakeProviderRepo(), nil, nil)

	p := validProvider()
	p.Services = []entities.Service{{Name: "", Price: 0}}
	err := svc.Create(context.Background(), session("u1"), p)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestProviderService_Create_SurvivesIndexFailure(t *testing.T) {
	repo := newFakeProviderRepo()
	svc := services.NewProviderService(repo, &fakeIndex{fail: true}, nil)

	err := svc.Create(context.Background(), session("u1"), validProvider())
	assert.NoError(t, err)
}

func TestProviderService_Update_OwnerOnly(t *testing.T) {
	repo := newFakeProviderRepo()
	svc := services.NewProviderService(repo, nil, nil)

	p := validProvider()
	require.NoError(t, svc.Create(context.Background(), session("owner"), p))

	edit := *p
	edit.About = strPtr("Salon à domicile")

	err := svc.Update(context.Background(), session("intruder"), &edit)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)

	require.NoError(t, svc.Update(context.Background(), session("owner"), &edit))
}

func TestProviderService_Update_ReplacesServices(t *testing.T) {
	repo := newFakeProviderRepo()
	svc := services.NewProviderService(repo, nil, nil)

	p := validProvider()
	require.NoError(t, svc.Create(context.Background(), session("owner"), p))

	edit := *p
	edit.Services = []entities.Service{
		{Name: "Coupe homme", Price: 25},
		{Name: "abandoned row", Price: -1},
	}
	require.NoError(t, svc.Update(context.Background(), session("owner"), &edit))

	replaced := repo.replaced[p.ID]
	require.Len(t, replaced, 1)
	assert.Equal(t, "Coupe homme", replaced[0].Name)
	assert.Equal(t, p.ID, replaced[0].ProviderID)
}

func TestProviderService_Delete(t *testing.T) {
	repo := newFakeProviderRepo()
	index := &fakeIndex{}
	svc := services.NewProviderService(repo, index, nil)

	p := validProvider()
	require.NoError(t, svc.Create(context.Background(), session("owner"), p))

	err := svc.Delete(context.Background(), session("someone"), p.ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)

	require.NoError(t, svc.Delete(context.Background(), session("owner"), p.ID))
	assert.Equal(t, []string{p.ID}, index.deleted)

	_, err = svc.GetByID(context.Background(), p.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func strPtr(s string) *string { return &s }
