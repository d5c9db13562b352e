package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Qwwn/capstone-sangar/pkg/errors"

	"github.com/Qwwn/capstone-sangar/internal/domain"
)

type mockSellerDirectory struct {
	mock.Mock
}

func (m *mockSellerDirectory) GetSellerByID(ctx context.Context, id string) (*domain.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seller), args.Error(1)
}

func newTestSearch(repo *mockFlowerRepository, sellers *mockSellerDirectory) *SearchService {
	return NewSearchService(repo, sellers, newTestLogger())
}

func TestSearchTokenMatch(t *testing.T) {
	repo := new(mockFlowerRepository)
	sellers := new(mockSellerDirectory)
	svc := newTestSearch(repo, sellers)

	rose := domain.Flower{ID: "f1", SellerID: "seller-1", Name: "Rose", LocalName: "Mawar"}
	repo.On("FindByToken", mock.Anything, "rose", (*string)(nil)).Return([]domain.Flower{rose}, nil)
	sellers.On("GetSellerByID", mock.Anything, "seller-1").
		Return(&domain.Seller{ID: "seller-1", Name: "Toko Melati"}, nil)

	results, err := svc.Search(context.Background(), "Rose", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "f1", results[0].ID)
	assert.Equal(t, "Toko Melati", results[0].Seller.Name)

	repo.AssertNotCalled(t, "FindByLocalNamePrefix", mock.Anything, mock.Anything)
}

func TestSearchScopedFallsBackToGlobal(t *testing.T) {
	repo := new(mockFlowerRepository)
	sellers := new(mockSellerDirectory)
	svc := newTestSearch(repo, sellers)

	scope := "seller-2"
	rose := domain.Flower{ID: "f1", SellerID: "seller-1", Name: "Rose"}
	repo.On("FindByToken", mock.Anything, "rose", &scope).Return([]domain.Flower{}, nil)
	repo.On("FindByToken", mock.Anything, "rose", (*string)(nil)).Return([]domain.Flower{rose}, nil)
	sellers.On("GetSellerByID", mock.Anything, "seller-1").
		Return(&domain.Seller{ID: "seller-1", Name: "Toko Melati"}, nil)

	results, err := svc.Search(context.Background(), "rose", &scope)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "f1", results[0].ID)
}

func TestSearchLocalNameFallback(t *testing.T) {
	repo := new(mockFlowerRepository)
	sellers := new(mockSellerDirectory)
	svc := newTestSearch(repo, sellers)

	rose := domain.Flower{ID: "f1", SellerID: "seller-1", Name: "Rose", LocalName: "Mawar"}
	repo.On("FindByToken", mock.Anything, "maw", (*string)(nil)).Return([]domain.Flower{}, nil)
	repo.On("FindByLocalNamePrefix", mock.Anything, "Maw").Return([]domain.Flower{rose}, nil)
	sellers.On("GetSellerByID", mock.Anything, "seller-1").
		Return(&domain.Seller{ID: "seller-1", Name: "Toko Melati"}, nil)

	results, err := svc.Search(context.Background(), "maw", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Mawar", results[0].LocalName)
}

func TestSearchNoMatchIsNotFound(t *testing.T) {
	repo := new(mockFlowerRepository)
	svc := newTestSearch(repo, new(mockSellerDirectory))

	repo.On("FindByToken", mock.Anything, "xyz", (*string)(nil)).Return([]domain.Flower{}, nil)
	repo.On("FindByLocalNamePrefix", mock.Anything, "Xyz").Return([]domain.Flower{}, nil)

	_, err := svc.Search(context.Background(), "xyz", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSearchEmptyTermIsInvalid(t *testing.T) {
	svc := newTestSearch(new(mockFlowerRepository), new(mockSellerDirectory))

	_, err := svc.Search(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSearchDropsFlowersWithUnknownSeller(t *testing.T) {
	repo := new(mockFlowerRepository)
	sellers := new(mockSellerDirectory)
	svc := newTestSearch(repo, sellers)

	known := domain.Flower{ID: "f1", SellerID: "seller-1", Name: "Rose"}
	orphan := domain.Flower{ID: "f2", SellerID: "gone", Name: "Rosemary"}
	repo.On("FindByToken", mock.Anything, "ros", (*string)(nil)).
		Return([]domain.Flower{known, orphan}, nil)
	sellers.On("GetSellerByID", mock.Anything, "seller-1").
		Return(&domain.Seller{ID: "seller-1", Name: "Toko Melati"}, nil)
	sellers.On("GetSellerByID", mock.Anything, "gone").
		Return(nil, apperrors.NotFound("seller", "gone"))

	results, err := svc.Search(context.Background(), "ros", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "f1", results[0].ID)
}

func TestSearchUpstreamFailurePropagates(t *testing.T) {
	repo := new(mockFlowerRepository)
	sellers := new(mockSellerDirectory)
	svc := newTestSearch(repo, sellers)

	rose := domain.Flower{ID: "f1", SellerID: "seller-1", Name: "Rose"}
	repo.On("FindByToken", mock.Anything, "rose", (*string)(nil)).Return([]domain.Flower{rose}, nil)
	sellers.On("GetSellerByID", mock.Anything, "seller-1").
		Return(nil, apperrors.Upstream("seller directory", errors.New("timeout")))

	_, err := svc.Search(context.Background(), "rose", nil)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestFindByID(t *testing.T) {
	repo := new(mockFlowerRepository)
	sellers := new(mockSellerDirectory)
	svc := newTestSearch(repo, sellers)

	rose := &domain.Flower{ID: "f1", SellerID: "seller-1", Name: "Rose"}
	repo.On("GetByID", mock.Anything, "f1").Return(rose, nil)
	sellers.On("GetSellerByID", mock.Anything, "seller-1").
		Return(&domain.Seller{ID: "seller-1", Name: "Toko Melati"}, nil)

	result, err := svc.FindByID(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "f1", result.ID)
	assert.Equal(t, "seller-1", result.Seller.ID)
}

func TestFindByIDNotFound(t *testing.T) {
	repo := new(mockFlowerRepository)
	svc := newTestSearch(repo, new(mockSellerDirectory))

	repo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NotFound("flower", "missing"))

	_, err := svc.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
