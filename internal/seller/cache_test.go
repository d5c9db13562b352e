package seller

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Qwwn/capstone-sangar/internal/domain"
	apperrors "github.com/Qwwn/capstone-sangar/pkg/errors"
)

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) GetSellerByID(ctx context.Context, id string) (*domain.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seller), args.Error(1)
}

func setupCachedDirectory(t *testing.T) (*CachedDirectory, *mockDirectory, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := new(mockDirectory)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return NewCachedDirectory(inner, client, 5*time.Minute, logger), inner, mr
}

func TestCachedDirectoryMissThenHit(t *testing.T) {
	dir, inner, _ := setupCachedDirectory(t)
	ctx := context.Background()

	want := &domain.Seller{ID: "seller-1", Name: "Toko Melati", City: "Bandung"}
	inner.On("GetSellerByID", mock.Anything, "seller-1").Return(want, nil).Once()

	got, err := dir.GetSellerByID(ctx, "seller-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Second lookup is served from the cache; the mock would fail on a
	// second call.
	got, err = dir.GetSellerByID(ctx, "seller-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	inner.AssertExpectations(t)
}

func TestCachedDirectoryNotFoundNotCached(t *testing.T) {
	dir, inner, mr := setupCachedDirectory(t)
	ctx := context.Background()

	inner.On("GetSellerByID", mock.Anything, "missing").
		Return(nil, apperrors.NotFound("seller", "missing")).Twice()

	_, err := dir.GetSellerByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.False(t, mr.Exists("seller:missing"))

	_, err = dir.GetSellerByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	inner.AssertExpectations(t)
}

func TestCachedDirectoryCorruptEntryFallsThrough(t *testing.T) {
	dir, inner, mr := setupCachedDirectory(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("seller:seller-1", "{broken"))

	want := &domain.Seller{ID: "seller-1", Name: "Toko Melati", City: "Bandung"}
	inner.On("GetSellerByID", mock.Anything, "seller-1").Return(want, nil).Once()

	got, err := dir.GetSellerByID(ctx, "seller-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	inner.AssertExpectations(t)
}

func TestCachedDirectoryExpiry(t *testing.T) {
	dir, inner, mr := setupCachedDirectory(t)
	ctx := context.Background()

	want := &domain.Seller{ID: "seller-1", Name: "Toko Melati", City: "Bandung"}
	inner.On("GetSellerByID", mock.Anything, "seller-1").Return(want, nil).Twice()

	_, err := dir.GetSellerByID(ctx, "seller-1")
	require.NoError(t, err)

	mr.FastForward(10 * time.Minute)

	_, err = dir.GetSellerByID(ctx, "seller-1")
	require.NoError(t, err)

	inner.AssertExpectations(t)
}

func TestCachedDirectoryInvalidate(t *testing.T) {
	dir, inner, mr := setupCachedDirectory(t)
	ctx := context.Background()

	want := &domain.Seller{ID: "seller-1", Name: "Toko Melati", City: "Bandung"}
	inner.On("GetSellerByID", mock.Anything, "seller-1").Return(want, nil).Twice()

	_, err := dir.GetSellerByID(ctx, "seller-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("seller:seller-1"))

	require.NoError(t, dir.Invalidate(ctx, "seller-1"))
	assert.False(t, mr.Exists("seller:seller-1"))

	_, err = dir.GetSellerByID(ctx, "seller-1")
	require.NoError(t, err)

	inner.AssertExpectations(t)
}
