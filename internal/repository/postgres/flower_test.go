package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qwwn/capstone-sangar/internal/domain"
	"github.com/Qwwn/capstone-sangar/internal/repository"
	"github.com/Qwwn/capstone-sangar/pkg/database"
	apperrors "github.com/Qwwn/capstone-sangar/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

func newRepo(mock pgxmock.PgxPoolIface) *FlowerRepository {
	return NewFlowerRepository(mock, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func strPtr(s string) *string { return &s }

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var flowerCols = []string{
	"id", "seller_id", "name", "local_name", "cover_url", "created_at", "updated_at",
}

var flowerColsWithCount = []string{
	"id", "seller_id", "name", "local_name", "cover_url", "created_at", "updated_at",
	"total_count",
}

func sampleFlower() domain.Flower {
	return domain.Flower{
		ID:        "f1",
		SellerID:  "seller-1",
		Name:      "Rose",
		LocalName: "Mawar",
		CoverURL:  strPtr("http://assets.local/f1_rose.jpg"),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func flowerRow(f domain.Flower) []any {
	return []any{f.ID, f.SellerID, f.Name, f.LocalName, f.CoverURL, f.CreatedAt, f.UpdatedAt}
}

func TestFlowerRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	f := sampleFlower()
	f.SearchTokens = domain.SearchTokens(f.Name)

	mock.ExpectExec("INSERT INTO flowers").
		WithArgs(f.ID, f.SellerID, f.Name, f.LocalName, f.CoverURL, f.SearchTokens, f.CreatedAt, f.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &f)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlowerRepository_Create_UniqueViolation(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	f := sampleFlower()
	f.SearchTokens = domain.SearchTokens(f.Name)

	mock.ExpectExec("INSERT INTO flowers").
		WithArgs(f.ID, f.SellerID, f.Name, f.LocalName, f.CoverURL, f.SearchTokens, f.CreatedAt, f.UpdatedAt).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), &f)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestFlowerRepository_GetByID_Found(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	f := sampleFlower()
	mock.ExpectQuery("SELECT (.+) FROM flowers WHERE id =").
		WithArgs("f1").
		WillReturnRows(pgxmock.NewRows(flowerCols).AddRow(flowerRow(f)...))

	got, err := repo.GetByID(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "Rose", got.Name)
	assert.Empty(t, got.SearchTokens)
}

func TestFlowerRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	mock.ExpectQuery("SELECT (.+) FROM flowers WHERE id =").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(flowerCols))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFlowerRepository_GetByID_DuplicateFirstWins(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	first := sampleFlower()
	second := sampleFlower()
	second.SellerID = "seller-2"
	second.Name = "Rose Copy"

	mock.ExpectQuery("SELECT (.+) FROM flowers WHERE id =").
		WithArgs("f1").
		WillReturnRows(pgxmock.NewRows(flowerCols).
			AddRow(flowerRow(first)...).
			AddRow(flowerRow(second)...))

	got, err := repo.GetByID(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "seller-1", got.SellerID)
	assert.Equal(t, "Rose", got.Name)
}

func TestFlowerRepository_List_WithCount(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	f := sampleFlower()
	mock.ExpectQuery("SELECT (.+) FROM flowers").
		WithArgs(10, 10).
		WillReturnRows(pgxmock.NewRows(flowerColsWithCount).
			AddRow(append(flowerRow(f), 25)...))

	flowers, total, err := repo.List(context.Background(), repository.ListFilter{Page: 2, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, flowers, 1)
	assert.Equal(t, 25, total)
}

func TestFlowerRepository_List_PageBeyondEnd(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	// OFFSET past the last row: the window count never reaches the client,
	// so the repo recounts instead of reporting an empty table.
	mock.ExpectQuery("SELECT (.+) FROM flowers").
		WithArgs(10, 50).
		WillReturnRows(pgxmock.NewRows(flowerColsWithCount))
	mock.ExpectQuery(`SELECT count\(\*\) FROM flowers`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(25))

	flowers, total, err := repo.List(context.Background(), repository.ListFilter{Page: 6, PerPage: 10})
	require.NoError(t, err)
	assert.Empty(t, flowers)
	assert.Equal(t, 25, total)
}

func TestFlowerRepository_ListBySeller(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	f := sampleFlower()
	mock.ExpectQuery("SELECT (.+) FROM flowers").
		WithArgs("seller-1", 20, 0).
		WillReturnRows(pgxmock.NewRows(flowerColsWithCount).
			AddRow(append(flowerRow(f), 1)...))

	flowers, total, err := repo.ListBySeller(context.Background(), "seller-1", repository.ListFilter{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Len(t, flowers, 1)
	assert.Equal(t, 1, total)
}

func TestFlowerRepository_ListBySeller_PageBeyondEnd(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	mock.ExpectQuery("SELECT (.+) FROM flowers").
		WithArgs("seller-1", 20, 20).
		WillReturnRows(pgxmock.NewRows(flowerColsWithCount))
	mock.ExpectQuery(`SELECT count\(\*\) FROM flowers WHERE seller_id =`).
		WithArgs("seller-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	flowers, total, err := repo.ListBySeller(context.Background(), "seller-1", repository.ListFilter{Page: 2, PerPage: 20})
	require.NoError(t, err)
	assert.Empty(t, flowers)
	assert.Equal(t, 3, total)
}

func TestFlowerRepository_GetBySellerAndID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	mock.ExpectQuery("SELECT (.+) FROM flowers WHERE seller_id =").
		WithArgs("seller-1", "missing").
		WillReturnRows(pgxmock.NewRows(flowerCols))

	_, err := repo.GetBySellerAndID(context.Background(), "seller-1", "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFlowerRepository_ExistsByName(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("seller-1", "Rose").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByName(context.Background(), "seller-1", "Rose")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFlowerRepository_FindByToken_Scoped(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	f := sampleFlower()
	mock.ExpectQuery("SELECT (.+) FROM flowers").
		WithArgs("seller-1", "ros").
		WillReturnRows(pgxmock.NewRows(flowerCols).AddRow(flowerRow(f)...))

	flowers, err := repo.FindByToken(context.Background(), "ros", strPtr("seller-1"))
	require.NoError(t, err)
	assert.Len(t, flowers, 1)
}

func TestFlowerRepository_FindByToken_GlobalEmpty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	mock.ExpectQuery("SELECT (.+) FROM flowers").
		WithArgs("xyz").
		WillReturnRows(pgxmock.NewRows(flowerCols))

	flowers, err := repo.FindByToken(context.Background(), "xyz", nil)
	require.NoError(t, err)
	assert.Empty(t, flowers)
}

func TestFlowerRepository_FindByLocalNamePrefix_RangeBounds(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	f := sampleFlower()
	mock.ExpectQuery("SELECT (.+) FROM flowers").
		WithArgs("Maw", "Maw").
		WillReturnRows(pgxmock.NewRows(flowerCols).AddRow(flowerRow(f)...))

	flowers, err := repo.FindByLocalNamePrefix(context.Background(), "Maw")
	require.NoError(t, err)
	require.Len(t, flowers, 1)
	assert.Equal(t, "Mawar", flowers[0].LocalName)
}

func TestFlowerRepository_Update_RenameWritesTokens(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	update := repository.PartialUpdate{
		Name:         strPtr("Tulip"),
		SearchTokens: domain.SearchTokens("Tulip"),
	}

	mock.ExpectExec("UPDATE flowers SET").
		WithArgs("Tulip", update.SearchTokens, pgxmock.AnyArg(), "seller-1", "f1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), "seller-1", "f1", update)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlowerRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	mock.ExpectExec("UPDATE flowers SET").
		WithArgs("Mawar", pgxmock.AnyArg(), "seller-1", "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), "seller-1", "missing", repository.PartialUpdate{
		LocalName: strPtr("Mawar"),
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFlowerRepository_Update_NoFieldsIsNoop(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	err := repo.Update(context.Background(), "seller-1", "f1", repository.PartialUpdate{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlowerRepository_Delete_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	mock.ExpectExec("DELETE FROM flowers").
		WithArgs("seller-1", "f1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "seller-1", "f1")
	require.NoError(t, err)
}

func TestFlowerRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	mock.ExpectExec("DELETE FROM flowers").
		WithArgs("seller-1", "missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "seller-1", "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
