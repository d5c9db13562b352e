package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Qwwn/capstone-sangar/internal/domain"
	"github.com/Qwwn/capstone-sangar/internal/repository"
	"github.com/Qwwn/capstone-sangar/pkg/database"
	apperrors "github.com/Qwwn/capstone-sangar/pkg/errors"
)

// localNameRangeSentinel is the high unicode code point used as the exclusive
// upper bound of the local-name prefix range, mirroring the document store's
// lexicographic range query.
const localNameRangeSentinel = "\uf8ff" // U+F8FF, last private-use code point

// flowerColumns is the SELECT column list for reads. search_tokens is an
// internal index artifact and is never selected on the read path.
const flowerColumns = `id, seller_id, name, local_name, cover_url, created_at, updated_at`

// FlowerRepository implements repository.FlowerRepository using PostgreSQL.
// The seller hierarchy is flattened into a single flowers table; per-seller
// sub-collections become seller_id filters and collection-group scans become
// unfiltered queries.
type FlowerRepository struct {
	pool   database.DBTX
	logger *slog.Logger
}

// NewFlowerRepository creates a new PostgreSQL-backed flower repository.
func NewFlowerRepository(pool database.DBTX, logger *slog.Logger) *FlowerRepository {
	return &FlowerRepository{pool: pool, logger: logger}
}

// Create inserts a new flower document under its seller.
func (r *FlowerRepository) Create(ctx context.Context, f *domain.Flower) error {
	query := `
		INSERT INTO flowers (id, seller_id, name, local_name, cover_url, search_tokens, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		f.ID,
		f.SellerID,
		f.Name,
		f.LocalName,
		f.CoverURL,
		f.SearchTokens,
		f.CreatedAt,
		f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("flower", "name", f.Name)
		}
		return fmt.Errorf("insert flower: %w", err)
	}

	return nil
}

// List returns flowers across all sellers with the total count.
func (r *FlowerRepository) List(ctx context.Context, filter repository.ListFilter) ([]domain.Flower, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM flowers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, flowerColumns)

	limit, offset := limitOffset(filter)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list flowers: %w", err)
	}
	defer rows.Close()

	flowers, total, err := scanFlowersWithCount(rows)
	if err != nil {
		return nil, 0, err
	}

	// The window count comes back on the rows themselves, so an OFFSET past
	// the end yields zero rows and no count. Recount so an out-of-range page
	// is distinguishable from an empty table.
	if len(flowers) == 0 && offset > 0 {
		total, err = r.count(ctx, `SELECT count(*) FROM flowers`)
		if err != nil {
			return nil, 0, err
		}
	}

	return flowers, total, nil
}

// GetByID scans all sellers for the flower with the given id. The id is
// supposed to be globally unique; when the scan turns up more than one row
// the first wins and the duplication is logged as a corruption signal.
func (r *FlowerRepository) GetByID(ctx context.Context, id string) (*domain.Flower, error) {
	query := fmt.Sprintf(`SELECT %s FROM flowers WHERE id = $1`, flowerColumns)

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get flower by id: %w", err)
	}
	defer rows.Close()

	flowers, err := scanFlowers(rows)
	if err != nil {
		return nil, err
	}

	if len(flowers) == 0 {
		return nil, apperrors.ErrNotFound
	}
	if len(flowers) > 1 {
		r.logger.WarnContext(ctx, "duplicate flower id across sellers, using first match",
			slog.String("flower_id", id),
			slog.Int("matches", len(flowers)),
		)
	}

	return &flowers[0], nil
}

// ListBySeller returns one seller's flowers with the total count.
func (r *FlowerRepository) ListBySeller(ctx context.Context, sellerID string, filter repository.ListFilter) ([]domain.Flower, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM flowers
		WHERE seller_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, flowerColumns)

	limit, offset := limitOffset(filter)

	rows, err := r.pool.Query(ctx, query, sellerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list seller flowers: %w", err)
	}
	defer rows.Close()

	flowers, total, err := scanFlowersWithCount(rows)
	if err != nil {
		return nil, 0, err
	}

	if len(flowers) == 0 && offset > 0 {
		total, err = r.count(ctx, `SELECT count(*) FROM flowers WHERE seller_id = $1`, sellerID)
		if err != nil {
			return nil, 0, err
		}
	}

	return flowers, total, nil
}

// GetBySellerAndID retrieves a flower within a seller's sub-collection.
func (r *FlowerRepository) GetBySellerAndID(ctx context.Context, sellerID, id string) (*domain.Flower, error) {
	query := fmt.Sprintf(`SELECT %s FROM flowers WHERE seller_id = $1 AND id = $2`, flowerColumns)

	var f domain.Flower
	err := r.pool.QueryRow(ctx, query, sellerID, id).Scan(
		&f.ID, &f.SellerID, &f.Name, &f.LocalName, &f.CoverURL, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get seller flower: %w", err)
	}

	return &f, nil
}

// ExistsByName reports whether the seller already has a flower with the exact
// display name.
func (r *FlowerRepository) ExistsByName(ctx context.Context, sellerID, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM flowers WHERE seller_id = $1 AND name = $2)`,
		sellerID, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check flower exists: %w", err)
	}
	return exists, nil
}

// FindByToken returns flowers whose search token set contains the lowercased
// term. A nil sellerID queries across all sellers.
func (r *FlowerRepository) FindByToken(ctx context.Context, term string, sellerID *string) ([]domain.Flower, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if sellerID != nil {
		query := fmt.Sprintf(`
			SELECT %s FROM flowers
			WHERE seller_id = $1 AND $2 = ANY(search_tokens)
			ORDER BY name`, flowerColumns)
		rows, err = r.pool.Query(ctx, query, *sellerID, term)
	} else {
		query := fmt.Sprintf(`
			SELECT %s FROM flowers
			WHERE $1 = ANY(search_tokens)
			ORDER BY name`, flowerColumns)
		rows, err = r.pool.Query(ctx, query, term)
	}
	if err != nil {
		return nil, fmt.Errorf("find flowers by token: %w", err)
	}
	defer rows.Close()

	return scanFlowers(rows)
}

// FindByLocalNamePrefix returns flowers whose local name starts with the
// given prefix, via a lexicographic range scan.
func (r *FlowerRepository) FindByLocalNamePrefix(ctx context.Context, prefix string) ([]domain.Flower, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM flowers
		WHERE local_name >= $1 AND local_name < $2
		ORDER BY local_name`, flowerColumns)

	rows, err := r.pool.Query(ctx, query, prefix, prefix+localNameRangeSentinel)
	if err != nil {
		return nil, fmt.Errorf("find flowers by local name: %w", err)
	}
	defer rows.Close()

	return scanFlowers(rows)
}

// Update applies a partial update to the flower identified by (sellerID, id).
func (r *FlowerRepository) Update(ctx context.Context, sellerID, id string, update repository.PartialUpdate) error {
	var (
		sets     []string
		args     []any
		argIndex = 1
	)

	if update.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *update.Name)
		argIndex++
	}

	if update.LocalName != nil {
		sets = append(sets, fmt.Sprintf("local_name = $%d", argIndex))
		args = append(args, *update.LocalName)
		argIndex++
	}

	if update.CoverURL != nil {
		sets = append(sets, fmt.Sprintf("cover_url = $%d", argIndex))
		args = append(args, *update.CoverURL)
		argIndex++
	}

	if update.SearchTokens != nil {
		sets = append(sets, fmt.Sprintf("search_tokens = $%d", argIndex))
		args = append(args, update.SearchTokens)
		argIndex++
	}

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now().UTC())
	argIndex++

	query := fmt.Sprintf(`UPDATE flowers SET %s WHERE seller_id = $%d AND id = $%d`,
		strings.Join(sets, ", "), argIndex, argIndex+1)
	args = append(args, sellerID, id)

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("flower", "name", *update.Name)
		}
		return fmt.Errorf("update flower: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes the flower identified by (sellerID, id).
func (r *FlowerRepository) Delete(ctx context.Context, sellerID, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM flowers WHERE seller_id = $1 AND id = $2`, sellerID, id)
	if err != nil {
		return fmt.Errorf("delete flower: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *FlowerRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count flowers: %w", err)
	}
	return total, nil
}

// limitOffset converts a ListFilter into LIMIT/OFFSET values.
func limitOffset(filter repository.ListFilter) (int, int) {
	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}
	return limit, offset
}

// scanFlowers collects all rows of a flowerColumns query.
func scanFlowers(rows pgx.Rows) ([]domain.Flower, error) {
	var flowers []domain.Flower

	for rows.Next() {
		var f domain.Flower
		if err := rows.Scan(
			&f.ID, &f.SellerID, &f.Name, &f.LocalName, &f.CoverURL, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan flower row: %w", err)
		}
		flowers = append(flowers, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flower rows: %w", err)
	}

	if flowers == nil {
		flowers = []domain.Flower{}
	}

	return flowers, nil
}

// scanFlowersWithCount collects rows of a flowerColumns + total_count query.
func scanFlowersWithCount(rows pgx.Rows) ([]domain.Flower, int, error) {
	var (
		flowers    []domain.Flower
		totalCount int
	)

	for rows.Next() {
		var f domain.Flower
		if err := rows.Scan(
			&f.ID, &f.SellerID, &f.Name, &f.LocalName, &f.CoverURL, &f.CreatedAt, &f.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan flower row: %w", err)
		}
		flowers = append(flowers, f)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate flower rows: %w", err)
	}

	if flowers == nil {
		flowers = []domain.Flower{}
	}

	return flowers, totalCount, nil
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
