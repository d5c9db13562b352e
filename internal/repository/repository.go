package repository

import (
	"context"

	"github.com/Qwwn/capstone-sangar/internal/domain"
)

// ListFilter defines pagination for flower listings.
type ListFilter struct {
	Page    int
	PerPage int
}

// PartialUpdate carries the fields to change on an existing flower. Nil
// pointers leave the stored value untouched. Tokens must be supplied whenever
// Name is, so the denormalized index never goes stale.
type PartialUpdate struct {
	Name         *string
	LocalName    *string
	CoverURL     *string
	SearchTokens []string
}

// FlowerRepository is the persistence contract for the catalog. The backing
// store is hierarchical (one flowers sub-collection per seller); unscoped
// operations span every seller's sub-collection.
type FlowerRepository interface {
	// Create inserts a new flower document under its seller.
	Create(ctx context.Context, flower *domain.Flower) error

	// List returns flowers across all sellers with the total count.
	List(ctx context.Context, filter ListFilter) ([]domain.Flower, int, error)

	// GetByID scans all sellers for the flower with the given id. More than
	// one match is a corruption signal: the first row wins and the rest are
	// logged, not raised.
	GetByID(ctx context.Context, id string) (*domain.Flower, error)

	// ListBySeller returns one seller's flowers with the total count.
	ListBySeller(ctx context.Context, sellerID string, filter ListFilter) ([]domain.Flower, int, error)

	// GetBySellerAndID retrieves a flower within a seller's sub-collection.
	GetBySellerAndID(ctx context.Context, sellerID, id string) (*domain.Flower, error)

	// ExistsByName reports whether the seller already has a flower with the
	// exact display name.
	ExistsByName(ctx context.Context, sellerID, name string) (bool, error)

	// FindByToken returns flowers whose search token set contains term.
	// The term must already be lowercased. A nil sellerID searches globally.
	FindByToken(ctx context.Context, term string, sellerID *string) ([]domain.Flower, error)

	// FindByLocalNamePrefix returns flowers whose local name starts with the
	// given prefix. The range bound is case-sensitive; callers supply
	// title-cased input on the fallback path.
	FindByLocalNamePrefix(ctx context.Context, prefix string) ([]domain.Flower, error)

	// Update applies a partial update to the flower identified by
	// (sellerID, id).
	Update(ctx context.Context, sellerID, id string, update PartialUpdate) error

	// Delete removes the flower identified by (sellerID, id).
	Delete(ctx context.Context, sellerID, id string) error
}
