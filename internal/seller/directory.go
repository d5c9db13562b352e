// Package seller resolves seller identifiers to seller records. The seller
// directory is owned by another service; this package only reads from it.
package seller

import (
	"context"

	"github.com/Qwwn/capstone-sangar/internal/domain"
)

// Directory looks up seller records for search result enrichment.
type Directory interface {
	// GetSellerByID returns the seller projection for the given id, or a
	// NotFound error when the directory has no such seller.
	GetSellerByID(ctx context.Context, id string) (*domain.Seller, error)
}
