package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/Qwwn/capstone-sangar/pkg/errors"

	"github.com/Qwwn/capstone-sangar/internal/domain"
	"github.com/Qwwn/capstone-sangar/internal/repository"
	"github.com/Qwwn/capstone-sangar/internal/seller"
)

// SearchService resolves catalog searches through a tiered fallback: the
// token index first (seller-scoped, then global), then a title-cased range
// scan over local names. Results are enriched with the owning seller.
type SearchService struct {
	repo    repository.FlowerRepository
	sellers seller.Directory
	logger  *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(repo repository.FlowerRepository, sellers seller.Directory, logger *slog.Logger) *SearchService {
	return &SearchService{
		repo:    repo,
		sellers: sellers,
		logger:  logger,
	}
}

// Search runs the tiered lookup for term. A non-nil scopeSellerID restricts
// the first tier to that seller's flowers; when the scoped tier comes back
// empty the search widens to the full catalog before falling through to the
// local-name range scan. Zero results across all tiers is NotFound.
func (s *SearchService) Search(ctx context.Context, term string, scopeSellerID *string) ([]domain.FlowerWithSeller, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperrors.InvalidInput("search term is required")
	}

	token := strings.ToLower(term)

	flowers, err := s.repo.FindByToken(ctx, token, scopeSellerID)
	if err != nil {
		return nil, fmt.Errorf("token search: %w", err)
	}

	if len(flowers) == 0 && scopeSellerID != nil {
		flowers, err = s.repo.FindByToken(ctx, token, nil)
		if err != nil {
			return nil, fmt.Errorf("global token search: %w", err)
		}
	}

	if len(flowers) == 0 {
		flowers, err = s.repo.FindByLocalNamePrefix(ctx, domain.TitleCase(term))
		if err != nil {
			return nil, fmt.Errorf("local name search: %w", err)
		}
	}

	if len(flowers) == 0 {
		return nil, apperrors.NotFoundMsg(fmt.Sprintf("no flowers match %q", term))
	}

	return s.enrich(ctx, flowers, term)
}

// FindByID resolves a single flower by its global id, enriched with its
// seller.
func (s *SearchService) FindByID(ctx context.Context, id string) (*domain.FlowerWithSeller, error) {
	flower, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get flower by id: %w", err)
	}

	sel, err := s.sellers.GetSellerByID(ctx, flower.SellerID)
	if err != nil {
		return nil, fmt.Errorf("resolve seller %s: %w", flower.SellerID, err)
	}

	enriched := flower.WithSeller(sel)
	return &enriched, nil
}

// enrich replaces each flower's seller id with the resolved seller
// projection. A flower pointing at a seller the directory no longer knows is
// dropped with a warning rather than failing the whole search.
func (s *SearchService) enrich(ctx context.Context, flowers []domain.Flower, term string) ([]domain.FlowerWithSeller, error) {
	enriched := make([]domain.FlowerWithSeller, 0, len(flowers))

	for i := range flowers {
		sel, err := s.sellers.GetSellerByID(ctx, flowers[i].SellerID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				s.logger.WarnContext(ctx, "flower references unknown seller, dropping from results",
					slog.String("flower_id", flowers[i].ID),
					slog.String("seller_id", flowers[i].SellerID),
				)
				continue
			}
			return nil, fmt.Errorf("resolve seller %s: %w", flowers[i].SellerID, err)
		}
		enriched = append(enriched, flowers[i].WithSeller(sel))
	}

	if len(enriched) == 0 {
		return nil, apperrors.NotFoundMsg(fmt.Sprintf("no flowers match %q", term))
	}

	return enriched, nil
}
