package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Qwwn/capstone-sangar/pkg/errors"

	"github.com/Qwwn/capstone-sangar/internal/asset"
	"github.com/Qwwn/capstone-sangar/internal/domain"
	"github.com/Qwwn/capstone-sangar/internal/event"
	"github.com/Qwwn/capstone-sangar/internal/repository"
)

// CoverStore is the slice of the asset manager the catalog service needs.
type CoverStore interface {
	Upload(ctx context.Context, input *asset.UploadInput) (string, error)
	Delete(ctx context.Context, coverURL string) error
}

// CatalogService implements the write path for the flower catalog: create,
// update and delete, including token index maintenance and cover image
// lifecycle. The document store and the object store share no transaction,
// so writes that touch both compensate on failure instead of rolling back.
type CatalogService struct {
	repo     repository.FlowerRepository
	covers   CoverStore
	producer event.Publisher
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.FlowerRepository, covers CoverStore, producer event.Publisher, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:     repo,
		covers:   covers,
		producer: producer,
		logger:   logger,
	}
}

// CreateFlowerInput holds the parameters for creating a flower.
type CreateFlowerInput struct {
	ID        string
	Name      string
	LocalName string
}

// UpdateFlowerInput holds the parameters for updating a flower. Nil pointers
// leave the stored value untouched.
type UpdateFlowerInput struct {
	Name      *string
	LocalName *string
}

// CreateFlower creates a new flower under the given seller. The display name
// must be unique within the seller. A supplied cover is uploaded before the
// document write; if the write then fails the uploaded object is deleted so
// no orphan remains.
func (s *CatalogService) CreateFlower(ctx context.Context, sellerID string, input *CreateFlowerInput, cover *asset.UploadInput) (*domain.Flower, error) {
	if sellerID == "" {
		return nil, apperrors.InvalidInput("seller id is required")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("flower name is required")
	}
	if len(input.Name) > domain.MaxNameLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("flower name exceeds %d characters", domain.MaxNameLength))
	}

	exists, err := s.repo.ExistsByName(ctx, sellerID, input.Name)
	if err != nil {
		return nil, fmt.Errorf("check flower name: %w", err)
	}
	if exists {
		return nil, apperrors.Conflict("flower", "name", input.Name)
	}

	now := time.Now().UTC()
	flower := &domain.Flower{
		ID:           input.ID,
		SellerID:     sellerID,
		Name:         input.Name,
		LocalName:    input.LocalName,
		SearchTokens: domain.SearchTokens(input.Name),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if flower.ID == "" {
		flower.ID = uuid.New().String()
	}

	if cover != nil {
		cover.FlowerID = flower.ID
		url, err := s.covers.Upload(ctx, cover)
		if err != nil {
			return nil, fmt.Errorf("upload cover: %w", err)
		}
		flower.CoverURL = &url
	}

	if err := s.repo.Create(ctx, flower); err != nil {
		if flower.CoverURL != nil {
			s.compensateCover(ctx, flower.ID, *flower.CoverURL)
		}
		return nil, fmt.Errorf("create flower: %w", err)
	}

	if err := s.producer.PublishFlowerCreated(ctx, flower); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish flower.created event",
			slog.String("flower_id", flower.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "flower created",
		slog.String("flower_id", flower.ID),
		slog.String("seller_id", sellerID),
		slog.String("name", flower.Name),
	)

	return flower, nil
}

// UpdateFlower applies a partial update to a flower. A name change always
// regenerates the search tokens so the index cannot go stale. A new cover
// replaces the old one: the old object is deleted best-effort, the new one
// is uploaded before the document write and compensated if the write fails.
func (s *CatalogService) UpdateFlower(ctx context.Context, sellerID, id string, input *UpdateFlowerInput, cover *asset.UploadInput) (*domain.Flower, error) {
	existing, err := s.repo.GetBySellerAndID(ctx, sellerID, id)
	if err != nil {
		return nil, fmt.Errorf("get flower for update: %w", err)
	}

	update := repository.PartialUpdate{
		Name:      input.Name,
		LocalName: input.LocalName,
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("flower name must not be empty")
		}
		if len(*input.Name) > domain.MaxNameLength {
			return nil, apperrors.InvalidInput(fmt.Sprintf("flower name exceeds %d characters", domain.MaxNameLength))
		}
		update.SearchTokens = domain.SearchTokens(*input.Name)
	}

	if cover != nil {
		if existing.CoverURL != nil {
			if err := s.covers.Delete(ctx, *existing.CoverURL); err != nil {
				s.logger.WarnContext(ctx, "failed to delete previous cover",
					slog.String("flower_id", id),
					slog.String("cover_url", *existing.CoverURL),
					slog.String("error", err.Error()),
				)
			}
		}

		cover.FlowerID = id
		url, err := s.covers.Upload(ctx, cover)
		if err != nil {
			return nil, fmt.Errorf("upload cover: %w", err)
		}
		update.CoverURL = &url
	}

	if err := s.repo.Update(ctx, sellerID, id, update); err != nil {
		if update.CoverURL != nil {
			s.compensateCover(ctx, id, *update.CoverURL)
		}
		return nil, fmt.Errorf("update flower: %w", err)
	}

	updated := applyUpdate(existing, update)

	if err := s.producer.PublishFlowerUpdated(ctx, updated); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish flower.updated event",
			slog.String("flower_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "flower updated",
		slog.String("flower_id", id),
		slog.String("seller_id", sellerID),
	)

	return updated, nil
}

// DeleteFlower removes a flower and cascades to its cover image. The image
// deletion is best-effort; the document deletion is authoritative.
func (s *CatalogService) DeleteFlower(ctx context.Context, sellerID, id string) error {
	existing, err := s.repo.GetBySellerAndID(ctx, sellerID, id)
	if err != nil {
		return fmt.Errorf("get flower for delete: %w", err)
	}

	if existing.CoverURL != nil {
		if err := s.covers.Delete(ctx, *existing.CoverURL); err != nil {
			s.logger.WarnContext(ctx, "failed to delete cover during flower delete",
				slog.String("flower_id", id),
				slog.String("cover_url", *existing.CoverURL),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.repo.Delete(ctx, sellerID, id); err != nil {
		return fmt.Errorf("delete flower: %w", err)
	}

	if err := s.producer.PublishFlowerDeleted(ctx, sellerID, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish flower.deleted event",
			slog.String("flower_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "flower deleted",
		slog.String("flower_id", id),
		slog.String("seller_id", sellerID),
	)

	return nil
}

// GetFlower retrieves a flower by its global id.
func (s *CatalogService) GetFlower(ctx context.Context, id string) (*domain.Flower, error) {
	flower, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get flower by id: %w", err)
	}
	return flower, nil
}

// GetSellerFlower retrieves a flower within a seller's catalog.
func (s *CatalogService) GetSellerFlower(ctx context.Context, sellerID, id string) (*domain.Flower, error) {
	flower, err := s.repo.GetBySellerAndID(ctx, sellerID, id)
	if err != nil {
		return nil, fmt.Errorf("get seller flower: %w", err)
	}
	return flower, nil
}

// ListFlowers returns a page of the full catalog with the total count.
func (s *CatalogService) ListFlowers(ctx context.Context, filter repository.ListFilter) ([]domain.Flower, int, error) {
	flowers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list flowers: %w", err)
	}
	return flowers, total, nil
}

// ListSellerFlowers returns a page of one seller's catalog. A seller with no
// flowers at all is NotFound.
func (s *CatalogService) ListSellerFlowers(ctx context.Context, sellerID string, filter repository.ListFilter) ([]domain.Flower, int, error) {
	flowers, total, err := s.repo.ListBySeller(ctx, sellerID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list seller flowers: %w", err)
	}
	if total == 0 {
		return nil, 0, apperrors.NotFoundMsg(fmt.Sprintf("no flowers for seller %s", sellerID))
	}
	return flowers, total, nil
}

// compensateCover removes a cover uploaded during a write whose document
// mutation failed, so the object store holds no orphan.
func (s *CatalogService) compensateCover(ctx context.Context, flowerID, coverURL string) {
	if err := s.covers.Delete(ctx, coverURL); err != nil {
		s.logger.ErrorContext(ctx, "failed to compensate orphaned cover upload",
			slog.String("flower_id", flowerID),
			slog.String("cover_url", coverURL),
			slog.String("error", err.Error()),
		)
	}
}

func applyUpdate(existing *domain.Flower, update repository.PartialUpdate) *domain.Flower {
	updated := *existing
	if update.Name != nil {
		updated.Name = *update.Name
		updated.SearchTokens = update.SearchTokens
	}
	if update.LocalName != nil {
		updated.LocalName = *update.LocalName
	}
	if update.CoverURL != nil {
		updated.CoverURL = update.CoverURL
	}
	updated.UpdatedAt = time.Now().UTC()
	return &updated
}
