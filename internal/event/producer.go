package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Qwwn/capstone-sangar/internal/domain"
	pkgkafka "github.com/Qwwn/capstone-sangar/pkg/kafka"
)

// Kafka topic constants for flower catalog events.
const (
	TopicFlowerCreated = "catalog.flower.created"
	TopicFlowerUpdated = "catalog.flower.updated"
	TopicFlowerDeleted = "catalog.flower.deleted"
)

// Aggregate type constant.
const AggregateTypeFlower = "flower"

// Source identifier for events originating from the catalog service.
const SourceCatalogService = "catalog-service"

// FlowerCreatedData is the payload for a flower.created event.
type FlowerCreatedData struct {
	ID        string  `json:"id"`
	SellerID  string  `json:"seller_id"`
	Name      string  `json:"name"`
	LocalName string  `json:"local_name"`
	CoverURL  *string `json:"cover_url,omitempty"`
}

// FlowerUpdatedData is the payload for a flower.updated event.
type FlowerUpdatedData struct {
	ID        string  `json:"id"`
	SellerID  string  `json:"seller_id"`
	Name      string  `json:"name"`
	LocalName string  `json:"local_name"`
	CoverURL  *string `json:"cover_url,omitempty"`
}

// FlowerDeletedData is the payload for a flower.deleted event.
type FlowerDeletedData struct {
	ID       string `json:"id"`
	SellerID string `json:"seller_id"`
}

// Publisher is implemented by the Kafka-backed producer. Services hold the
// interface so tests can observe published events.
type Publisher interface {
	PublishFlowerCreated(ctx context.Context, flower *domain.Flower) error
	PublishFlowerUpdated(ctx context.Context, flower *domain.Flower) error
	PublishFlowerDeleted(ctx context.Context, sellerID, id string) error
}

// Producer publishes flower catalog events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishFlowerCreated publishes a flower.created event.
func (p *Producer) PublishFlowerCreated(ctx context.Context, flower *domain.Flower) error {
	data := FlowerCreatedData{
		ID:        flower.ID,
		SellerID:  flower.SellerID,
		Name:      flower.Name,
		LocalName: flower.LocalName,
		CoverURL:  flower.CoverURL,
	}

	event, err := pkgkafka.NewEvent(TopicFlowerCreated, flower.ID, AggregateTypeFlower, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create flower.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicFlowerCreated, event); err != nil {
		return fmt.Errorf("publish flower.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published flower.created event",
		slog.String("flower_id", flower.ID),
		slog.String("seller_id", flower.SellerID),
	)

	return nil
}

// PublishFlowerUpdated publishes a flower.updated event.
func (p *Producer) PublishFlowerUpdated(ctx context.Context, flower *domain.Flower) error {
	data := FlowerUpdatedData{
		ID:        flower.ID,
		SellerID:  flower.SellerID,
		Name:      flower.Name,
		LocalName: flower.LocalName,
		CoverURL:  flower.CoverURL,
	}

	event, err := pkgkafka.NewEvent(TopicFlowerUpdated, flower.ID, AggregateTypeFlower, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create flower.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicFlowerUpdated, event); err != nil {
		return fmt.Errorf("publish flower.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published flower.updated event",
		slog.String("flower_id", flower.ID),
		slog.String("seller_id", flower.SellerID),
	)

	return nil
}

// PublishFlowerDeleted publishes a flower.deleted event.
func (p *Producer) PublishFlowerDeleted(ctx context.Context, sellerID, id string) error {
	data := FlowerDeletedData{ID: id, SellerID: sellerID}

	event, err := pkgkafka.NewEvent(TopicFlowerDeleted, id, AggregateTypeFlower, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create flower.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicFlowerDeleted, event); err != nil {
		return fmt.Errorf("publish flower.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published flower.deleted event",
		slog.String("flower_id", id),
		slog.String("seller_id", sellerID),
	)

	return nil
}
