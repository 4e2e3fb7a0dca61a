package repository

import (
	"context"

	"ShelfPulse/internal/domain/models"
)

// SaleStream is a live feed of POS sale events (store gateway).
type SaleStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.SaleEvent, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher publishes sale events to the message backend.
type Publisher interface {
	Publish(ctx context.Context, e *models.SaleEvent) error
	PublishBatch(ctx context.Context, events []*models.SaleEvent) error
	Close() error
}

// SalesStore persists and serves per-product sales history.
type SalesStore interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, r *models.SalesRecord) error
	StoreBatch(ctx context.Context, records []*models.SalesRecord) error

	// GetSalesHistory returns up to daysBack days of records for a product,
	// ordered ascending by date.
	GetSalesHistory(ctx context.Context, productID string, daysBack int) ([]models.SalesRecord, error)

	Health(ctx context.Context) error
	Close() error
}

// PredictionStore persists computed predictions and serves their history.
type PredictionStore interface {
	SavePrediction(ctx context.Context, rec *models.PredictionRecord) (*models.PredictionRecord, error)

	// PredictionHistory returns up to limit records, most recent first.
	PredictionHistory(ctx context.Context, productID string, limit int) ([]models.PredictionRecord, error)
}

// ProductCatalog serves product snapshots for batch prediction runs.
type ProductCatalog interface {
	ListProducts(ctx context.Context, storeID string) ([]models.Product, error)
	SimilarProducts(ctx context.Context, category string, excludeID string, limit int) ([]models.Product, error)
}

// Metrics records operational metrics.
type Metrics interface {
	RecordMessageSent(backend, productID string)
	RecordError(kind string)
	RecordRecommendedPrice(productID string, price float64)
	RecordLatency(op string, seconds float64)
}
