package usecase

import (
	"context"
	"fmt"
	"time"

	"ShelfPulse/internal/domain/models"
	drepo "ShelfPulse/internal/domain/repository"
)

// SaleProcessor routes incoming sale events to the configured backend:
// either the Kafka topic (normal deployment) or straight into the sales
// store (single-node deployment without a broker).
type SaleProcessor struct {
	pub     drepo.Publisher
	store   drepo.SalesStore
	metrics drepo.Metrics
	backend string
}

// NewSaleProcessor creates a new SaleProcessor instance.
func NewSaleProcessor(pub drepo.Publisher, store drepo.SalesStore, metrics drepo.Metrics, backend string) *SaleProcessor {
	return &SaleProcessor{pub: pub, store: store, metrics: metrics, backend: backend}
}

// Process routes a single sale event to the configured backend.
func (p *SaleProcessor) Process(ctx context.Context, e *models.SaleEvent) error {
	if e == nil {
		return fmt.Errorf("sale event is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, e)
	case "clickhouse":
		rec := e.Record()
		err = p.store.Store(ctx, &rec)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process sale: %w", err)
	}

	p.metrics.RecordMessageSent(p.backend, e.ProductID)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

// ProcessBatch routes multiple sale events in a batch.
func (p *SaleProcessor) ProcessBatch(ctx context.Context, events []*models.SaleEvent) error {
	if len(events) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, events)
	case "clickhouse":
		records := make([]*models.SalesRecord, len(events))
		for i, e := range events {
			rec := e.Record()
			records[i] = &rec
		}
		err = p.store.StoreBatch(ctx, records)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, e := range events {
		p.metrics.RecordMessageSent(p.backend, e.ProductID)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}

// Close closes underlying resources if available.
func (p *SaleProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
