package usecase

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"ShelfPulse/internal/domain/models"
	domrepo "ShelfPulse/internal/domain/repository"
	pkgkafka "ShelfPulse/pkg/kafka"
	"ShelfPulse/pkg/logger"
)

// revenueTolerance is one cent; larger gaps between the reported revenue and
// quantity*unitPrice are flagged as a data-quality issue.
const revenueTolerance = 0.01

// KafkaSalesHandler consumes sale events from Kafka and writes them to the
// sales store. quantity*unitPrice is the canonical revenue figure; a reported
// revenue that disagrees is logged but never rejected.
type KafkaSalesHandler struct {
	topic   string
	store   domrepo.SalesStore
	metrics domrepo.Metrics
	log     *logger.Logger
}

func NewKafkaSalesHandler(topic string, store domrepo.SalesStore, metrics domrepo.Metrics, log *logger.Logger) *KafkaSalesHandler {
	return &KafkaSalesHandler{topic: topic, store: store, metrics: metrics, log: log}
}

func (h *KafkaSalesHandler) Topic() string { return h.topic }

func (h *KafkaSalesHandler) Handle(ctx context.Context, b []byte) error {
	var e models.SaleEvent
	if err := json.Unmarshal(b, &e); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if e.Timestamp > 1e11 { // ms
		e.Timestamp = e.Timestamp / 1000
	}
	// E2E latency from event time to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(e.Timestamp, 0)).Seconds())

	rec := e.Record()
	if e.Revenue != 0 && math.Abs(e.Revenue-rec.Revenue) > revenueTolerance {
		h.metrics.RecordError("revenue_mismatch")
		h.log.Warn("sales: reported revenue disagrees with quantity*unitPrice",
			logger.String("product_id", e.ProductID),
			logger.Any("reported", e.Revenue),
			logger.Any("computed", rec.Revenue))
	}

	start := time.Now()
	err := h.store.Store(ctx, &rec)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordMessageSent("clickhouse", e.ProductID)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSalesHandler)(nil)
