package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"ShelfPulse/internal/domain/models"
	"ShelfPulse/pkg/logger"
)

var errSaveFailed = errors.New("save failed")

func testLogger() *logger.Logger {
	l, _ := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	return l
}

func dailySales(productID string, qtys ...int) []models.SalesRecord {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := make([]models.SalesRecord, 0, len(qtys))
	for i, q := range qtys {
		records = append(records, models.SalesRecord{
			ProductID: productID,
			Quantity:  q,
			UnitPrice: 2.5,
			Revenue:   float64(q) * 2.5,
			Date:      start.AddDate(0, 0, i),
		})
	}
	return records
}

type fakeSalesStore struct {
	mu       sync.Mutex
	history  map[string][]models.SalesRecord
	stored   []models.SalesRecord
	err      error
	storeErr error
}

func (f *fakeSalesStore) Init(context.Context) error { return nil }

func (f *fakeSalesStore) Store(_ context.Context, r *models.SalesRecord) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, *r)
	return nil
}

func (f *fakeSalesStore) StoreBatch(ctx context.Context, records []*models.SalesRecord) error {
	for _, r := range records {
		if err := f.Store(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeSalesStore) GetSalesHistory(_ context.Context, productID string, _ int) ([]models.SalesRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.history[productID], nil
}

func (f *fakeSalesStore) Health(context.Context) error { return nil }
func (f *fakeSalesStore) Close() error                 { return nil }

type fakePredictionStore struct {
	mu      sync.Mutex
	saved   []models.PredictionRecord
	records []models.PredictionRecord
	err     error
	failFor map[string]bool
}

func (f *fakePredictionStore) SavePrediction(_ context.Context, rec *models.PredictionRecord) (*models.PredictionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.failFor[rec.ProductID] {
		return nil, errSaveFailed
	}
	f.saved = append(f.saved, *rec)
	return rec, nil
}

func (f *fakePredictionStore) PredictionHistory(_ context.Context, productID string, limit int) ([]models.PredictionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.PredictionRecord, 0, limit)
	for _, r := range f.records {
		if r.ProductID != productID {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakePredictionStore) savedRecords() []models.PredictionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.PredictionRecord, len(f.saved))
	copy(out, f.saved)
	return out
}

type fakeCatalog struct {
	products []models.Product
	err      error
}

func (f *fakeCatalog) ListProducts(_ context.Context, storeID string) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if storeID == "" {
		return f.products, nil
	}
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) SimilarProducts(_ context.Context, category, excludeID string, limit int) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Product, 0, limit)
	for _, p := range f.products {
		if p.Category != category || p.ID == excludeID {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakePeers struct {
	peers        []models.Product
	lastCategory string
	lastExclude  string
	calls        int
}

func (f *fakePeers) Competitors(_ context.Context, category, excludeID string) []models.Product {
	f.calls++
	f.lastCategory = category
	f.lastExclude = excludeID
	return f.peers
}

type fakeMetrics struct {
	mu        sync.Mutex
	errors    map[string]int
	latencies map[string]int
	prices    map[string]float64
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		errors:    make(map[string]int),
		latencies: make(map[string]int),
		prices:    make(map[string]float64),
	}
}

func (m *fakeMetrics) RecordMessageSent(string, string) {}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *fakeMetrics) RecordRecommendedPrice(productID string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[productID] = price
}

func (m *fakeMetrics) RecordLatency(op string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencies[op]++
}

func (m *fakeMetrics) errorCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}
