package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ShelfPulse/internal/domain/models"
)

type recordingProc struct {
	mu     sync.Mutex
	events []*models.SaleEvent
	err    error
}

func (p *recordingProc) Process(_ context.Context, e *models.SaleEvent) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingProc) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type countingMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{errors: make(map[string]int)}
}

func (m *countingMetrics) RecordMessageSent(string, string) {}
func (m *countingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}
func (m *countingMetrics) RecordRecommendedPrice(string, float64) {}
func (m *countingMetrics) RecordLatency(string, float64)          {}

func (m *countingMetrics) count(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}

func validSale(store string) *models.SaleEvent {
	return &models.SaleEvent{
		ProductID: "sku-1",
		StoreID:   store,
		Quantity:  2,
		UnitPrice: 3.5,
		Timestamp: time.Now().Unix(),
	}
}

func TestPipelineForwardsValidSale(t *testing.T) {
	proc := &recordingProc{}
	p := NewIngestPipeline(proc, newCountingMetrics())

	if err := p.Process(context.Background(), validSale("store-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := proc.count(); got != 1 {
		t.Fatalf("forwarded events = %d, want 1", got)
	}
}

func TestPipelineRejectsInvalidSales(t *testing.T) {
	proc := &recordingProc{}
	m := newCountingMetrics()
	p := NewIngestPipeline(proc, m)

	cases := []*models.SaleEvent{
		nil,
		{StoreID: "s", Quantity: 1, UnitPrice: 1, Timestamp: 1},                       // no product
		{ProductID: "sku", StoreID: "s", Quantity: 1, UnitPrice: 1},                   // no timestamp
		{ProductID: "sku", StoreID: "s", Quantity: 0, UnitPrice: 1, Timestamp: 1},     // zero quantity
		{ProductID: "sku", StoreID: "s", Quantity: 1, UnitPrice: -0.5, Timestamp: 1},  // negative price
	}
	for i, e := range cases {
		if err := p.Process(context.Background(), e); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
	if got := proc.count(); got != 0 {
		t.Fatalf("forwarded events = %d, want 0", got)
	}
	if got := m.count("pipeline_validate"); got != len(cases) {
		t.Fatalf("pipeline_validate = %d, want %d", got, len(cases))
	}
}

func TestPipelineThrottlesPerStore(t *testing.T) {
	proc := &recordingProc{}
	m := newCountingMetrics()
	p := NewIngestPipeline(proc, m, WithMaxRPS(1))

	ctx := context.Background()
	if err := p.Process(ctx, validSale("store-1")); err != nil {
		t.Fatalf("first event: %v", err)
	}
	// Second event for the same store inside the window drops silently.
	if err := p.Process(ctx, validSale("store-1")); err != nil {
		t.Fatalf("throttled event should not error: %v", err)
	}
	// A different store has its own window.
	if err := p.Process(ctx, validSale("store-2")); err != nil {
		t.Fatalf("other store: %v", err)
	}

	if got := proc.count(); got != 2 {
		t.Fatalf("forwarded events = %d, want 2", got)
	}
	if got := m.count("pipeline_throttle"); got != 1 {
		t.Fatalf("pipeline_throttle = %d, want 1", got)
	}
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	proc := &recordingProc{err: errors.New("backend down")}
	m := newCountingMetrics()
	p := NewIngestPipeline(proc, m, WithBufferSize(4))

	if err := p.Process(context.Background(), validSale("store-1")); err == nil {
		t.Fatal("expected downstream error")
	}
	if got := len(p.bufCh); got != 1 {
		t.Fatalf("buffered events = %d, want 1", got)
	}
	if got := m.count("pipeline_process"); got != 1 {
		t.Fatalf("pipeline_process = %d, want 1", got)
	}
}

func TestPipelineTransformRunsBeforeValidation(t *testing.T) {
	proc := &recordingProc{}
	p := NewIngestPipeline(proc, newCountingMetrics(), WithTransform(func(e *models.SaleEvent) *models.SaleEvent {
		if e.Timestamp > 1e11 { // ms to s
			e.Timestamp /= 1000
		}
		return e
	}))

	e := validSale("store-1")
	e.Timestamp = time.Now().UnixMilli()
	if err := p.Process(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := proc.count(); got != 1 {
		t.Fatalf("forwarded events = %d, want 1", got)
	}
	if proc.events[0].Timestamp > 1e11 {
		t.Fatal("timestamp not folded to seconds")
	}
}
