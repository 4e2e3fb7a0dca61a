package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ShelfPulse/internal/domain/models"
	domrepo "ShelfPulse/internal/domain/repository"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, e *models.SaleEvent) error
}

// IngestPipeline sits between the POS feed and the message backend.
// It validates, throttles per store, optionally transforms, and buffers
// events when the downstream is unavailable.
type IngestPipeline struct {
	proc     Proc
	metrics  domrepo.Metrics
	maxRPS   int
	bufSize  int
	bufCh    chan *models.SaleEvent
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastSeen map[string]time.Time // per-store last accepted time

	transform func(*models.SaleEvent) *models.SaleEvent

	bufDepthGauge func(int)
	throttleWarn  func(string)
}

type PipelineOption func(*IngestPipeline)

// WithMaxRPS sets the max accepted events per second per store.
func WithMaxRPS(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithTransform sets a hook to normalize event format before validation.
func WithTransform(fn func(*models.SaleEvent) *models.SaleEvent) PipelineOption {
	return func(p *IngestPipeline) { p.transform = fn }
}

// NewIngestPipeline creates a new pipeline.
func NewIngestPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *IngestPipeline {
	p := &IngestPipeline{
		proc:     proc,
		metrics:  metrics,
		maxRPS:   50,   // default throttle per store
		bufSize:  1000, // default buffer
		bufCh:    make(chan *models.SaleEvent, 1000),
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.SaleEvent, p.bufSize)
	}
	p.bufDepthGauge = func(n int) { p.metrics.RecordLatency("pipeline_buffer_depth", float64(n)) }
	p.throttleWarn = func(store string) { p.metrics.RecordError("pipeline_throttle_" + store) }
	return p
}

// Start launches background flushing of buffered events.
func (p *IngestPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case e := <-p.bufCh:
				if e == nil {
					continue
				}
				if err := p.proc.Process(ctx, e); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- e:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *IngestPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards the event downstream, buffering
// on errors.
func (p *IngestPipeline) Process(ctx context.Context, e *models.SaleEvent) error {
	start := time.Now()
	if p.transform != nil && e != nil {
		e = p.transform(e)
	}
	if err := validateSale(e); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.allow(e.StoreID, start) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		if p.throttleWarn != nil {
			p.throttleWarn(e.StoreID)
		}
		return nil
	}

	if err := p.proc.Process(ctx, e); err != nil {
		p.metrics.RecordError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- e:
			if p.bufDepthGauge != nil {
				p.bufDepthGauge(len(p.bufCh))
			}
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateSale(e *models.SaleEvent) error {
	if e == nil {
		return fmt.Errorf("sale event nil")
	}
	if e.ProductID == "" {
		return fmt.Errorf("productId empty")
	}
	if e.Timestamp <= 0 {
		return fmt.Errorf("timestamp invalid")
	}
	if e.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if e.UnitPrice < 0 {
		return fmt.Errorf("negative unit price")
	}
	return nil
}

func (p *IngestPipeline) allow(store string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	last := p.lastSeen[store]
	if last.IsZero() {
		p.lastSeen[store] = now
		return true
	}
	if now.Sub(last) < time.Second/time.Duration(p.maxRPS) {
		return false
	}
	p.lastSeen[store] = now
	return true
}
