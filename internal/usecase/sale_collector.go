package usecase

import (
	"context"

	"ShelfPulse/internal/domain/models"
	drepo "ShelfPulse/internal/domain/repository"
	mid "ShelfPulse/internal/middleware"
)

// SaleCollector pulls sale events off the POS feed and pushes them through
// the ingest pipeline.
type SaleCollector struct {
	stream  drepo.SaleStream
	proc    *SaleProcessor
	metrics drepo.Metrics
	pipe    *mid.IngestPipeline
}

// NewSaleCollector creates a new SaleCollector instance.
func NewSaleCollector(stream drepo.SaleStream, proc *SaleProcessor, metrics drepo.Metrics, pipe *mid.IngestPipeline) *SaleCollector {
	return &SaleCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the POS feed is connected.
func (c *SaleCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *SaleCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	evCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, evCh, errCh)
	return nil
}

func (c *SaleCollector) consume(ctx context.Context, evCh <-chan *models.SaleEvent, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case e := <-evCh:
			if e == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, e)
			} else {
				_ = c.proc.Process(ctx, e)
			}
		}
	}
}

func (c *SaleCollector) Stop() error { return c.stream.Close() }

// Processor returns the underlying SaleProcessor for lifecycle management.
func (c *SaleCollector) Processor() *SaleProcessor { return c.proc }

// Shutdown stops the pipeline and closes the feed.
func (c *SaleCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
