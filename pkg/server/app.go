package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ShelfPulse/internal/usecase"
	pkgch "ShelfPulse/pkg/clickhouse"
	"ShelfPulse/pkg/config"
	xhttp "ShelfPulse/pkg/http"
	pkgkafka "ShelfPulse/pkg/kafka"
	applogger "ShelfPulse/pkg/logger"
	"ShelfPulse/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	collector   *usecase.SaleCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	jobs        queue.QueueService
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	SaleProc    *usecase.SaleProcessor
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	collector *usecase.SaleCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	jobs queue.QueueService,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
		jobs:      jobs,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.log
	if l == nil {
		l, _ = applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	}

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start the POS collector only when a feed is configured; the service
	// still serves pricing and forecasts without a live feed.
	if a.collector != nil && a.cfg.PosFeed.WebSocketURL != "" {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				l.Error("collector error", applogger.Error(err))
			}
		}()
		l.Info("pos collector started", applogger.Strings("stores", a.cfg.PosFeed.Stores))
	}

	// Start consumer when sales flow through Kafka
	if a.consumer != nil && a.kh != nil && a.cfg.Backend.Type == "kafka" {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx, l)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context, l *applogger.Logger) error {
	l.Info("shutting down...")

	// Stop collector (pipeline + stream)
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			l.Warn("collector stop error", applogger.Error(err))
		}
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Stop job queue workers
	if a.jobs != nil {
		if q, ok := a.jobs.(*queue.RedisQueue); ok {
			if err := q.Stop(shutdownCtx); err != nil {
				l.Warn("job queue stop error", applogger.Error(err))
			}
		}
	}

	// Close sale processor resources (publisher/store)
	if a.SaleProc != nil {
		a.SaleProc.Close()
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
